// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ident provides hashing and identifier minting for the vote ledger.

# Fingerprint Digests

SHA256Hex produces the hex digest used for both the derived device
fingerprint (canvas + hardware signals) and the informational user-agent
hash:

	fp := ident.SHA256Hex(canvasDigest + "|" + signals)

# Legacy Identifiers

MintLegacyID mints the random identifier older clients persist in durable
storage. Once minted it is reused verbatim forever, so any stored legacy ID
takes precedence over hash derivation.

# IP Hashing

HashIP is a salted HMAC-SHA256 truncated to 64 bits, stored for abuse
analysis. The raw IP is never persisted.
*/
package ident
