// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ident

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// MintLegacyID creates a fresh legacy device identifier. Clients that
// predate hash-based fingerprinting minted one of these once and reuse it
// forever; it is opaque and carries no device signal.
func MintLegacyID() string {
	return uuid.NewString()
}

// SHA256Hex returns the lowercase hex SHA-256 digest of s.
// Used for both the derived device fingerprint and the user-agent hash.
func SHA256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}
