// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package fingerprint derives a stable pseudo-anonymous device identifier
without accounts or cookies.

# Resolution Order

 1. A legacy identifier previously minted and persisted under LegacyKey is
    returned verbatim (method "legacy_local_storage"). No derivation runs.
 2. Otherwise the canvas probe is serialized to a data URL, concatenated
    with a pipe-joined hardware/locale descriptor (core count, screen
    dimensions, color depth, touch points, language, timezone, platform),
    and hashed with SHA-256 (method "canvas+hardware").

# Guarantees and Trade-offs

Device never fails: every provider error degrades to an empty component.
The fingerprint is stable across calls within one storage context, but it
is not unique across devices (collisions are accepted) and not stable
across storage clears: a cleared store yields a new derived fingerprint
and therefore a fresh vote. Known, accepted limitation.

# Usage

	store, _ := localstore.Open(path)
	gen := fingerprint.New(store)
	res := gen.Device() // memoized for the generator's lifetime

Tests inject fake providers with WithCanvas and WithSignals.
*/
package fingerprint
