// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package localstore provides durable client-side key/value storage.

It is the Go rendition of browser localStorage for the voting client: one
small bbolt file holding the serialized vote registry and, when present,
the legacy fingerprint identifier. Deleting the file is the "user cleared
storage" case: the device then derives a fresh fingerprint and may vote
again, which is an accepted trust trade-off rather than a bug.

	store, err := localstore.Open(filepath.Join(dir, "aniheart.db"))
	if err != nil { ... }
	defer store.Close()

Get returns nil (not an error) for absent keys. NewMem provides the same
surface in memory for tests.
*/
package localstore
