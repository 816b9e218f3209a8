// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package votecache is the device-local vote registry: a map of item ID to
{count, loved} persisted as one JSON blob in durable storage.

The registry is a best-effort mirror of server truth. It is refreshed
wholesale on load (Merge with the server's registry response) and patched
incrementally on every toggle (UpdateItem). There is no TTL or eviction;
item cardinality is small, tens to low thousands.

Corrupt or missing blobs read as an empty registry and are logged, never
surfaced as errors.

	cache := votecache.New(store)
	item, _ := cache.UpdateItem("ext-123", votecache.Patch{
		Count: votecache.IntP(11),
		Loved: votecache.BoolP(true),
	})
*/
package votecache
