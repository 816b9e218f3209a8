// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package votecache

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// RegistryKey is the single durable-storage key the serialized registry
// lives under.
const RegistryKey = "vote_registry"

// Item is one votable entity's vote state as known to this device.
// Loved=true implies this device contributed exactly one unit to Count
// server-side.
type Item struct {
	Count     int   `json:"count"`
	Loved     bool  `json:"loved"`
	Timestamp int64 `json:"timestamp,omitempty"`
}

// Registry maps item identifier to vote state. It is a best-effort mirror
// of server truth: refreshed wholesale on load, patched on every toggle.
type Registry map[string]Item

// Store is the durable blob storage the registry persists to.
type Store interface {
	Get(key string) ([]byte, error)
	Put(key string, val []byte) error
}

// Patch is a partial Item update; nil fields are left untouched.
type Patch struct {
	Count     *int
	Loved     *bool
	Timestamp *int64
}

func IntP(v int) *int       { return &v }
func BoolP(v bool) *bool    { return &v }
func Int64P(v int64) *int64 { return &v }

// Cache is the device-local vote registry. Reads and writes go through
// one serialized JSON blob in durable storage; corrupt or missing blobs
// resolve to an empty registry rather than an error. The whole-blob
// read-modify-write is guarded per Cache, but two components sharing a
// store without sharing the Cache race last-writer-wins. Accepted, since
// each item's sub-key is independent.
type Cache struct {
	store Store
	mu    sync.Mutex
}

func New(store Store) *Cache {
	return &Cache{store: store}
}

// Registry returns the full registry. Never fails: missing or corrupt
// blobs are logged and read as empty.
func (c *Cache) Registry() Registry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load()
}

// SetRegistry replaces the registry wholesale.
func (c *Cache) SetRegistry(reg Registry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(reg)
}

// Item returns one entry and whether it was present.
func (c *Cache) Item(id string) (Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.load()[id]
	return item, ok
}

// UpdateItem merges a partial update onto the existing entry (a zero Item
// if absent) and persists the whole registry synchronously. Returns the
// merged entry.
func (c *Cache) UpdateItem(id string, patch Patch) (Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	reg := c.load()
	item := reg[id] // zero value {count:0, loved:false} when absent

	if patch.Count != nil {
		item.Count = *patch.Count
	}
	if patch.Loved != nil {
		item.Loved = *patch.Loved
	}
	if patch.Timestamp != nil {
		item.Timestamp = *patch.Timestamp
	}

	reg[id] = item
	return item, c.save(reg)
}

// Merge overlays fresher server-side state onto the registry. Server
// entries win wholesale; local-only entries survive.
func (c *Cache) Merge(fresh Registry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	reg := c.load()
	for id, item := range fresh {
		reg[id] = item
	}
	return c.save(reg)
}

// load must be called with the mutex held.
func (c *Cache) load() Registry {
	blob, err := c.store.Get(RegistryKey)
	if err != nil {
		slog.Warn("vote registry read failed", "error", err)
		return Registry{}
	}
	if len(blob) == 0 {
		return Registry{}
	}

	var reg Registry
	if err := json.Unmarshal(blob, &reg); err != nil {
		slog.Warn("vote registry corrupt, resetting", "error", err)
		return Registry{}
	}
	if reg == nil {
		return Registry{}
	}
	return reg
}

// save must be called with the mutex held.
func (c *Cache) save(reg Registry) error {
	blob, err := json.Marshal(reg)
	if err != nil {
		return err
	}
	return c.store.Put(RegistryKey, blob)
}
