// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package votecache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/aniheart/localstore"
)

// failStore simulates broken durable storage
type failStore struct{}

func (failStore) Get(string) ([]byte, error) { return nil, errors.New("storage unavailable") }
func (failStore) Put(string, []byte) error   { return errors.New("storage unavailable") }

func TestEmptyRegistry(t *testing.T) {
	cache := New(localstore.NewMem())

	reg := cache.Registry()
	require.NotNil(t, reg)
	assert.Empty(t, reg)

	_, ok := cache.Item("ext-123")
	assert.False(t, ok)
}

func TestCorruptBlobResolvesToEmpty(t *testing.T) {
	store := localstore.NewMem()
	require.NoError(t, store.Put(RegistryKey, []byte("{definitely not json")))

	cache := New(store)
	assert.Empty(t, cache.Registry())

	// And the cache remains usable afterwards
	_, err := cache.UpdateItem("ext-123", Patch{Count: IntP(3)})
	require.NoError(t, err)
	item, ok := cache.Item("ext-123")
	require.True(t, ok)
	assert.Equal(t, 3, item.Count)
}

func TestStorageFailureResolvesToEmpty(t *testing.T) {
	cache := New(failStore{})
	assert.Empty(t, cache.Registry())
}

func TestUpdateItemMergesPartial(t *testing.T) {
	cache := New(localstore.NewMem())

	// Absent entry defaults to {count:0, loved:false}
	item, err := cache.UpdateItem("app-1", Patch{Loved: BoolP(true)})
	require.NoError(t, err)
	assert.Equal(t, Item{Count: 0, Loved: true}, item)

	// Count-only patch keeps loved
	item, err = cache.UpdateItem("app-1", Patch{Count: IntP(12)})
	require.NoError(t, err)
	assert.Equal(t, Item{Count: 12, Loved: true}, item)

	// Timestamp patch keeps both
	item, err = cache.UpdateItem("app-1", Patch{Timestamp: Int64P(1700000000000)})
	require.NoError(t, err)
	assert.Equal(t, Item{Count: 12, Loved: true, Timestamp: 1700000000000}, item)
}

func TestUpdateItemPersistsSynchronously(t *testing.T) {
	store := localstore.NewMem()

	cache := New(store)
	_, err := cache.UpdateItem("ext-9", Patch{Count: IntP(5), Loved: BoolP(true)})
	require.NoError(t, err)

	// A second cache over the same store sees the write
	fresh := New(store)
	item, ok := fresh.Item("ext-9")
	require.True(t, ok)
	assert.Equal(t, 5, item.Count)
	assert.True(t, item.Loved)
}

func TestMergeServerWins(t *testing.T) {
	cache := New(localstore.NewMem())

	require.NoError(t, cache.SetRegistry(Registry{
		"A": {Count: 2, Loved: false},
		"B": {Count: 9, Loved: true},
	}))

	// Hydration response: fresher state for A, nothing for B
	require.NoError(t, cache.Merge(Registry{
		"A": {Count: 3, Loved: true},
	}))

	reg := cache.Registry()
	assert.Equal(t, Item{Count: 3, Loved: true}, reg["A"], "server entry wins wholesale")
	assert.Equal(t, Item{Count: 9, Loved: true}, reg["B"], "local-only entry survives")
}

func TestSetRegistryReplacesWholesale(t *testing.T) {
	cache := New(localstore.NewMem())

	require.NoError(t, cache.SetRegistry(Registry{"A": {Count: 1}}))
	require.NoError(t, cache.SetRegistry(Registry{"B": {Count: 2}}))

	reg := cache.Registry()
	assert.NotContains(t, reg, "A")
	assert.Equal(t, 2, reg["B"].Count)
}
