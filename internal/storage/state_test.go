// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *StateStore {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGetMissingKey(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get("nope")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestSetGetRoundTrip(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Set(KeySelectedModel, "llama3.2:3b"))
	v, err := store.Get(KeySelectedModel)
	require.NoError(t, err)
	assert.Equal(t, "llama3.2:3b", v)

	// Overwrite replaces.
	require.NoError(t, store.Set(KeySelectedModel, "cloud::3"))
	assert.Equal(t, "cloud::3", store.GetString(KeySelectedModel, ""))
}

func TestBoolFlags(t *testing.T) {
	store := openTestStore(t)

	assert.False(t, store.GetBool(KeyIncognito, false))
	assert.True(t, store.GetBool(KeyIncognito, true))

	require.NoError(t, store.SetBool(KeyIncognito, true))
	assert.True(t, store.GetBool(KeyIncognito, false))

	require.NoError(t, store.SetBool(KeyIncognito, false))
	assert.False(t, store.GetBool(KeyIncognito, true))
}

func TestGetBoolGarbageValue(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.Set(KeySearchMode, "banana"))
	assert.True(t, store.GetBool(KeySearchMode, true))
}

func TestDelete(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.Set("k", "v"))
	require.NoError(t, store.Delete("k"))

	_, err := store.Get("k")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// Deleting again is fine.
	assert.NoError(t, store.Delete("k"))
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(KeyCloudServiceKey, "openrouter"))
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()
	assert.Equal(t, "openrouter", store.GetString(KeyCloudServiceKey, ""))
}

func TestTitleCache(t *testing.T) {
	store := openTestStore(t)

	assert.Empty(t, store.CachedTitle("sess-1"))

	require.NoError(t, store.CacheTitle("sess-1", "renamed chat"))
	assert.Equal(t, "renamed chat", store.CachedTitle("sess-1"))

	require.NoError(t, store.CacheTitle("sess-1", "renamed again"))
	assert.Equal(t, "renamed again", store.CachedTitle("sess-1"))

	require.NoError(t, store.DropTitle("sess-1"))
	assert.Empty(t, store.CachedTitle("sess-1"))
}
