package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTokenStore(t *testing.T) {
	store := NewMemoryTokenStore()

	_, ok := store.Get()
	assert.False(t, ok, "empty store is unauthenticated")

	creds := Credentials{AccessToken: "acc", RefreshToken: "ref", ShopName: "Sharma Kirana"}
	require.NoError(t, store.Set(creds))

	got, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, creds, got)

	require.NoError(t, store.Clear())
	_, ok = store.Get()
	assert.False(t, ok)
}

func TestMemoryTokenStoreNoAccessTokenMeansUnauthenticated(t *testing.T) {
	store := NewMemoryTokenStore()
	require.NoError(t, store.Set(Credentials{ShopName: "leftover"}))

	_, ok := store.Get()
	assert.False(t, ok)
}

func TestFileTokenStoreRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session", "tokens.json")
	store, err := NewFileTokenStore(path)
	require.NoError(t, err)

	_, ok := store.Get()
	assert.False(t, ok, "missing file reads as unauthenticated")

	creds := Credentials{AccessToken: "acc", RefreshToken: "ref", ShopName: "Sharma Kirana"}
	require.NoError(t, store.Set(creds))

	// A fresh store over the same path sees the session.
	reopened, err := NewFileTokenStore(path)
	require.NoError(t, err)
	got, ok := reopened.Get()
	require.True(t, ok)
	assert.Equal(t, creds, got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileTokenStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	store, err := NewFileTokenStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Set(Credentials{AccessToken: "acc"}))
	require.NoError(t, store.Clear())

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	// Clearing an already-empty store is not an error.
	require.NoError(t, store.Clear())
}

func TestFileTokenStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	store, err := NewFileTokenStore(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, ok := store.Get()
	assert.False(t, ok, "garbage on disk degrades to logged-out")
}

func TestFileTokenStoreEmptyPath(t *testing.T) {
	_, err := NewFileTokenStore("")
	assert.Error(t, err)
}
