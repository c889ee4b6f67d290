package storefront

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileTokenStoreMissingTokenIsNotAnError(t *testing.T) {
	store := NewFileTokenStore(t.TempDir())

	token, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestFileTokenStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewFileTokenStore(dir)

	require.NoError(t, store.Save("abc123"))

	// The token lives under the fixed key so a new store instance finds it.
	_, err := os.Stat(filepath.Join(dir, DefaultTokenKey))
	require.NoError(t, err)

	token, err := NewFileTokenStore(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	require.NoError(t, store.Clear())
	token, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestFileTokenStoreClearIsIdempotent(t *testing.T) {
	store := NewFileTokenStore(t.TempDir())
	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
}

func TestMemoryTokenStore(t *testing.T) {
	store := &MemoryTokenStore{}

	token, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Save("tok"))
	token, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok", token)

	require.NoError(t, store.Clear())
	token, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}
