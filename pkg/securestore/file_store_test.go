package securestore_test

import (
	"context"
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrconnect/appkit/pkg/securestore"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, securestore.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestNewFileStore(t *testing.T) {
	t.Parallel()

	t.Run("creates data directory", func(t *testing.T) {
		t.Parallel()
		dir := filepath.Join(t.TempDir(), "nested", "keystore")
		_, err := securestore.NewFileStore(dir, testKey(t))
		require.NoError(t, err)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("rejects short app key", func(t *testing.T) {
		t.Parallel()
		_, err := securestore.NewFileStore(t.TempDir(), []byte("too-short"))
		require.ErrorIs(t, err, securestore.ErrInvalidKey)
	})

	t.Run("rejects nil app key", func(t *testing.T) {
		t.Parallel()
		_, err := securestore.NewFileStore(t.TempDir(), nil)
		require.ErrorIs(t, err, securestore.ErrInvalidKey)
	})
}

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()
	key := testKey(t)

	store, err := securestore.NewFileStore(dir, key)
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, "auth_token", "header.payload.signature"))

	value, err := store.Get(ctx, "auth_token")
	require.NoError(t, err)
	assert.Equal(t, "header.payload.signature", value)

	t.Run("survives process restart", func(t *testing.T) {
		reopened, err := securestore.NewFileStore(dir, key)
		require.NoError(t, err)

		value, err := reopened.Get(ctx, "auth_token")
		require.NoError(t, err)
		assert.Equal(t, "header.payload.signature", value)
	})

	t.Run("set overwrites prior value", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "auth_token", "newer.token.value"))

		value, err := store.Get(ctx, "auth_token")
		require.NoError(t, err)
		assert.Equal(t, "newer.token.value", value)
	})

	t.Run("value is not stored in plaintext", func(t *testing.T) {
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.NotEmpty(t, entries)

		raw, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "newer.token.value")
	})
}

func TestFileStoreGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()
		store, err := securestore.NewFileStore(t.TempDir(), testKey(t))
		require.NoError(t, err)

		_, err = store.Get(ctx, "auth_token")
		require.ErrorIs(t, err, securestore.ErrNotFound)
	})

	t.Run("wrong app key", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		store, err := securestore.NewFileStore(dir, testKey(t))
		require.NoError(t, err)
		require.NoError(t, store.Set(ctx, "auth_token", "secret-value"))

		other, err := securestore.NewFileStore(dir, testKey(t))
		require.NoError(t, err)

		_, err = other.Get(ctx, "auth_token")
		require.ErrorIs(t, err, securestore.ErrUnavailable)
	})

	t.Run("corrupt entry", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		store, err := securestore.NewFileStore(dir, testKey(t))
		require.NoError(t, err)
		require.NoError(t, store.Set(ctx, "auth_token", "secret-value"))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		require.NoError(t, os.WriteFile(filepath.Join(dir, entries[0].Name()), []byte("garbage"), 0o600))

		_, err = store.Get(ctx, "auth_token")
		require.ErrorIs(t, err, securestore.ErrUnavailable)
	})
}

func TestFileStoreDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, err := securestore.NewFileStore(t.TempDir(), testKey(t))
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, "auth_token", "value"))
	require.NoError(t, store.Delete(ctx, "auth_token"))

	_, err = store.Get(ctx, "auth_token")
	require.ErrorIs(t, err, securestore.ErrNotFound)

	// Deleting an absent key is not an error.
	require.NoError(t, store.Delete(ctx, "auth_token"))
}

func TestFileStoreKeyIsolation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, err := securestore.NewFileStore(t.TempDir(), testKey(t))
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, "auth_token", "token-value"))
	require.NoError(t, store.Set(ctx, "device_id", "device-value"))

	value, err := store.Get(ctx, "auth_token")
	require.NoError(t, err)
	assert.Equal(t, "token-value", value)

	require.NoError(t, store.Delete(ctx, "device_id"))

	value, err = store.Get(ctx, "auth_token")
	require.NoError(t, err)
	assert.Equal(t, "token-value", value)
}
