package tokenstore_test

import (
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/joequah1/erp-client/tokenstore"
)

func TestStoreReadYourWrites(t *testing.T) {
	store := tokenstore.New(tokenstore.NewMemStorage())

	store.SetTokens("access-1", "refresh-1")
	store.SetShopID("shop-1")

	tokens := store.Tokens()
	require.Equal(t, "access-1", tokens.AccessToken)
	require.Equal(t, "refresh-1", tokens.RefreshToken)
	require.Equal(t, "shop-1", tokens.CurrentShopID)

	// Last write wins.
	store.SetTokens("access-2", "refresh-2")
	store.SetShopID("shop-2")

	tokens = store.Tokens()
	require.Equal(t, "access-2", tokens.AccessToken)
	require.Equal(t, "refresh-2", tokens.RefreshToken)
	require.Equal(t, "shop-2", tokens.CurrentShopID)
}

func TestStoreRehydratesAfterReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	storage, err := tokenstore.NewFileStorage(path)
	require.NoError(t, err)

	store := tokenstore.New(storage)
	store.SetTokens("access-1", "refresh-1")
	store.SetShopID("shop-1")

	// A reload clears memory but not durable storage.
	reloaded, err := tokenstore.NewFileStorage(path)
	require.NoError(t, err)

	fresh := tokenstore.New(reloaded)
	tokens := fresh.Tokens()
	require.Equal(t, "access-1", tokens.AccessToken)
	require.Equal(t, "refresh-1", tokens.RefreshToken)
	require.Equal(t, "shop-1", tokens.CurrentShopID)
}

func TestClearRemovesEverythingIncludingLegacyKeys(t *testing.T) {
	storage := tokenstore.NewMemStorage()

	// Simulate values left behind by an older session format.
	require.NoError(t, storage.Set(tokenstore.KeyLegacyAuthToken, "old-token"))
	require.NoError(t, storage.Set(tokenstore.KeyLegacyShopID, "old-shop"))

	store := tokenstore.New(storage)
	store.SetTokens("access-1", "refresh-1")
	store.SetShopID("shop-1")
	store.SetRedirectPath("/inventory")

	store.Clear()

	tokens := store.Tokens()
	require.Empty(t, tokens.AccessToken)
	require.Empty(t, tokens.RefreshToken)
	require.Empty(t, tokens.CurrentShopID)
	require.Empty(t, store.ConsumeRedirectPath())

	for _, key := range []string{
		tokenstore.KeyAccessToken,
		tokenstore.KeyRefreshToken,
		tokenstore.KeyCurrentShopID,
		tokenstore.KeyRedirectPath,
		tokenstore.KeyLegacyAuthToken,
		tokenstore.KeyLegacyShopID,
	} {
		value, err := storage.Get(key)
		require.NoError(t, err)
		require.Empty(t, value, "key %s should be cleared", key)
	}
}

func TestRedirectPathIsConsumedOnce(t *testing.T) {
	store := tokenstore.New(tokenstore.NewMemStorage())

	store.SetRedirectPath("/batches/42")
	require.Equal(t, "/batches/42", store.ConsumeRedirectPath())
	require.Empty(t, store.ConsumeRedirectPath())
}

// brokenStorage fails every operation, emulating disabled durable storage.
type brokenStorage struct{}

func (brokenStorage) Get(string) (string, error) { return "", errors.New("storage disabled") }
func (brokenStorage) Set(string, string) error   { return errors.New("storage disabled") }
func (brokenStorage) Delete(string) error        { return errors.New("storage disabled") }

func TestStoreDegradesToMemoryWhenStorageFails(t *testing.T) {
	store := tokenstore.New(brokenStorage{})

	// No setter or getter may surface the storage failure.
	store.SetTokens("access-1", "refresh-1")
	store.SetShopID("shop-1")

	tokens := store.Tokens()
	require.Equal(t, "access-1", tokens.AccessToken)
	require.Equal(t, "refresh-1", tokens.RefreshToken)
	require.Equal(t, "shop-1", tokens.CurrentShopID)

	store.Clear()
	require.Empty(t, store.Tokens().AccessToken)
}
