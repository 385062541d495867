package backend_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/joequah1/erp-client/apierror"
	"github.com/joequah1/erp-client/backend"
	"github.com/joequah1/erp-client/brands"
	brandfake "github.com/joequah1/erp-client/brands/repofake"
	"github.com/joequah1/erp-client/internal/config"
	"github.com/joequah1/erp-client/listing"
	"github.com/joequah1/erp-client/tokenstore"
	"github.com/joequah1/erp-client/transport"
)

func TestSelectorWiresMockBackend(t *testing.T) {
	cfg := &config.Config{UseMock: true}
	store := tokenstore.New(tokenstore.NewMemStorage())

	backends := backend.New(cfg, store)

	require.Nil(t, backends.Transport)
	require.NotNil(t, backends.Auth)
	require.NotNil(t, backends.Brands)
	require.NotNil(t, backends.Shops)

	resp, err := backends.Brands.GetAll(context.Background(), listing.Filters{})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Data)
}

func TestSelectorWiresHTTPBackend(t *testing.T) {
	cfg := &config.Config{BaseURL: "http://localhost:9999/api", HTTPTimeout: 5 * time.Second}
	store := tokenstore.New(tokenstore.NewMemStorage())

	backends := backend.New(cfg, store)

	require.NotNil(t, backends.Transport)
	require.NotNil(t, backends.Brands)
}

// brandServer emulates the real brands endpoints with the same fixture data
// the fake seeds, for shape-parity checks.
func brandServer(t *testing.T) *httptest.Server {
	t.Helper()

	fixture := brands.Brand{
		ID:        "brand-1",
		Name:      "Acme",
		IsActive:  true,
		CreatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/brands/brand-1", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(fixture)
	})
	mux.HandleFunc("/brands/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"brand not found"}`))
	})
	return httptest.NewServer(mux)
}

func TestMockAndHTTPReposAgreeOnShapes(t *testing.T) {
	server := brandServer(t)
	defer server.Close()

	store := tokenstore.New(tokenstore.NewMemStorage())
	store.SetTokens("access-1", "refresh-1")
	store.SetShopID("shop-1")

	httpRepo := brands.NewHTTPRepo(transport.New(server.URL, store))
	fakeRepo := brandfake.New(0)

	fromHTTP, err := httpRepo.GetByID(context.Background(), "brand-1")
	require.NoError(t, err)

	fromFake, err := fakeRepo.GetByID(context.Background(), "brand-1")
	require.NoError(t, err)

	// Description differs between fixtures; the identifying fields and the
	// struct shape must agree.
	require.Equal(t, fromHTTP.ID, fromFake.ID)
	require.Equal(t, fromHTTP.Name, fromFake.Name)
	require.Equal(t, fromHTTP.IsActive, fromFake.IsActive)
	require.Equal(t, fromHTTP.CreatedAt, fromFake.CreatedAt)
}

func TestMockAndHTTPReposAgreeOnNotFound(t *testing.T) {
	server := brandServer(t)
	defer server.Close()

	store := tokenstore.New(tokenstore.NewMemStorage())
	store.SetTokens("access-1", "refresh-1")
	store.SetShopID("shop-1")

	httpRepo := brands.NewHTTPRepo(transport.New(server.URL, store))
	fakeRepo := brandfake.New(0)

	ctx := context.Background()
	name := "Renamed"

	for _, repo := range []brands.Repo{httpRepo, fakeRepo} {
		_, err := repo.GetByID(ctx, "brand-missing")
		require.ErrorIs(t, err, apierror.ErrNotFound)

		_, err = repo.Update(ctx, "brand-missing", brands.UpdateBrand{Name: &name})
		require.ErrorIs(t, err, apierror.ErrNotFound)

		err = repo.Delete(ctx, "brand-missing")
		require.ErrorIs(t, err, apierror.ErrNotFound)
	}
}
