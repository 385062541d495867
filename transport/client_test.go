package transport_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/joequah1/erp-client/apierror"
	"github.com/joequah1/erp-client/tokenstore"
	"github.com/joequah1/erp-client/transport"
)

// recordingNavigator captures the redirect the client performs on
// unrecoverable auth failure.
type recordingNavigator struct {
	mu           sync.Mutex
	path         string
	redirectedTo string
}

func (n *recordingNavigator) Path() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path
}

func (n *recordingNavigator) Redirect(url string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.redirectedTo = url
}

func newStore(access, refresh, shopID string) *tokenstore.Store {
	store := tokenstore.New(tokenstore.NewMemStorage())
	if access != "" {
		store.SetTokens(access, refresh)
	}
	if shopID != "" {
		store.SetShopID(shopID)
	}
	return store
}

func refreshHandler(t *testing.T, expectedRefreshToken, newAccess, newRefresh string, calls *int32) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)

		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, expectedRefreshToken, body.RefreshToken)

		_ = json.NewEncoder(w).Encode(map[string]string{
			"accessToken":  newAccess,
			"refreshToken": newRefresh,
		})
	}
}

func TestRequestRefreshesOnceAndRetries(t *testing.T) {
	var apiCalls, refreshCalls int32

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", refreshHandler(t, "refresh-1", "access-2", "refresh-2", &refreshCalls))
	mux.HandleFunc("/brands", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&apiCalls, 1)
		if r.Header.Get("Authorization") != "Bearer access-2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"data":[],"meta":{"total":0}}`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	store := newStore("access-1", "refresh-1", "shop-1")
	client := transport.New(server.URL, store)

	body, err := client.Request(context.Background(), "/brands", transport.Options{}, true, true)
	require.NoError(t, err)
	require.JSONEq(t, `{"data":[],"meta":{"total":0}}`, string(body))

	require.EqualValues(t, 2, apiCalls, "original call plus exactly one retry")
	require.EqualValues(t, 1, refreshCalls)

	tokens := store.Tokens()
	require.Equal(t, "access-2", tokens.AccessToken)
	require.Equal(t, "refresh-2", tokens.RefreshToken)
}

func TestRequestDoesNotRetryInALoop(t *testing.T) {
	var apiCalls, refreshCalls int32

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", refreshHandler(t, "refresh-1", "access-2", "refresh-2", &refreshCalls))
	mux.HandleFunc("/brands", func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&apiCalls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	store := newStore("access-1", "refresh-1", "")
	client := transport.New(server.URL, store)

	_, err := client.Request(context.Background(), "/brands", transport.Options{}, true, false)
	require.Error(t, err)
	require.ErrorIs(t, err, apierror.ErrUnauthorized)

	require.EqualValues(t, 2, apiCalls)
	require.EqualValues(t, 1, refreshCalls)
}

func TestRequestTerminatesSessionWhenRefreshFails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/inventory", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	nav := &recordingNavigator{path: "/inventory?page=3"}
	store := newStore("access-1", "refresh-1", "shop-1")
	client := transport.New(server.URL, store, transport.WithNavigator(nav))

	_, err := client.Request(context.Background(), "/inventory", transport.Options{}, true, true)
	require.Error(t, err)
	require.ErrorIs(t, err, apierror.ErrSessionExpired)

	tokens := store.Tokens()
	require.Empty(t, tokens.AccessToken)
	require.Empty(t, tokens.RefreshToken)
	require.Empty(t, tokens.CurrentShopID)

	require.Equal(t, "/auth/login?error=unauthorized", nav.redirectedTo)
	require.Equal(t, "/inventory?page=3", store.ConsumeRedirectPath())
}

func TestNoContentResolvesToEmptySuccess(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	store := newStore("", "", "")
	store.Clear()
	client := transport.New(server.URL, store)

	body, err := client.Request(context.Background(), "/health", transport.Options{}, false, false)
	require.NoError(t, err)
	require.Empty(t, body)
}

func TestHeaderInjection(t *testing.T) {
	var gotAuth, gotShop, gotCookie string

	mux := http.NewServeMux()
	mux.HandleFunc("/brands", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotShop = r.Header.Get("x-shop-id")
		if cookie, err := r.Cookie("auth_token"); err == nil {
			gotCookie = cookie.Value
		}
		_, _ = w.Write([]byte(`{}`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	// A token but no shop selected: Authorization attached, shop header omitted.
	store := newStore("access-1", "refresh-1", "")
	client := transport.New(server.URL, store)

	_, err := client.Request(context.Background(), "/brands", transport.Options{}, true, true)
	require.NoError(t, err)
	require.Equal(t, "Bearer access-1", gotAuth)
	require.Empty(t, gotShop)
	require.Equal(t, "access-1", gotCookie)

	// With a shop selected the header appears.
	store.SetShopID("shop-7")
	_, err = client.Request(context.Background(), "/brands", transport.Options{}, true, true)
	require.NoError(t, err)
	require.Equal(t, "shop-7", gotShop)
}

func TestErrorPayloadMessageSurfaces(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/roles", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"missing roles:write permission"}`))
	})
	mux.HandleFunc("/roles/missing", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	store := newStore("access-1", "refresh-1", "shop-1")
	client := transport.New(server.URL, store)

	_, err := client.Request(context.Background(), "/roles", transport.Options{Method: http.MethodPost}, false, true)
	require.Error(t, err)
	require.ErrorIs(t, err, apierror.ErrForbidden)
	require.Equal(t, "missing roles:write permission", err.Error())

	_, err = client.Request(context.Background(), "/roles/missing", transport.Options{}, false, true)
	require.Error(t, err)
	require.ErrorIs(t, err, apierror.ErrNotFound)
	require.Equal(t, "HTTP 404: Not Found", err.Error())
}

func TestConcurrentRefreshIsSingleFlight(t *testing.T) {
	const workers = 3

	var refreshCalls int32
	var unauthorized int32
	release := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		// Hold the refresh until every worker has seen its 401, so all
		// refresh attempts overlap.
		<-release
		_ = json.NewEncoder(w).Encode(map[string]string{
			"accessToken":  "access-2",
			"refreshToken": "refresh-2",
		})
	})
	mux.HandleFunc("/batches", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-2" {
			if atomic.AddInt32(&unauthorized, 1) == workers {
				close(release)
			}
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"data":[],"meta":{"total":0}}`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	store := newStore("access-1", "refresh-1", "shop-1")
	client := transport.New(server.URL, store)

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.Request(context.Background(), "/batches", transport.Options{}, true, true)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	require.EqualValues(t, 1, refreshCalls, "overlapping refresh attempts must share one call")
}

func TestProactiveRefreshForExpiredJWT(t *testing.T) {
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)

	var meCalls, refreshCalls int32

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", refreshHandler(t, "refresh-1", "access-2", "refresh-2", &refreshCalls))
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&meCalls, 1)
		require.Equal(t, "Bearer access-2", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id":"user-1"}`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	store := newStore(expired, "refresh-1", "")
	client := transport.New(server.URL, store)

	_, err = client.Request(context.Background(), "/auth/me", transport.Options{}, true, false)
	require.NoError(t, err)

	// The doomed round trip with the expired token never happens.
	require.EqualValues(t, 1, meCalls)
	require.EqualValues(t, 1, refreshCalls)
}

func TestResetSessionReArmsAfterTermination(t *testing.T) {
	var refreshOK atomic.Bool

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, _ *http.Request) {
		if !refreshOK.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"accessToken":  "access-2",
			"refreshToken": "refresh-2",
		})
	})
	mux.HandleFunc("/shops/my", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	nav := &recordingNavigator{path: "/dashboard"}
	store := newStore("access-1", "refresh-1", "")
	client := transport.New(server.URL, store, transport.WithNavigator(nav))

	// First session dies: refresh rejected.
	_, err := client.Request(context.Background(), "/shops/my", transport.Options{}, true, false)
	require.ErrorIs(t, err, apierror.ErrSessionExpired)

	// A new login stores fresh tokens and re-arms the state machine; the
	// next 401 is recoverable again.
	refreshOK.Store(true)
	store.SetTokens("access-1b", "refresh-1b")
	client.ResetSession()

	_, err = client.Request(context.Background(), "/shops/my", transport.Options{}, true, false)
	require.NoError(t, err)
	require.Equal(t, "access-2", store.Tokens().AccessToken)
}
