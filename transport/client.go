// Package transport is the single chokepoint for calls to the ERP backend.
// It injects the auth and shop headers from the token store, recovers from an
// expired access token with exactly one refresh-and-retry, and terminates the
// session when refresh is no longer possible.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/joequah1/erp-client/apierror"
	"github.com/joequah1/erp-client/tokenstore"
)

const (
	shopIDHeader       = "x-shop-id"
	sessionCookieName  = "auth_token"
	defaultRefreshPath = "/auth/refresh"
	defaultTimeout     = 15 * time.Second

	// loginRedirectURL is where the Navigator is sent on unrecoverable auth
	// failure. The pre-failure path is stored first for post-login restore.
	loginRedirectURL = "/auth/login?error=unauthorized"
)

// Options carries the per-call request parameters. A nil Body sends no
// payload; any other value is JSON-encoded.
type Options struct {
	Method  string // defaults to GET
	Body    any
	Headers map[string]string
}

// Client issues authenticated requests against the backend. Safe for
// concurrent use; overlapping refresh attempts are collapsed into one.
type Client struct {
	baseURL      string
	refreshPath  string
	httpClient   *http.Client
	store        *tokenstore.Store
	nav          Navigator
	log          zerolog.Logger
	gate         refreshGate
	refreshGroup singleflight.Group
	nowTime      func() time.Time
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = timeout }
}

func WithNavigator(nav Navigator) Option {
	return func(c *Client) { c.nav = nav }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

func WithRefreshPath(path string) Option {
	return func(c *Client) { c.refreshPath = path }
}

// WithNowTime sets the now time function (primarily for testing expiry checks).
func WithNowTime(nowFunc func() time.Time) Option {
	return func(c *Client) { c.nowTime = nowFunc }
}

// New creates a Client rooted at baseURL, reading credentials from store.
func New(baseURL string, store *tokenstore.Store, options ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		refreshPath: defaultRefreshPath,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		store:       store,
		nav:         nopNavigator{},
		log:         zerolog.Nop(),
		nowTime:     time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Request performs one call against the backend and returns the raw response
// body. requiresAuth attaches the Authorization header and arms the
// refresh-and-retry protocol; requiresShop attaches the active shop header.
// A 204 resolves to an empty body, any other non-2xx to an *apierror.HTTPError.
func (c *Client) Request(ctx context.Context, endpoint string, opts Options, requiresAuth, requiresShop bool) ([]byte, error) {
	tokens := c.store.Tokens()

	// Proactive refresh: if the access token is a JWT whose exp has passed,
	// skip the doomed round trip. Opaque tokens fall through to the 401 path.
	if requiresAuth && tokens.AccessToken != "" && tokenExpired(tokens.AccessToken, c.nowTime()) {
		if err := c.refresh(ctx); err != nil {
			c.terminateSession()
			return nil, errors.Wrap(apierror.ErrSessionExpired, "[Client.Request] proactive refresh failed")
		}
		tokens = c.store.Tokens()
	}

	status, body, err := c.do(ctx, endpoint, opts, requiresAuth, requiresShop, tokens)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized && requiresAuth {
		if err := c.refresh(ctx); err != nil {
			c.terminateSession()
			return nil, errors.Wrap(apierror.ErrSessionExpired, "[Client.Request] refresh failed")
		}
		// Exactly one retry, with the rotated access token.
		tokens = c.store.Tokens()
		status, body, err = c.do(ctx, endpoint, opts, requiresAuth, requiresShop, tokens)
		if err != nil {
			return nil, err
		}
	}

	switch {
	case status == http.StatusNoContent:
		return nil, nil
	case status >= 200 && status < 300:
		return body, nil
	default:
		return nil, c.errorFromResponse(endpoint, status, body)
	}
}

func (c *Client) do(ctx context.Context, endpoint string, opts Options, requiresAuth, requiresShop bool, tokens tokenstore.Tokens) (int, []byte, error) {
	var bodyReader io.Reader
	if opts.Body != nil {
		payload, err := json.Marshal(opts.Body)
		if err != nil {
			return 0, nil, errors.Wrap(err, "[Client.do] encode request body")
		}
		bodyReader = bytes.NewReader(payload)
	}

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, bodyReader)
	if err != nil {
		return 0, nil, errors.Wrap(err, "[Client.do] build request")
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	if requiresAuth && tokens.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
		// Mirrored as a session cookie for middleware that only reads cookies.
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: tokens.AccessToken})
	}
	if requiresShop && tokens.CurrentShopID != "" {
		req.Header.Set(shopIDHeader, tokens.CurrentShopID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, errors.Wrapf(err, "[Client.do] %s %s", method, endpoint)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, errors.Wrapf(err, "[Client.do] read response of %s %s", method, endpoint)
	}
	return resp.StatusCode, body, nil
}

func (c *Client) errorFromResponse(endpoint string, status int, body []byte) error {
	var payload struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &payload)

	httpErr := apierror.NewHTTPError(status, payload.Message)
	c.log.Debug().Int("status", status).Str("endpoint", endpoint).Str("message", httpErr.Message).Msg("request failed")
	return httpErr
}

// terminateSession clears all session state and sends the navigator to the
// login entry point, remembering the pre-failure path. Runs its side effects
// at most once per session; ResetSession re-arms it after the next login.
func (c *Client) terminateSession() {
	if !c.gate.markTerminated() {
		return
	}
	path := c.nav.Path()
	c.store.Clear()
	if path != "" {
		c.store.SetRedirectPath(path)
	}
	c.log.Warn().Str("path", path).Msg("session unrecoverable, redirecting to login")
	c.nav.Redirect(loginRedirectURL)
}

// ResetSession re-arms the refresh state machine after a fresh login.
func (c *Client) ResetSession() {
	c.gate.reset()
}
