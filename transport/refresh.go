package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/joequah1/erp-client/apierror"
)

// sessionState makes the at-most-one-retry protocol explicit:
// active -> refreshing -> {active, loggedOut}. Once loggedOut, every refresh
// attempt fails fast until ResetSession.
type sessionState int

const (
	stateActive sessionState = iota
	stateRefreshing
	stateLoggedOut
)

type refreshGate struct {
	mu         sync.Mutex
	state      sessionState
	terminated bool
}

func (g *refreshGate) begin() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == stateLoggedOut {
		return apierror.ErrSessionExpired
	}
	g.state = stateRefreshing
	return nil
}

func (g *refreshGate) finish(ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if ok {
		g.state = stateActive
	} else {
		g.state = stateLoggedOut
	}
}

// markTerminated reports whether the caller is the first to terminate the
// session, so clear-and-redirect runs once even under concurrent failures.
func (g *refreshGate) markTerminated() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.terminated {
		return false
	}
	g.terminated = true
	g.state = stateLoggedOut
	return true
}

func (g *refreshGate) reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = stateActive
	g.terminated = false
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// refresh rotates the credential pair. Concurrent callers share a single
// in-flight attempt; the refresh token is used at most once per attempt and
// replaced atomically with the server's response.
func (c *Client) refresh(ctx context.Context) error {
	_, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		return nil, c.doRefresh(ctx)
	})
	return err
}

func (c *Client) doRefresh(ctx context.Context) error {
	if err := c.gate.begin(); err != nil {
		return errors.Wrap(err, "[Client.doRefresh] session already terminated")
	}

	refreshToken := c.store.Tokens().RefreshToken
	if refreshToken == "" {
		c.gate.finish(false)
		return errors.Wrap(apierror.ErrSessionExpired, "[Client.doRefresh] no refresh token")
	}

	payload, err := json.Marshal(refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		c.gate.finish(false)
		return errors.Wrap(err, "[Client.doRefresh] encode refresh request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.refreshPath, bytes.NewReader(payload))
	if err != nil {
		c.gate.finish(false)
		return errors.Wrap(err, "[Client.doRefresh] build refresh request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.gate.finish(false)
		return errors.Wrap(err, "[Client.doRefresh] refresh call")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.gate.finish(false)
		return errors.Wrapf(apierror.ErrSessionExpired, "[Client.doRefresh] refresh rejected with status %d", resp.StatusCode)
	}

	var pair refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		c.gate.finish(false)
		return errors.Wrap(err, "[Client.doRefresh] decode refresh response")
	}

	c.store.SetTokens(pair.AccessToken, pair.RefreshToken)
	c.gate.finish(true)
	c.log.Debug().Msg("access token refreshed")
	return nil
}

// tokenExpired peeks at the token's exp claim without verifying the
// signature. Tokens that do not parse as JWTs stay opaque and are left for
// the server to judge.
func tokenExpired(raw string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
