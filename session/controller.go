// Package session orchestrates login, registration, logout and shop
// switching. The Controller is the only component allowed to mutate session
// State; everything else observes it through State() or Subscribe.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/joequah1/erp-client/authapi"
	"github.com/joequah1/erp-client/shops"
	"github.com/joequah1/erp-client/tokenstore"
	"github.com/joequah1/erp-client/users"
)

// TransportResetter re-arms the transport's refresh state machine after a
// fresh login. transport.Client satisfies it; the mock backend needs none.
type TransportResetter interface {
	ResetSession()
}

type Controller struct {
	mu       sync.RWMutex
	auth     authapi.Repo
	shops    shops.Repo
	store    *tokenstore.Store
	resetter TransportResetter
	log      zerolog.Logger
	nowTime  func() time.Time

	state     State
	subs      map[int]func(State)
	nextSubID int
}

type Option func(*Controller)

func WithLogger(log zerolog.Logger) Option {
	return func(c *Controller) { c.log = log }
}

func WithTransportResetter(resetter TransportResetter) Option {
	return func(c *Controller) { c.resetter = resetter }
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(c *Controller) { c.nowTime = nowFunc }
}

// NewController wires the controller to the auth and shops repos and the
// token store. The initial state is loading until Bootstrap runs.
func NewController(auth authapi.Repo, shopRepo shops.Repo, store *tokenstore.Store, options ...Option) (*Controller, error) {
	if auth == nil {
		return nil, errors.New("[NewController] auth repo is required")
	}
	if shopRepo == nil {
		return nil, errors.New("[NewController] shops repo is required")
	}
	if store == nil {
		return nil, errors.New("[NewController] token store is required")
	}

	c := &Controller{
		auth:    auth,
		shops:   shopRepo,
		store:   store,
		log:     zerolog.Nop(),
		nowTime: time.Now,
		state:   State{IsLoading: true},
		subs:    make(map[int]func(State)),
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// State returns a snapshot of the current session state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Subscribe registers fn to be called on every state publication. The
// returned function unsubscribes.
func (c *Controller) Subscribe(fn func(State)) func() {
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Login authenticates, persists the credential pair, resolves the tenant
// list, selects the current shop and publishes the authenticated state. Any
// failure resets IsLoading and propagates for UI display.
func (c *Controller) Login(ctx context.Context, credentials authapi.Credentials) error {
	c.setLoading(true)

	resp, err := c.auth.Login(ctx, credentials)
	if err != nil {
		c.setLoading(false)
		return errors.Wrap(err, "[Controller.Login] auth.Login")
	}

	c.store.SetTokens(resp.AccessToken, resp.RefreshToken)
	if c.resetter != nil {
		c.resetter.ResetSession()
	}

	if err := c.establishSession(ctx, &resp.User, resp.Shops); err != nil {
		c.setLoading(false)
		return errors.Wrap(err, "[Controller.Login] establish session")
	}
	c.log.Info().Str("email", resp.User.Email).Msg("logged in")
	return nil
}

// Register creates a new identity and then proceeds exactly like Login. When
// the backend returns no tenant list yet, the newly provisioned shop from the
// register response is used.
func (c *Controller) Register(ctx context.Context, data authapi.Registration) error {
	c.setLoading(true)

	resp, err := c.auth.Register(ctx, data)
	if err != nil {
		c.setLoading(false)
		return errors.Wrap(err, "[Controller.Register] auth.Register")
	}

	c.store.SetTokens(resp.AccessToken, resp.RefreshToken)
	if c.resetter != nil {
		c.resetter.ResetSession()
	}

	if err := c.establishSession(ctx, &resp.User, resp.Shops); err != nil {
		c.setLoading(false)
		return errors.Wrap(err, "[Controller.Register] establish session")
	}
	c.log.Info().Str("email", resp.User.Email).Msg("registered")
	return nil
}

// ForgotPassword is a stateless pass-through; it never mutates session state.
func (c *Controller) ForgotPassword(ctx context.Context, email string) (string, error) {
	message, err := c.auth.ForgotPassword(ctx, email)
	if err != nil {
		return "", errors.Wrap(err, "[Controller.ForgotPassword] auth.ForgotPassword")
	}
	return message, nil
}

// Logout tells the backend best-effort, then unconditionally clears the token
// store and publishes the unauthenticated state. The client must never appear
// authenticated after Logout, whatever the remote call did.
func (c *Controller) Logout(ctx context.Context) {
	if err := c.auth.Logout(ctx); err != nil {
		c.log.Warn().Err(err).Msg("remote logout failed, clearing local session anyway")
	}
	c.store.Clear()
	c.publish(State{})
}

// SwitchShop makes id the current shop if it is in the user's shop list. An
// unknown id is a stale UI reference and is ignored.
func (c *Controller) SwitchShop(id string) {
	c.mu.Lock()
	var found *shops.Shop
	for i := range c.state.UserShops {
		if c.state.UserShops[i].ID == id {
			shop := c.state.UserShops[i]
			found = &shop
			break
		}
	}
	if found == nil {
		c.mu.Unlock()
		c.log.Debug().Str("shopId", id).Msg("switch to unknown shop ignored")
		return
	}
	c.state.CurrentShop = found
	state := c.state
	subs := c.subscribers()
	c.mu.Unlock()

	c.store.SetShopID(found.ID)
	for _, fn := range subs {
		fn(state)
	}
}

// Bootstrap resolves the session on startup. With no durable token it
// publishes the unauthenticated state immediately; with one it resolves the
// identity and tenant list first, and on any failure clears everything rather
// than presenting a half-authenticated UI.
func (c *Controller) Bootstrap(ctx context.Context) {
	tokens := c.store.Tokens()
	if tokens.AccessToken == "" {
		c.publish(State{})
		return
	}

	c.setLoading(true)
	user, err := c.auth.Me(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("stored session rejected, starting unauthenticated")
		c.store.Clear()
		c.publish(State{})
		return
	}
	if err := c.establishSession(ctx, user, nil); err != nil {
		c.log.Warn().Err(err).Msg("session bootstrap failed, starting unauthenticated")
		c.store.Clear()
		c.publish(State{})
	}
}

// ConsumeRedirectPath returns the path stored before a forced logout, for
// post-login restoration, clearing it in the process.
func (c *Controller) ConsumeRedirectPath() string {
	return c.store.ConsumeRedirectPath()
}

// establishSession fetches the tenant list, applies the shop selection policy
// and publishes the authenticated state. fallback covers backends that return
// the tenant list inline (register) before the shops endpoint knows it.
func (c *Controller) establishSession(ctx context.Context, user *users.User, fallback []shops.Shop) error {
	shopList, err := c.shops.Mine(ctx)
	if err != nil {
		return errors.Wrap(err, "[Controller.establishSession] shops.Mine")
	}
	if len(shopList) == 0 {
		shopList = fallback
	}

	current := c.selectShop(shopList)
	if current != nil {
		c.store.SetShopID(current.ID)
	}

	c.publish(State{
		User:            user,
		CurrentShop:     current,
		UserShops:       shopList,
		IsAuthenticated: true,
	})
	return nil
}

// selectShop applies one consistent policy on every path: a remembered shop
// id wins when it is still in the list, otherwise the first shop.
func (c *Controller) selectShop(shopList []shops.Shop) *shops.Shop {
	if len(shopList) == 0 {
		return nil
	}
	remembered := c.store.Tokens().CurrentShopID
	if remembered != "" {
		for i := range shopList {
			if shopList[i].ID == remembered {
				shop := shopList[i]
				return &shop
			}
		}
	}
	shop := shopList[0]
	return &shop
}

func (c *Controller) setLoading(loading bool) {
	c.mu.Lock()
	c.state.IsLoading = loading
	state := c.state
	subs := c.subscribers()
	c.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
}

func (c *Controller) publish(state State) {
	c.mu.Lock()
	c.state = state
	subs := c.subscribers()
	c.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
}

// subscribers snapshots the callbacks so they run outside the lock. Callers
// must hold the lock.
func (c *Controller) subscribers() []func(State) {
	subs := make([]func(State), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	return subs
}
