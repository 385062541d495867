package session_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/joequah1/erp-client/apierror"
	"github.com/joequah1/erp-client/authapi"
	authfake "github.com/joequah1/erp-client/authapi/repofake"
	"github.com/joequah1/erp-client/session"
	shopfake "github.com/joequah1/erp-client/shops/repofake"
	"github.com/joequah1/erp-client/tokenstore"
)

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "password"
)

type fixture struct {
	store      *tokenstore.Store
	authRepo   *authfake.FakeAuthRepo
	shopRepo   *shopfake.FakeShopRepo
	controller *session.Controller
}

func setup(t *testing.T) *fixture {
	t.Helper()

	store := tokenstore.New(tokenstore.NewMemStorage())
	shopRepo := shopfake.New(0)
	authRepo := authfake.New(store, shopRepo, 0)

	controller, err := session.NewController(authRepo, shopRepo, store)
	require.NoError(t, err)

	return &fixture{
		store:      store,
		authRepo:   authRepo,
		shopRepo:   shopRepo,
		controller: controller,
	}
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	err := f.controller.Login(context.Background(), authapi.Credentials{
		Email:    testAdminEmail,
		Password: testAdminPassword,
	})
	require.NoError(t, err)
}

func TestLoginAgainstMockBackend(t *testing.T) {
	f := setup(t)
	f.login(t)

	state := f.controller.State()
	require.True(t, state.IsAuthenticated)
	require.False(t, state.IsLoading)
	require.Equal(t, testAdminEmail, state.User.Email)
	require.Len(t, state.UserShops, 2)
	require.NotNil(t, state.CurrentShop)
	require.Equal(t, "shop-1", state.CurrentShop.ID, "first shop selected when nothing is remembered")

	tokens := f.store.Tokens()
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)
	require.Equal(t, "shop-1", tokens.CurrentShopID)
}

func TestLoginWithBadPassword(t *testing.T) {
	f := setup(t)

	err := f.controller.Login(context.Background(), authapi.Credentials{
		Email:    testAdminEmail,
		Password: "wrong",
	})
	require.Error(t, err)
	require.ErrorIs(t, err, apierror.ErrUnauthorized)

	state := f.controller.State()
	require.False(t, state.IsAuthenticated)
	require.False(t, state.IsLoading, "loading must reset on failure")
	require.Empty(t, f.store.Tokens().AccessToken)
}

func TestLoginHonoursRememberedShop(t *testing.T) {
	f := setup(t)

	// A previous session had shop-2 selected.
	f.store.SetShopID("shop-2")
	f.login(t)

	state := f.controller.State()
	require.Equal(t, "shop-2", state.CurrentShop.ID)
}

func TestLoginIgnoresRememberedShopNotInList(t *testing.T) {
	f := setup(t)

	f.store.SetShopID("shop-gone")
	f.login(t)

	state := f.controller.State()
	require.Equal(t, "shop-1", state.CurrentShop.ID)
}

func TestSwitchShop(t *testing.T) {
	f := setup(t)
	f.login(t)

	f.controller.SwitchShop("shop-2")

	state := f.controller.State()
	require.Equal(t, "shop-2", state.CurrentShop.ID)
	require.Equal(t, "shop-2", f.store.Tokens().CurrentShopID)
}

func TestSwitchShopUnknownIDIsNoOp(t *testing.T) {
	f := setup(t)
	f.login(t)

	before := f.controller.State()
	f.controller.SwitchShop("shop-does-not-exist")
	after := f.controller.State()

	require.Equal(t, before.CurrentShop.ID, after.CurrentShop.ID)
	require.Equal(t, "shop-1", f.store.Tokens().CurrentShopID)
}

// failingLogoutRepo simulates a backend whose logout endpoint is down.
type failingLogoutRepo struct {
	authapi.Repo
}

func (failingLogoutRepo) Logout(context.Context) error {
	return errors.New("backend unavailable")
}

func TestLogoutAlwaysClearsLocalSession(t *testing.T) {
	store := tokenstore.New(tokenstore.NewMemStorage())
	shopRepo := shopfake.New(0)
	authRepo := authfake.New(store, shopRepo, 0)

	controller, err := session.NewController(failingLogoutRepo{Repo: authRepo}, shopRepo, store)
	require.NoError(t, err)

	err = controller.Login(context.Background(), authapi.Credentials{Email: testAdminEmail, Password: testAdminPassword})
	require.NoError(t, err)

	controller.Logout(context.Background())

	state := controller.State()
	require.False(t, state.IsAuthenticated)
	require.Nil(t, state.User)
	require.Empty(t, store.Tokens().AccessToken)
	require.Empty(t, store.Tokens().CurrentShopID)
}

func TestBootstrapWithoutToken(t *testing.T) {
	f := setup(t)

	f.controller.Bootstrap(context.Background())

	state := f.controller.State()
	require.False(t, state.IsAuthenticated)
	require.False(t, state.IsLoading)
}

func TestBootstrapWithStaleTokenClearsSession(t *testing.T) {
	f := setup(t)

	// A token the backend has never issued.
	f.store.SetTokens("stale-access", "stale-refresh")
	f.store.SetShopID("shop-1")

	f.controller.Bootstrap(context.Background())

	state := f.controller.State()
	require.False(t, state.IsAuthenticated)
	require.False(t, state.IsLoading)
	require.Nil(t, state.User)
	require.Empty(t, f.store.Tokens().AccessToken)
}

func TestBootstrapResumesValidSession(t *testing.T) {
	f := setup(t)
	f.login(t)
	f.controller.SwitchShop("shop-2")

	// New controller over the same store and backend, as after a reload.
	resumed, err := session.NewController(f.authRepo, f.shopRepo, f.store)
	require.NoError(t, err)

	resumed.Bootstrap(context.Background())

	state := resumed.State()
	require.True(t, state.IsAuthenticated)
	require.Equal(t, testAdminEmail, state.User.Email)
	require.Equal(t, "shop-2", state.CurrentShop.ID, "remembered shop survives the reload")
}

func TestRegisterProvisionsShop(t *testing.T) {
	f := setup(t)

	err := f.controller.Register(context.Background(), authapi.Registration{
		Name:     "New Owner",
		Email:    "owner@example.com",
		Password: "secret123",
		ShopName: "Corner Store",
	})
	require.NoError(t, err)

	state := f.controller.State()
	require.True(t, state.IsAuthenticated)
	require.Equal(t, "owner@example.com", state.User.Email)
	require.NotNil(t, state.CurrentShop)
}

func TestForgotPasswordLeavesStateAlone(t *testing.T) {
	f := setup(t)

	message, err := f.controller.ForgotPassword(context.Background(), "admin@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, message)

	state := f.controller.State()
	require.False(t, state.IsAuthenticated)
}

func TestSubscribeReceivesPublications(t *testing.T) {
	f := setup(t)

	var notifications []session.State
	unsubscribe := f.controller.Subscribe(func(s session.State) {
		notifications = append(notifications, s)
	})

	f.login(t)
	require.NotEmpty(t, notifications)
	last := notifications[len(notifications)-1]
	require.True(t, last.IsAuthenticated)

	count := len(notifications)
	unsubscribe()
	f.controller.Logout(context.Background())
	require.Len(t, notifications, count, "unsubscribed callback must not fire")
}
