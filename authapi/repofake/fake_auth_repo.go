package repofake

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/joequah1/erp-client/apierror"
	"github.com/joequah1/erp-client/authapi"
	"github.com/joequah1/erp-client/internal/fakelatency"
	"github.com/joequah1/erp-client/shops"
	"github.com/joequah1/erp-client/tokenstore"
	"github.com/joequah1/erp-client/users"
)

var _ authapi.Repo = (*FakeAuthRepo)(nil)

var seedTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// Dev-mode credentials: admin@example.com / password.
const (
	seedAdminEmail    = "admin@example.com"
	seedAdminPassword = "password"
)

// ShopProvisioner lets registration create the user's first shop. The fake
// shop repo satisfies it.
type ShopProvisioner interface {
	Seed(shop shops.Shop)
}

type account struct {
	user         users.User
	passwordHash []byte
}

// FakeAuthRepo is the in-memory auth backend. It reads the caller's current
// access token from the token store, the same place the HTTP transport reads
// it, so Me and Logout behave identically across backends.
type FakeAuthRepo struct {
	mu       sync.RWMutex
	accounts map[string]*account // keyed by email
	sessions map[string]string   // access token -> user id
	store    *tokenstore.Store
	shops    ShopProvisioner
	latency  time.Duration
	nowTime  func() time.Time
}

func New(store *tokenstore.Store, provisioner ShopProvisioner, latency time.Duration) *FakeAuthRepo {
	r := &FakeAuthRepo{
		accounts: make(map[string]*account),
		sessions: make(map[string]string),
		store:    store,
		shops:    provisioner,
		latency:  latency,
		nowTime:  time.Now,
	}

	// MinCost keeps dev-mode startup instant; these are throwaway fixtures.
	hash, err := bcrypt.GenerateFromPassword([]byte(seedAdminPassword), bcrypt.MinCost)
	if err != nil {
		panic(err) // cannot happen with MinCost
	}
	r.accounts[seedAdminEmail] = &account{
		user: users.User{
			ID:        "user-1",
			Email:     seedAdminEmail,
			Name:      "Admin User",
			Role:      "admin",
			CreatedAt: seedTime,
			UpdatedAt: seedTime,
		},
		passwordHash: hash,
	}
	return r
}

func (r *FakeAuthRepo) Login(ctx context.Context, credentials authapi.Credentials) (*authapi.AuthResponse, error) {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.accounts[strings.ToLower(credentials.Email)]
	if !ok {
		return nil, errors.Wrap(apierror.ErrUnauthorized, "[FakeAuthRepo.Login] invalid credentials")
	}
	if bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(credentials.Password)) != nil {
		return nil, errors.Wrap(apierror.ErrUnauthorized, "[FakeAuthRepo.Login] invalid credentials")
	}
	return r.issueSession(acc, nil), nil
}

func (r *FakeAuthRepo) Register(ctx context.Context, data authapi.Registration) (*authapi.AuthResponse, error) {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(data.Email)
	if _, exists := r.accounts[email]; exists {
		return nil, errors.Wrap(apierror.ErrValidation, "[FakeAuthRepo.Register] email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.MinCost)
	if err != nil {
		return nil, errors.Wrap(err, "[FakeAuthRepo.Register] hash password")
	}

	now := r.nowTime()
	acc := &account{
		user: users.User{
			ID:        uuid.New().String(),
			Email:     email,
			Name:      data.Name,
			Role:      "admin",
			CreatedAt: now,
			UpdatedAt: now,
		},
		passwordHash: hash,
	}
	r.accounts[email] = acc

	// Provision the user's first shop so a fresh registration lands in a
	// usable tenant.
	var provisioned []shops.Shop
	if r.shops != nil {
		shopName := data.ShopName
		if shopName == "" {
			shopName = data.Name + "'s Shop"
		}
		shop := shops.Shop{
			ID:        uuid.New().String(),
			Name:      shopName,
			OwnerID:   acc.user.ID,
			IsActive:  true,
			Settings:  shops.Settings{Currency: "MYR", Timezone: "Asia/Kuala_Lumpur"},
			CreatedAt: now,
			UpdatedAt: now,
		}
		r.shops.Seed(shop)
		provisioned = []shops.Shop{shop}
	}

	return r.issueSession(acc, provisioned), nil
}

func (r *FakeAuthRepo) ForgotPassword(ctx context.Context, email string) (string, error) {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return "", err
	}
	// Never reveals whether the account exists.
	return "If an account exists for " + email + ", a reset link has been sent.", nil
}

func (r *FakeAuthRepo) Logout(ctx context.Context) error {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, r.store.Tokens().AccessToken)
	return nil
}

func (r *FakeAuthRepo) Me(ctx context.Context) (*users.User, error) {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	userID, ok := r.sessions[r.store.Tokens().AccessToken]
	if !ok {
		return nil, errors.Wrap(apierror.ErrUnauthorized, "[FakeAuthRepo.Me] no active session")
	}
	for _, acc := range r.accounts {
		if acc.user.ID == userID {
			clone := acc.user
			return &clone, nil
		}
	}
	return nil, errors.Wrap(apierror.ErrUnauthorized, "[FakeAuthRepo.Me] session user gone")
}

// issueSession mints an opaque token pair for the account. Callers must hold
// the write lock.
func (r *FakeAuthRepo) issueSession(acc *account, provisioned []shops.Shop) *authapi.AuthResponse {
	accessToken := uuid.New().String()
	r.sessions[accessToken] = acc.user.ID
	return &authapi.AuthResponse{
		User:         acc.user,
		AccessToken:  accessToken,
		RefreshToken: uuid.New().String(),
		Shops:        provisioned,
	}
}
