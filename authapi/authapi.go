// Package authapi is the authentication resource: login, registration,
// logout and profile resolution. Token refresh is not part of this contract;
// it belongs to the transport, which rotates credentials transparently.
package authapi

import (
	"context"

	"github.com/joequah1/erp-client/shops"
	"github.com/joequah1/erp-client/users"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	ShopName string `json:"shopName"`
}

// AuthResponse is what login and register return: the identity, a fresh
// credential pair, and optionally the tenant list when the backend already
// knows it (register returns the newly provisioned shop here).
type AuthResponse struct {
	User         users.User   `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	Shops        []shops.Shop `json:"shops,omitempty"`
}

type Repo interface {
	Login(ctx context.Context, credentials Credentials) (*AuthResponse, error)
	Register(ctx context.Context, data Registration) (*AuthResponse, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*users.User, error)
}
