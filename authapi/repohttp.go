package authapi

import (
	"context"
	"net/http"

	"github.com/joequah1/erp-client/transport"
	"github.com/joequah1/erp-client/users"
)

var _ Repo = (*HTTPRepo)(nil)

type HTTPRepo struct {
	client *transport.Client
}

func NewHTTPRepo(client *transport.Client) *HTTPRepo {
	return &HTTPRepo{client: client}
}

func (r *HTTPRepo) Login(ctx context.Context, credentials Credentials) (*AuthResponse, error) {
	resp, err := transport.Do[AuthResponse](ctx, r.client, "/auth/login", transport.Options{Method: http.MethodPost, Body: credentials}, false, false)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *HTTPRepo) Register(ctx context.Context, data Registration) (*AuthResponse, error) {
	resp, err := transport.Do[AuthResponse](ctx, r.client, "/auth/register", transport.Options{Method: http.MethodPost, Body: data}, false, false)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *HTTPRepo) ForgotPassword(ctx context.Context, email string) (string, error) {
	resp, err := transport.Do[struct {
		Message string `json:"message"`
	}](ctx, r.client, "/auth/forgot-password", transport.Options{Method: http.MethodPost, Body: map[string]string{"email": email}}, false, false)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (r *HTTPRepo) Logout(ctx context.Context) error {
	_, err := r.client.Request(ctx, "/auth/logout", transport.Options{Method: http.MethodPost}, true, false)
	return err
}

func (r *HTTPRepo) Me(ctx context.Context) (*users.User, error) {
	user, err := transport.Do[users.User](ctx, r.client, "/auth/me", transport.Options{}, true, false)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
