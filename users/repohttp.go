package users

import (
	"context"
	"net/http"

	"github.com/joequah1/erp-client/listing"
	"github.com/joequah1/erp-client/transport"
)

var _ Repo = (*HTTPRepo)(nil)

// HTTPRepo serves the users resource over the authenticated transport. Staff
// are shop-scoped, so every call carries the shop header.
type HTTPRepo struct {
	client *transport.Client
}

func NewHTTPRepo(client *transport.Client) *HTTPRepo {
	return &HTTPRepo{client: client}
}

func (r *HTTPRepo) GetAll(ctx context.Context, filters listing.Filters) (ListResponse, error) {
	return transport.GetList[ListResponse](ctx, r.client, "/users", filters, true)
}

func (r *HTTPRepo) GetByID(ctx context.Context, id string) (*User, error) {
	user, err := transport.Do[User](ctx, r.client, "/users/"+id, transport.Options{}, true, true)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *HTTPRepo) Create(ctx context.Context, payload CreateUser) (*User, error) {
	user, err := transport.Do[User](ctx, r.client, "/users", transport.Options{Method: http.MethodPost, Body: payload}, true, true)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *HTTPRepo) Update(ctx context.Context, id string, payload UpdateUser) (*User, error) {
	user, err := transport.Do[User](ctx, r.client, "/users/"+id, transport.Options{Method: http.MethodPut, Body: payload}, true, true)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *HTTPRepo) Delete(ctx context.Context, id string) error {
	_, err := r.client.Request(ctx, "/users/"+id, transport.Options{Method: http.MethodDelete}, true, true)
	return err
}
