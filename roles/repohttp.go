package roles

import (
	"context"
	"net/http"

	"github.com/joequah1/erp-client/listing"
	"github.com/joequah1/erp-client/transport"
)

var _ Repo = (*HTTPRepo)(nil)

type HTTPRepo struct {
	client *transport.Client
}

func NewHTTPRepo(client *transport.Client) *HTTPRepo {
	return &HTTPRepo{client: client}
}

func (r *HTTPRepo) GetAll(ctx context.Context, filters listing.Filters) (ListResponse, error) {
	return transport.GetList[ListResponse](ctx, r.client, "/roles", filters, true)
}

func (r *HTTPRepo) GetByID(ctx context.Context, id string) (*Role, error) {
	role, err := transport.Do[Role](ctx, r.client, "/roles/"+id, transport.Options{}, true, true)
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *HTTPRepo) Create(ctx context.Context, payload CreateRole) (*Role, error) {
	role, err := transport.Do[Role](ctx, r.client, "/roles", transport.Options{Method: http.MethodPost, Body: payload}, true, true)
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *HTTPRepo) Update(ctx context.Context, id string, payload UpdateRole) (*Role, error) {
	role, err := transport.Do[Role](ctx, r.client, "/roles/"+id, transport.Options{Method: http.MethodPut, Body: payload}, true, true)
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *HTTPRepo) Delete(ctx context.Context, id string) error {
	_, err := r.client.Request(ctx, "/roles/"+id, transport.Options{Method: http.MethodDelete}, true, true)
	return err
}
