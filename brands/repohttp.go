package brands

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
	return transport.GetList[ListResponse](ctx, r.client, "/brands", filters, true)
}

func (r *HTTPRepo) GetByID(ctx context.Context, id string) (*Brand, error) {
	brand, err := transport.Do[Brand](ctx, r.client, "/brands/"+id, transport.Options{}, true, true)
	if err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *HTTPRepo) Create(ctx context.Context, payload CreateBrand) (*Brand, error) {
	brand, err := transport.Do[Brand](ctx, r.client, "/brands", transport.Options{Method: http.MethodPost, Body: payload}, true, true)
	if err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *HTTPRepo) Update(ctx context.Context, id string, payload UpdateBrand) (*Brand, error) {
	brand, err := transport.Do[Brand](ctx, r.client, "/brands/"+id, transport.Options{Method: http.MethodPut, Body: payload}, true, true)
	if err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *HTTPRepo) Delete(ctx context.Context, id string) error {
	_, err := r.client.Request(ctx, "/brands/"+id, transport.Options{Method: http.MethodDelete}, true, true)
	return err
}
