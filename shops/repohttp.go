package shops

import (
	"context"
	"net/http"

	"github.com/joequah1/erp-client/listing"
	"github.com/joequah1/erp-client/transport"
)

var _ Repo = (*HTTPRepo)(nil)

// HTTPRepo serves the shops resource. None of its calls carry the shop
// header: the tenant list must be reachable before a tenant is selected.
type HTTPRepo struct {
	client *transport.Client
}

func NewHTTPRepo(client *transport.Client) *HTTPRepo {
	return &HTTPRepo{client: client}
}

func (r *HTTPRepo) GetAll(ctx context.Context, filters listing.Filters) (ListResponse, error) {
	return transport.GetList[ListResponse](ctx, r.client, "/shops", filters, false)
}

func (r *HTTPRepo) GetByID(ctx context.Context, id string) (*Shop, error) {
	shop, err := transport.Do[Shop](ctx, r.client, "/shops/"+id, transport.Options{}, true, false)
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *HTTPRepo) Create(ctx context.Context, payload CreateShop) (*Shop, error) {
	shop, err := transport.Do[Shop](ctx, r.client, "/shops", transport.Options{Method: http.MethodPost, Body: payload}, true, false)
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *HTTPRepo) Update(ctx context.Context, id string, payload UpdateShop) (*Shop, error) {
	shop, err := transport.Do[Shop](ctx, r.client, "/shops/"+id, transport.Options{Method: http.MethodPut, Body: payload}, true, false)
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *HTTPRepo) Delete(ctx context.Context, id string) error {
	_, err := r.client.Request(ctx, "/shops/"+id, transport.Options{Method: http.MethodDelete}, true, false)
	return err
}

func (r *HTTPRepo) Mine(ctx context.Context) ([]Shop, error) {
	return transport.Do[[]Shop](ctx, r.client, "/shops/my", transport.Options{}, true, false)
}
