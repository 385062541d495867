package brands

import (
	"context"

	"github.com/joequah1/erp-client/listing"
)

type ListResponse struct {
	Data []Brand      `json:"data"`
	Meta listing.Meta `json:"meta"`
}

// Repo is implemented by both the HTTP-backed repo and the in-memory fake;
// UI code never branches on which one is active.
type Repo interface {
	GetAll(ctx context.Context, filters listing.Filters) (ListResponse, error)
	GetByID(ctx context.Context, id string) (*Brand, error)
	Create(ctx context.Context, payload CreateBrand) (*Brand, error)
	Update(ctx context.Context, id string, payload UpdateBrand) (*Brand, error)
	Delete(ctx context.Context, id string) error
}
