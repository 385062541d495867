package inventory

import (
	"context"

	"github.com/joequah1/erp-client/listing"
)

type ListResponse struct {
	Data []Item       `json:"data"`
	Meta listing.Meta `json:"meta"`
}

type Repo interface {
	GetAll(ctx context.Context, filters listing.Filters) (ListResponse, error)
	GetByID(ctx context.Context, id string) (*Item, error)
	Create(ctx context.Context, payload CreateItem) (*Item, error)
	Update(ctx context.Context, id string, payload UpdateItem) (*Item, error)
	Delete(ctx context.Context, id string) error
}
