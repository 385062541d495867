package categories

import (
	"context"

	"github.com/joequah1/erp-client/listing"
)

type ListResponse struct {
	Data []Category   `json:"data"`
	Meta listing.Meta `json:"meta"`
}

type Repo interface {
	GetAll(ctx context.Context, filters listing.Filters) (ListResponse, error)
	GetByID(ctx context.Context, id string) (*Category, error)
	Create(ctx context.Context, payload CreateCategory) (*Category, error)
	Update(ctx context.Context, id string, payload UpdateCategory) (*Category, error)
	Delete(ctx context.Context, id string) error
}
