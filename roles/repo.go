package roles

import (
	"context"

	"github.com/joequah1/erp-client/listing"
)

type ListResponse struct {
	Data []Role       `json:"data"`
	Meta listing.Meta `json:"meta"`
}

type Repo interface {
	GetAll(ctx context.Context, filters listing.Filters) (ListResponse, error)
	GetByID(ctx context.Context, id string) (*Role, error)
	Create(ctx context.Context, payload CreateRole) (*Role, error)
	Update(ctx context.Context, id string, payload UpdateRole) (*Role, error)
	Delete(ctx context.Context, id string) error
}
