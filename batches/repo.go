package batches

import (
	"context"

	"github.com/joequah1/erp-client/listing"
)

type ListResponse struct {
	Data []Batch      `json:"data"`
	Meta listing.Meta `json:"meta"`
}

type Repo interface {
	GetAll(ctx context.Context, filters listing.Filters) (ListResponse, error)
	GetByID(ctx context.Context, id string) (*Batch, error)
	Create(ctx context.Context, payload CreateBatch) (*Batch, error)
	Update(ctx context.Context, id string, payload UpdateBatch) (*Batch, error)
	Delete(ctx context.Context, id string) error
}
