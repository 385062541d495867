package shops

import (
	"context"

	"github.com/joequah1/erp-client/listing"
)

type ListResponse struct {
	Data []Shop       `json:"data"`
	Meta listing.Meta `json:"meta"`
}

// Repo extends the common CRUD surface with Mine, the tenant list the session
// controller fetches once per session to drive shop selection.
type Repo interface {
	GetAll(ctx context.Context, filters listing.Filters) (ListResponse, error)
	GetByID(ctx context.Context, id string) (*Shop, error)
	Create(ctx context.Context, payload CreateShop) (*Shop, error)
	Update(ctx context.Context, id string, payload UpdateShop) (*Shop, error)
	Delete(ctx context.Context, id string) error
	Mine(ctx context.Context) ([]Shop, error)
}
