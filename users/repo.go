package users

import (
	"context"

	"github.com/joequah1/erp-client/listing"
)

type ListResponse struct {
	Data []User       `json:"data"`
	Meta listing.Meta `json:"meta"`
}

type Repo interface {
	GetAll(ctx context.Context, filters listing.Filters) (ListResponse, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, payload CreateUser) (*User, error)
	Update(ctx context.Context, id string, payload UpdateUser) (*User, error)
	Delete(ctx context.Context, id string) error
}
