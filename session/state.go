package session

import (
	"github.com/joequah1/erp-client/shops"
	"github.com/joequah1/erp-client/users"
)

// State is the aggregate the rest of the application subscribes to. It is
// recomputed and published whole by the Controller, never partially mutated
// from outside.
type State struct {
	User            *users.User
	CurrentShop     *shops.Shop
	UserShops       []shops.Shop
	IsAuthenticated bool
	IsLoading       bool
}
