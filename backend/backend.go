// Package backend binds every resource repo to one of its two
// implementations at startup: HTTP-backed over a shared transport client, or
// in-memory fakes with artificial latency for local development. Feature code
// receives the Backends bundle and never branches on which is active.
package backend

import (
	"github.com/rs/zerolog"

	"github.com/joequah1/erp-client/authapi"
	authfake "github.com/joequah1/erp-client/authapi/repofake"
	"github.com/joequah1/erp-client/batches"
	batchfake "github.com/joequah1/erp-client/batches/repofake"
	"github.com/joequah1/erp-client/brands"
	brandfake "github.com/joequah1/erp-client/brands/repofake"
	"github.com/joequah1/erp-client/categories"
	categoryfake "github.com/joequah1/erp-client/categories/repofake"
	"github.com/joequah1/erp-client/internal/config"
	"github.com/joequah1/erp-client/inventory"
	inventoryfake "github.com/joequah1/erp-client/inventory/repofake"
	"github.com/joequah1/erp-client/roles"
	rolefake "github.com/joequah1/erp-client/roles/repofake"
	"github.com/joequah1/erp-client/shops"
	shopfake "github.com/joequah1/erp-client/shops/repofake"
	"github.com/joequah1/erp-client/tokenstore"
	"github.com/joequah1/erp-client/transport"
	"github.com/joequah1/erp-client/users"
	userfake "github.com/joequah1/erp-client/users/repofake"
)

// Backends bundles every resource repo behind its interface. Transport is nil
// in mock mode; the session controller treats it as optional.
type Backends struct {
	Transport *transport.Client

	Auth       authapi.Repo
	Brands     brands.Repo
	Categories categories.Repo
	Inventory  inventory.Repo
	Batches    batches.Repo
	Shops      shops.Repo
	Users      users.Repo
	Roles      roles.Repo
}

type Option func(*settings)

type settings struct {
	nav transport.Navigator
	log zerolog.Logger
}

func WithNavigator(nav transport.Navigator) Option {
	return func(s *settings) { s.nav = nav }
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *settings) { s.log = log }
}

// New selects the backend per cfg.UseMock and wires every repo accordingly.
func New(cfg *config.Config, store *tokenstore.Store, options ...Option) *Backends {
	s := settings{log: zerolog.Nop()}
	for _, opt := range options {
		opt(&s)
	}

	if cfg.UseMock {
		return newMock(cfg, store)
	}
	return newHTTP(cfg, store, s)
}

func newHTTP(cfg *config.Config, store *tokenstore.Store, s settings) *Backends {
	clientOptions := []transport.Option{
		transport.WithTimeout(cfg.HTTPTimeout),
		transport.WithLogger(s.log),
	}
	if s.nav != nil {
		clientOptions = append(clientOptions, transport.WithNavigator(s.nav))
	}
	client := transport.New(cfg.BaseURL, store, clientOptions...)

	return &Backends{
		Transport:  client,
		Auth:       authapi.NewHTTPRepo(client),
		Brands:     brands.NewHTTPRepo(client),
		Categories: categories.NewHTTPRepo(client),
		Inventory:  inventory.NewHTTPRepo(client),
		Batches:    batches.NewHTTPRepo(client),
		Shops:      shops.NewHTTPRepo(client),
		Users:      users.NewHTTPRepo(client),
		Roles:      roles.NewHTTPRepo(client),
	}
}

func newMock(cfg *config.Config, store *tokenstore.Store) *Backends {
	latency := cfg.MockLatency
	shopRepo := shopfake.New(latency)

	return &Backends{
		Auth:       authfake.New(store, shopRepo, latency),
		Brands:     brandfake.New(latency),
		Categories: categoryfake.New(latency),
		Inventory:  inventoryfake.New(latency),
		Batches:    batchfake.New(latency),
		Shops:      shopRepo,
		Users:      userfake.New(latency),
		Roles:      rolefake.New(latency),
	}
}
