// erpcli is a small terminal client for the ERP backend, mainly used to
// exercise the session layer and resource repos end to end. Run it with
// USE_MOCK_API=true for a self-contained demo against the in-memory backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/joequah1/erp-client/authapi"
	"github.com/joequah1/erp-client/backend"
	"github.com/joequah1/erp-client/internal/config"
	"github.com/joequah1/erp-client/listing"
	"github.com/joequah1/erp-client/session"
	"github.com/joequah1/erp-client/tokenstore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "erpcli: %s\n", err)
		os.Exit(1)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if cfg.Env != "dev" {
		log = log.Level(zerolog.WarnLevel)
	}

	store, err := newStore(cfg, log)
	if err != nil {
		return err
	}

	backends := backend.New(cfg, store, backend.WithLogger(log))

	controllerOptions := []session.Option{session.WithLogger(log)}
	if backends.Transport != nil {
		controllerOptions = append(controllerOptions, session.WithTransportResetter(backends.Transport))
	}
	controller, err := session.NewController(backends.Auth, backends.Shops, store, controllerOptions...)
	if err != nil {
		return errors.Wrap(err, "build session controller")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	controller.Bootstrap(ctx)

	if len(os.Args) < 2 {
		usage()
		return nil
	}
	return dispatch(ctx, controller, backends, os.Args[1], os.Args[2:])
}

func newStore(cfg *config.Config, log zerolog.Logger) (*tokenstore.Store, error) {
	path := cfg.StoragePath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "resolve home dir")
		}
		path = filepath.Join(home, ".erpcli", "session.json")
	}
	storage, err := tokenstore.NewFileStorage(path)
	if err != nil {
		return nil, errors.Wrap(err, "open session storage")
	}
	return tokenstore.New(storage, tokenstore.WithLogger(log)), nil
}

func dispatch(ctx context.Context, controller *session.Controller, backends *backend.Backends, command string, args []string) error {
	switch command {
	case "login":
		return loginCmd(ctx, controller, args)
	case "logout":
		controller.Logout(ctx)
		fmt.Println("logged out")
		return nil
	case "whoami":
		return whoamiCmd(controller)
	case "shops":
		return shopsCmd(controller)
	case "switch":
		if len(args) != 1 {
			return errors.New("usage: erpcli switch <shop-id>")
		}
		controller.SwitchShop(args[0])
		return whoamiCmd(controller)
	case "brands":
		return brandsCmd(ctx, backends)
	case "inventory":
		return inventoryCmd(ctx, backends)
	default:
		usage()
		return errors.Errorf("unknown command %q", command)
	}
}

func loginCmd(ctx context.Context, controller *session.Controller, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	banner()
	if err := controller.Login(ctx, authapi.Credentials{Email: *email, Password: *password}); err != nil {
		return errors.Wrap(err, "login")
	}

	state := controller.State()
	fmt.Printf("welcome %s (%s)\n", state.User.Name, state.User.Email)
	if state.CurrentShop != nil {
		fmt.Printf("current shop: %s (%s)\n", state.CurrentShop.Name, state.CurrentShop.ID)
	}
	if path := controller.ConsumeRedirectPath(); path != "" {
		fmt.Printf("you were on %s before being logged out\n", path)
	}
	return nil
}

func whoamiCmd(controller *session.Controller) error {
	state := controller.State()
	if !state.IsAuthenticated {
		fmt.Println("not logged in")
		return nil
	}
	fmt.Printf("%s <%s> role=%s\n", state.User.Name, state.User.Email, state.User.Role)
	if state.CurrentShop != nil {
		fmt.Printf("shop: %s (%s)\n", state.CurrentShop.Name, state.CurrentShop.ID)
	}
	return nil
}

func shopsCmd(controller *session.Controller) error {
	state := controller.State()
	if !state.IsAuthenticated {
		fmt.Println("not logged in")
		return nil
	}
	for _, shop := range state.UserShops {
		marker := "  "
		if state.CurrentShop != nil && shop.ID == state.CurrentShop.ID {
			marker = "* "
		}
		fmt.Printf("%s%s\t%s\n", marker, shop.ID, shop.Name)
	}
	return nil
}

func brandsCmd(ctx context.Context, backends *backend.Backends) error {
	resp, err := backends.Brands.GetAll(ctx, listing.Filters{})
	if err != nil {
		return errors.Wrap(err, "list brands")
	}
	for _, brand := range resp.Data {
		fmt.Printf("%s\t%s\tactive=%t\n", brand.ID, brand.Name, brand.IsActive)
	}
	fmt.Printf("%d of %d\n", len(resp.Data), resp.Meta.Total)
	return nil
}

func inventoryCmd(ctx context.Context, backends *backend.Backends) error {
	resp, err := backends.Inventory.GetAll(ctx, listing.Filters{})
	if err != nil {
		return errors.Wrap(err, "list inventory")
	}
	for _, item := range resp.Data {
		note := ""
		if item.LowStock() {
			note = "  LOW STOCK"
		}
		fmt.Printf("%s\t%s\tqty=%d%s\n", item.SKU, item.Name, item.Quantity, note)
	}
	fmt.Printf("%d of %d\n", len(resp.Data), resp.Meta.Total)
	return nil
}

func banner() {
	figure.NewFigure("erpcli", "cybermedium", true).Print()
	fmt.Println()
}

func usage() {
	fmt.Println(`usage: erpcli <command>

commands:
  login -email <email> -password <password>
  logout
  whoami
  shops
  switch <shop-id>
  brands
  inventory`)
}
