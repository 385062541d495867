package transport

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/joequah1/erp-client/listing"
)

// Do runs Request and decodes the JSON body into T. An empty body (204)
// yields the zero value.
func Do[T any](ctx context.Context, c *Client, endpoint string, opts Options, requiresAuth, requiresShop bool) (T, error) {
	var out T
	body, err := c.Request(ctx, endpoint, opts, requiresAuth, requiresShop)
	if err != nil {
		return out, err
	}
	if len(body) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, errors.Wrapf(err, "[transport.Do] decode response of %s", endpoint)
	}
	return out, nil
}

// GetList runs an authenticated GET for a list endpoint with the filters
// encoded on the query string.
func GetList[T any](ctx context.Context, c *Client, endpoint string, filters listing.Filters, requiresShop bool) (T, error) {
	return Do[T](ctx, c, endpoint+"?"+filters.Query().Encode(), Options{}, true, requiresShop)
}
