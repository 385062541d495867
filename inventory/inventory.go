// Package inventory is the stock-item resource, the largest consumer of the
// data-access layer. Quantities here are the aggregate across batches.
package inventory

import "time"

type Item struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	SKU          string    `json:"sku"`
	Description  *string   `json:"description,omitempty"`
	CategoryID   string    `json:"categoryId"`
	BrandID      string    `json:"brandId"`
	Price        float64   `json:"price"`
	Quantity     int       `json:"quantity"`
	ReorderLevel int       `json:"reorderLevel"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// LowStock reports whether the item has fallen to its reorder level.
func (i Item) LowStock() bool {
	return i.Quantity <= i.ReorderLevel
}

type CreateItem struct {
	Name         string  `json:"name"`
	SKU          string  `json:"sku"`
	Description  *string `json:"description,omitempty"`
	CategoryID   string  `json:"categoryId"`
	BrandID      string  `json:"brandId"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
	ReorderLevel int     `json:"reorderLevel"`
}

type UpdateItem struct {
	Name         *string  `json:"name,omitempty"`
	SKU          *string  `json:"sku,omitempty"`
	Description  *string  `json:"description,omitempty"`
	CategoryID   *string  `json:"categoryId,omitempty"`
	BrandID      *string  `json:"brandId,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	Quantity     *int     `json:"quantity,omitempty"`
	ReorderLevel *int     `json:"reorderLevel,omitempty"`
	IsActive     *bool    `json:"isActive,omitempty"`
}
