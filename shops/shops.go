// Package shops is the tenant resource. A user may belong to several shops;
// exactly one is current at a time, and every shop-scoped request carries its
// id. Shop management itself is not shop-scoped.
package shops

import "time"

type Shop struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Logo        *string   `json:"logo,omitempty"`
	OwnerID     string    `json:"ownerId"`
	IsActive    bool      `json:"isActive"`
	Settings    Settings  `json:"settings"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Settings is the per-shop configuration blob the settings page edits.
type Settings struct {
	Currency       string `json:"currency"`
	Timezone       string `json:"timezone"`
	LowStockAlerts bool   `json:"lowStockAlerts"`
}

type CreateShop struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Logo        *string `json:"logo,omitempty"`
}

type UpdateShop struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Logo        *string   `json:"logo,omitempty"`
	IsActive    *bool     `json:"isActive,omitempty"`
	Settings    *Settings `json:"settings,omitempty"`
}
