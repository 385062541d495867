// Package batches tracks stock receipts per inventory item, including cost
// price and expiry for perishables.
package batches

import "time"

type Batch struct {
	ID          string     `json:"id"`
	ItemID      string     `json:"itemId"`
	BatchNumber string     `json:"batchNumber"`
	Quantity    int        `json:"quantity"`
	CostPrice   float64    `json:"costPrice"`
	ExpiryDate  *time.Time `json:"expiryDate,omitempty"`
	ReceivedAt  time.Time  `json:"receivedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Expired reports whether the batch's expiry has passed at the given time.
func (b Batch) Expired(now time.Time) bool {
	return b.ExpiryDate != nil && b.ExpiryDate.Before(now)
}

type CreateBatch struct {
	ItemID      string     `json:"itemId"`
	BatchNumber string     `json:"batchNumber"`
	Quantity    int        `json:"quantity"`
	CostPrice   float64    `json:"costPrice"`
	ExpiryDate  *time.Time `json:"expiryDate,omitempty"`
	ReceivedAt  time.Time  `json:"receivedAt"`
}

type UpdateBatch struct {
	Quantity   *int       `json:"quantity,omitempty"`
	CostPrice  *float64   `json:"costPrice,omitempty"`
	ExpiryDate *time.Time `json:"expiryDate,omitempty"`
}
