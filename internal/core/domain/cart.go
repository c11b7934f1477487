package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLineItem is one selected service in the cart.
// Re-adding a service creates another line; there is no quantity field.
type CartLineItem struct {
	// LineID identifies this line within the cart.
	LineID string `json:"lineId"`

	// Service is the selected service value.
	Service Service `json:"service"`

	// AddedAt is when the line was added.
	AddedAt time.Time `json:"addedAt"`
}

// CartSnapshot is a read-only copy of the cart.
// Total and Duration are derived from Items by the cart itself.
type CartSnapshot struct {
	Items    []CartLineItem  `json:"items"`
	Total    decimal.Decimal `json:"total"`
	Duration int             `json:"duration"`
}

// Len returns the number of lines.
func (c CartSnapshot) Len() int {
	return len(c.Items)
}

// IsEmpty reports whether the cart has no lines.
func (c CartSnapshot) IsEmpty() bool {
	return len(c.Items) == 0
}
