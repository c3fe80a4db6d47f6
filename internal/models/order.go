package models

import (
	"fmt"

	"github.com/diewo77/confeitaria/internal/money"
)

// Status is an order's lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown order status %q", raw)
	}
	return s, nil
}

// OrderItem is a line within an order. Price is a snapshot of the product's
// price at the moment the line was added; later catalog edits do not touch it.
type OrderItem struct {
	ID        string       `json:"id"`
	ProductID string       `json:"productId"`
	Quantity  int          `json:"quantity"`
	Price     money.Amount `json:"price"`
}

// LineTotal is price × quantity.
func (it OrderItem) LineTotal() money.Amount {
	return it.Price.Mul(it.Quantity)
}

// Order is a client's scheduled request for a set of products.
type Order struct {
	ID           string      `json:"id"`
	ClientName   string      `json:"clientName"`
	ScheduledFor int64       `json:"scheduledFor"`
	Observations string      `json:"observations"`
	Items        []OrderItem `json:"items"`
	Status       Status      `json:"status"`
	CreatedAt    int64       `json:"createdAt"`
}

// Total sums the line totals.
func (o Order) Total() money.Amount {
	var total money.Amount
	for _, it := range o.Items {
		total += it.LineTotal()
	}
	return total
}

// Clone returns a deep copy so callers can hold a snapshot without sharing
// the item slice with the store.
func (o Order) Clone() Order {
	cp := o
	cp.Items = make([]OrderItem, len(o.Items))
	copy(cp.Items, o.Items)
	return cp
}
