package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus tracks the checkout saga state of an order document.
type OrderStatus string

const (
	// OrderStatusPending marks an order that has been written but whose
	// checkout sequence has not finished yet. A pending order left behind
	// by a crash is recoverable by reconciliation.
	OrderStatusPending OrderStatus = "pending"

	// OrderStatusCompleted marks an order whose checkout finished cleanly.
	OrderStatusCompleted OrderStatus = "completed"
)

// Order is an immutable snapshot of a checkout: the user fields, items and
// total never change after creation; only Status may transition.
type Order struct {
	ID              string // Client-generated order id, also the document key.
	UserID          string
	UserEmail       string
	UserDisplayName string
	Items           []LineItem
	Total           decimal.Decimal
	Status          OrderStatus
	CreatedAt       time.Time // Assigned by the store at write time.
	ClientTimestamp time.Time // Stamped by the caller when checkout began.
}
