package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is one product/quantity/price tuple inside a cart or an order.
// Name and unit price are denormalized at add-time so the snapshot stays
// meaningful even if the catalog changes later.
type LineItem struct {
	ProductID   int64
	ProductName string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// ComputeSubtotal returns unit price times quantity.
func (li LineItem) ComputeSubtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(li.Quantity))
}

// Cart is the mutable, per-user staging area for prospective order items.
// The stored total is always the sum of the line-item subtotals; Normalize
// re-derives both on every mutation so a stale total is never persisted.
type Cart struct {
	UID       string
	Items     []LineItem
	Total     decimal.Decimal
	UpdatedAt time.Time
}

// EmptyCart returns the canonical empty cart for a user: no items, zero total.
func EmptyCart(uid string) *Cart {
	return &Cart{
		UID:   uid,
		Items: []LineItem{},
		Total: decimal.Zero,
	}
}

// IsEmpty reports whether the cart holds no line items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Normalize recomputes every line-item subtotal and the cart total.
func (c *Cart) Normalize() {
	total := decimal.Zero
	for i := range c.Items {
		c.Items[i].Subtotal = c.Items[i].ComputeSubtotal()
		total = total.Add(c.Items[i].Subtotal)
	}
	c.Total = total
}

// TotalOf sums unit price times quantity over the given items.
func TotalOf(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.ComputeSubtotal())
	}

	return total
}
