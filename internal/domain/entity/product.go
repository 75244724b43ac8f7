package entity

import "github.com/shopspring/decimal"

// Product is one catalog entry. The catalog is a static in-memory list;
// products are the data producers for cart line items.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Image       string
}
