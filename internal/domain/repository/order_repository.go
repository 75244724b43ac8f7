package repository

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/errors"
)

// ErrOrderNotFound is returned when no order document exists for an id.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository persists immutable order documents, keyed by the
// client-generated order id.
type OrderRepository interface {
	// Create writes a new order document. The store assigns the creation
	// timestamp at write time.
	Create(ctx context.Context, order *entity.Order) error

	// UpdateStatus patches only the status field of an existing order.
	// Everything else in the document stays untouched.
	UpdateStatus(ctx context.Context, orderID string, status entity.OrderStatus) error

	// FindByUser returns every order with the given userId, newest first.
	FindByUser(ctx context.Context, uid string) ([]*entity.Order, error)
}
