package repository

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/errors"
)

// ErrCartNotFound is returned when no cart document exists for a uid.
var ErrCartNotFound = errors.New("cart not found")

// CartRepository persists one cart document per user. Every write replaces
// the document wholesale; concurrent writers race under last-writer-wins,
// relying on the store's per-document atomicity.
type CartRepository interface {
	// Save replaces the user's cart document with the given state.
	Save(ctx context.Context, cart *entity.Cart) error

	// FindByUID reads the cart by user id. Returns ErrCartNotFound when
	// the user has never had a cart.
	FindByUID(ctx context.Context, uid string) (*entity.Cart, error)

	// Clear empties the cart in place: items become [], total becomes 0,
	// the update timestamp is refreshed. The document is kept, not deleted.
	Clear(ctx context.Context, uid string) error
}
