package usecase

import (
	"context"
	"time"

	"storefront/internal/domain/entity"
)

// CartItemInput is one requested cart line: a catalog product reference and
// a quantity. Prices always come from the catalog, never from the caller.
type CartItemInput struct {
	ProductID int64
	Quantity  int64
}

// PlaceOrderInput carries the checkout payload. OrderID is the
// client-generated id; when empty the service synthesizes one.
type PlaceOrderInput struct {
	OrderID         string
	ClientTimestamp time.Time
}

// StoreUsecase defines the interface for cart and order operations. Every
// operation acts on the authenticated caller's own documents.
type StoreUsecase interface {
	// AddToCart replaces the caller's cart with the given lines, priced
	// from the catalog and with the total recomputed.
	AddToCart(ctx context.Context, uid string, items []CartItemInput) (*entity.Cart, error)

	// GetCart reads the caller's cart. A user who never had one gets the
	// canonical empty cart.
	GetCart(ctx context.Context, uid string) (*entity.Cart, error)

	// ClearCart empties the caller's cart. Idempotent.
	ClearCart(ctx context.Context, uid string) error

	// PlaceOrder checks out the caller's cart: order written first, cart
	// cleared second, status patched to completed last. An empty cart is
	// rejected before any write.
	PlaceOrder(ctx context.Context, identity *entity.Identity, input *PlaceOrderInput) (*entity.Order, error)

	// GetUserOrders lists the caller's orders, newest first.
	GetUserOrders(ctx context.Context, uid string) ([]*entity.Order, error)
}
