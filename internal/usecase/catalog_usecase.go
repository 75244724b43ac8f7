package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// CatalogUsecase defines the interface for the read-only product catalog.
type CatalogUsecase interface {
	// ListProducts returns every product, in catalog order.
	ListProducts(ctx context.Context) ([]entity.Product, error)

	// FindProduct returns the product with the given id, or ErrNotFound.
	FindProduct(ctx context.Context, productID int64) (*entity.Product, error)
}
