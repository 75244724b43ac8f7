// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// catalog is the static product list. The storefront sells a fixed
// assortment; adding a product means editing this table.
//
//nolint:gochecknoglobals
var catalog = []entity.Product{
	{
		ID:          1,
		Name:        "Wireless Headphones",
		Description: "High-quality wireless headphones with noise cancellation",
		Price:       decimal.RequireFromString("99.99"),
		Image:       "/images/headphones.jpg",
	},
	{
		ID:          2,
		Name:        "Smart Watch",
		Description: "Feature-rich smartwatch with health monitoring",
		Price:       decimal.RequireFromString("199.99"),
		Image:       "/images/smartwatch.jpg",
	},
}

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	logger *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(logger *slog.Logger) usecase.CatalogUsecase {
	return &catalogService{logger: logger}
}

func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListProducts returns every product, in catalog order.
func (srv *catalogService) ListProducts(ctx context.Context) ([]entity.Product, error) {
	srv.log(ctx).Debug("Listing products", slog.Int("count", len(catalog)))

	out := make([]entity.Product, len(catalog))
	copy(out, catalog)

	return out, nil
}

// FindProduct returns the product with the given id.
func (srv *catalogService) FindProduct(ctx context.Context, productID int64) (*entity.Product, error) {
	for _, product := range catalog {
		if product.ID == productID {
			p := product

			return &p, nil
		}
	}

	srv.log(ctx).Debug("Product not found", slog.Int64("product_id", productID))

	return nil, errors.Wrapf(domainerrors.ErrNotFound, "product %d", productID)
}
