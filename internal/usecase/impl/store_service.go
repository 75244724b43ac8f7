package impl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// storeService implements the StoreUsecase interface.
type storeService struct {
	carts     repository.CartRepository
	orders    repository.OrderRepository
	catalog   usecase.CatalogUsecase
	publisher service.EventPublisher
	logger    *slog.Logger
}

// NewStoreService is the constructor for storeService.
func NewStoreService(
	carts repository.CartRepository,
	orders repository.OrderRepository,
	catalog usecase.CatalogUsecase,
	publisher service.EventPublisher,
	logger *slog.Logger,
) usecase.StoreUsecase {
	return &storeService{
		carts:     carts,
		orders:    orders,
		catalog:   catalog,
		publisher: publisher,
		logger:    logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *storeService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// AddToCart replaces the caller's cart with the given lines. Prices come
// from the catalog; the document is written wholesale, so concurrent
// writers race under last-writer-wins.
func (srv *storeService) AddToCart(ctx context.Context, uid string, items []usecase.CartItemInput) (*entity.Cart, error) {
	if uid == "" {
		return nil, errors.Wrap(domainerrors.ErrUnauthenticated, "no authenticated identity")
	}
	// An empty replace would wipe the stored cart; clearing goes through
	// ClearCart, never through here.
	if len(items) == 0 {
		return nil, errors.Wrap(domainerrors.ErrInvalidInput, "no line items")
	}

	cart := entity.EmptyCart(uid)
	for _, input := range items {
		if input.Quantity <= 0 {
			return nil, errors.Wrapf(domainerrors.ErrInvalidInput, "quantity %d for product %d", input.Quantity, input.ProductID)
		}

		product, err := srv.catalog.FindProduct(ctx, input.ProductID)
		if err != nil {
			return nil, errors.Wrapf(domainerrors.ErrInvalidInput, "unknown product %d", input.ProductID)
		}

		cart.Items = append(cart.Items, entity.LineItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    input.Quantity,
			UnitPrice:   product.Price,
		})
	}
	cart.Normalize()

	if err := srv.carts.Save(ctx, cart); err != nil {
		srv.log(ctx).Error("Failed to save cart", slog.Any("error", err), slog.String("uid", uid))

		return nil, errors.Wrap(err, "failed to save cart")
	}

	srv.log(ctx).Info("Cart updated", slog.String("uid", uid), slog.Int("items", len(cart.Items)), slog.String("total", cart.Total.String()))

	return cart, nil
}

// GetCart reads the caller's cart; a user who never had one gets the
// canonical empty cart.
func (srv *storeService) GetCart(ctx context.Context, uid string) (*entity.Cart, error) {
	if uid == "" {
		return nil, errors.Wrap(domainerrors.ErrUnauthenticated, "no authenticated identity")
	}

	cart, err := srv.carts.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return entity.EmptyCart(uid), nil
		}

		return nil, errors.Wrap(err, "failed to load cart")
	}

	return cart, nil
}

// ClearCart empties the caller's cart. Clearing an already empty or absent
// cart succeeds.
func (srv *storeService) ClearCart(ctx context.Context, uid string) error {
	if uid == "" {
		return errors.Wrap(domainerrors.ErrUnauthenticated, "no authenticated identity")
	}

	if err := srv.carts.Clear(ctx, uid); err != nil {
		srv.log(ctx).Error("Failed to clear cart", slog.Any("error", err), slog.String("uid", uid))

		return errors.Wrap(err, "failed to clear cart")
	}

	return nil
}

// PlaceOrder checks out the caller's cart. The order document is written
// first with status pending; the cart clear and the completion patch follow.
// Once the order write succeeds the order survives every later failure, so
// a broken checkout is always reconcilable from the store.
func (srv *storeService) PlaceOrder(ctx context.Context, identity *entity.Identity, input *usecase.PlaceOrderInput) (*entity.Order, error) {
	if identity == nil || identity.UID == "" {
		return nil, errors.Wrap(domainerrors.ErrUnauthenticated, "no authenticated identity")
	}

	// 1. Load the cart and reject an empty one before any write happens.
	cart, err := srv.GetCart(ctx, identity.UID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, errors.Wrap(domainerrors.ErrCartEmpty, "nothing to check out")
	}

	orderID := input.OrderID
	if orderID == "" {
		orderID = newOrderID()
	}
	clientTimestamp := input.ClientTimestamp
	if clientTimestamp.IsZero() {
		clientTimestamp = time.Now().UTC()
	}

	order := &entity.Order{
		ID:              orderID,
		UserID:          identity.UID,
		UserEmail:       identity.Email,
		UserDisplayName: identity.DisplayName,
		Items:           cart.Items,
		Total:           cart.Total,
		Status:          entity.OrderStatusPending,
		ClientTimestamp: clientTimestamp,
	}

	// 2. Durable order write. A failure here leaves the cart untouched.
	if err := srv.orders.Create(ctx, order); err != nil {
		srv.log(ctx).Error("Failed to write order", slog.Any("error", err), slog.String("order_id", orderID))

		return nil, errors.Wrap(err, "failed to write order")
	}

	// 3. Clear the cart. The order already exists, so a failure from here
	// on is a partial checkout, never a lost one.
	if err := srv.carts.Clear(ctx, identity.UID); err != nil {
		srv.log(ctx).Error("Order written but cart clear failed",
			slog.Any("error", err),
			slog.String("order_id", orderID),
			slog.String("uid", identity.UID),
		)

		return nil, errors.Wrapf(domainerrors.ErrPartialCheckout, "order %s written, cart not cleared", orderID)
	}

	// 4. Mark the order completed.
	if err := srv.orders.UpdateStatus(ctx, orderID, entity.OrderStatusCompleted); err != nil {
		srv.log(ctx).Error("Order written but completion patch failed",
			slog.Any("error", err),
			slog.String("order_id", orderID),
		)

		return nil, errors.Wrapf(domainerrors.ErrPartialCheckout, "order %s written, status not completed", orderID)
	}
	order.Status = entity.OrderStatusCompleted

	// 5. Announce the order. Best effort: a publish failure never fails
	// the checkout.
	event := &service.OrderEvent{
		OrderID:   order.ID,
		UserID:    order.UserID,
		Total:     order.Total.String(),
		ItemCount: len(order.Items),
		Status:    string(order.Status),
		RequestID: deliverycontext.GetRequestIDFromContext(ctx),
	}
	if err := srv.publisher.PublishOrderPlaced(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish order event", slog.Any("error", err), slog.String("order_id", order.ID))
	}

	srv.log(ctx).Info("Order placed",
		slog.String("order_id", order.ID),
		slog.String("uid", identity.UID),
		slog.String("total", order.Total.String()),
	)

	return order, nil
}

// GetUserOrders lists the caller's orders, newest first.
func (srv *storeService) GetUserOrders(ctx context.Context, uid string) ([]*entity.Order, error) {
	if uid == "" {
		return nil, errors.Wrap(domainerrors.ErrUnauthenticated, "no authenticated identity")
	}

	orders, err := srv.orders.FindByUser(ctx, uid)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return orders, nil
}

// newOrderID builds a client-style order id: a millisecond timestamp plus
// a short random suffix.
func newOrderID() string {
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
