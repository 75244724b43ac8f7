package impl

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testIdentity = &entity.Identity{
	UID:         "u-1",
	Email:       "buyer@example.com",
	DisplayName: "Buyer",
}

func addBothProducts(t *testing.T, f *storeFixture) *entity.Cart {
	t.Helper()

	cart, err := f.service.AddToCart(context.Background(), testIdentity.UID, []usecase.CartItemInput{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
	})
	require.NoError(t, err)

	return cart
}

func TestAddToCart_PricesFromCatalog(t *testing.T) {
	f := newStoreFixture(t)

	cart := addBothProducts(t, f)

	require.Len(t, cart.Items, 2)
	assert.Equal(t, "Wireless Headphones", cart.Items[0].ProductName)
	assert.True(t, cart.Items[0].UnitPrice.Equal(decimal.RequireFromString("99.99")))
	assert.True(t, cart.Items[0].Subtotal.Equal(decimal.RequireFromString("199.98")))
	assert.True(t, cart.Total.Equal(decimal.RequireFromString("399.97")))
}

func TestAddToCart_RejectsUnknownProduct(t *testing.T) {
	f := newStoreFixture(t)

	_, err := f.service.AddToCart(context.Background(), "u-1", []usecase.CartItemInput{{ProductID: 42, Quantity: 1}})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestAddToCart_RejectsEmptyReplace(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()

	addBothProducts(t, f)

	for _, items := range [][]usecase.CartItemInput{nil, {}} {
		_, err := f.service.AddToCart(ctx, testIdentity.UID, items)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	}

	cart, err := f.service.GetCart(ctx, testIdentity.UID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2, "an empty replace must never wipe the stored cart")
	assert.True(t, cart.Total.Equal(decimal.RequireFromString("399.97")))
}

func TestAddToCart_RejectsNonPositiveQuantity(t *testing.T) {
	f := newStoreFixture(t)

	_, err := f.service.AddToCart(context.Background(), "u-1", []usecase.CartItemInput{{ProductID: 1, Quantity: 0}})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestAddToCart_LastWriterWins(t *testing.T) {
	f := newStoreFixture(t)

	addBothProducts(t, f)
	_, err := f.service.AddToCart(context.Background(), testIdentity.UID, []usecase.CartItemInput{
		{ProductID: 2, Quantity: 3},
	})
	require.NoError(t, err)

	cart, err := f.service.GetCart(context.Background(), testIdentity.UID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1, "the later write replaces the cart wholesale")
	assert.True(t, cart.Total.Equal(decimal.RequireFromString("599.97")))
}

func TestGetCart_CanonicalEmptyWhenAbsent(t *testing.T) {
	f := newStoreFixture(t)

	cart, err := f.service.GetCart(context.Background(), "never-shopped")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.Total.IsZero())
}

func TestClearCart_Idempotent(t *testing.T) {
	f := newStoreFixture(t)

	addBothProducts(t, f)
	require.NoError(t, f.service.ClearCart(context.Background(), testIdentity.UID))
	require.NoError(t, f.service.ClearCart(context.Background(), testIdentity.UID))

	cart, err := f.service.GetCart(context.Background(), testIdentity.UID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestPlaceOrder_TwoItemCheckout(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()

	addBothProducts(t, f)

	order, err := f.service.PlaceOrder(ctx, testIdentity, &usecase.PlaceOrderInput{
		OrderID:         "ORD-TEST-1",
		ClientTimestamp: time.Now(),
	})
	require.NoError(t, err)

	assert.Equal(t, "ORD-TEST-1", order.ID)
	assert.Equal(t, entity.OrderStatusCompleted, order.Status)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("399.97")))
	assert.Equal(t, "buyer@example.com", order.UserEmail)

	cart, err := f.service.GetCart(ctx, testIdentity.UID)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty(), "checkout clears the cart")

	listed, err := f.service.GetUserOrders(ctx, testIdentity.UID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, entity.OrderStatusCompleted, listed[0].Status)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, "ORD-TEST-1", f.publisher.events[0].OrderID)
	assert.Equal(t, 2, f.publisher.events[0].ItemCount)
}

func TestPlaceOrder_EmptyCartRejectedBeforeAnyWrite(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()

	_, err := f.service.PlaceOrder(ctx, testIdentity, &usecase.PlaceOrderInput{})
	assert.ErrorIs(t, err, domainerrors.ErrCartEmpty)

	listed, err := f.service.GetUserOrders(ctx, testIdentity.UID)
	require.NoError(t, err)
	assert.Empty(t, listed, "no order document may exist after a rejected checkout")
	assert.Empty(t, f.publisher.events)
}

func TestPlaceOrder_FailedOrderWriteLeavesCartIntact(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()

	addBothProducts(t, f)
	f.orders.createErr = errors.New("store down")

	_, err := f.service.PlaceOrder(ctx, testIdentity, &usecase.PlaceOrderInput{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domainerrors.ErrPartialCheckout, "nothing durable happened yet")

	cart, err := f.service.GetCart(ctx, testIdentity.UID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2, "cart untouched when the order write fails")
}

func TestPlaceOrder_FailedCartClearIsPartialCheckout(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()

	addBothProducts(t, f)
	f.carts.clearErr = errors.New("store down")

	_, err := f.service.PlaceOrder(ctx, testIdentity, &usecase.PlaceOrderInput{OrderID: "ORD-TEST-1"})
	assert.ErrorIs(t, err, domainerrors.ErrPartialCheckout)

	listed, err := f.service.GetUserOrders(ctx, testIdentity.UID)
	require.NoError(t, err)
	require.Len(t, listed, 1, "the order survives for reconciliation")
	assert.Equal(t, entity.OrderStatusPending, listed[0].Status)
}

func TestPlaceOrder_FailedCompletionPatchIsPartialCheckout(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()

	addBothProducts(t, f)
	f.orders.updateErr = errors.New("store down")

	_, err := f.service.PlaceOrder(ctx, testIdentity, &usecase.PlaceOrderInput{OrderID: "ORD-TEST-1"})
	assert.ErrorIs(t, err, domainerrors.ErrPartialCheckout)

	cart, err := f.service.GetCart(ctx, testIdentity.UID)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty(), "the cart clear already happened")
}

func TestPlaceOrder_PublishFailureDoesNotFailCheckout(t *testing.T) {
	f := newStoreFixture(t)

	addBothProducts(t, f)
	f.publisher.err = errors.New("broker down")

	order, err := f.service.PlaceOrder(context.Background(), testIdentity, &usecase.PlaceOrderInput{})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCompleted, order.Status)
}

func TestPlaceOrder_GeneratesOrderIDWhenAbsent(t *testing.T) {
	f := newStoreFixture(t)

	addBothProducts(t, f)

	order, err := f.service.PlaceOrder(context.Background(), testIdentity, &usecase.PlaceOrderInput{})
	require.NoError(t, err)
	assert.Regexp(t, `^ORD-\d+-[0-9a-f-]{8}$`, order.ID)
}

func TestStoreOperations_RequireIdentity(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()

	_, err := f.service.AddToCart(ctx, "", []usecase.CartItemInput{{ProductID: 1, Quantity: 1}})
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)

	_, err = f.service.GetCart(ctx, "")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)

	assert.ErrorIs(t, f.service.ClearCart(ctx, ""), domainerrors.ErrUnauthenticated)

	_, err = f.service.PlaceOrder(ctx, nil, &usecase.PlaceOrderInput{})
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)

	_, err = f.service.GetUserOrders(ctx, "")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)
}

func TestGetUserOrders_NewestFirstAndScoped(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()

	for _, id := range []string{"ORD-TEST-1", "ORD-TEST-2"} {
		addBothProducts(t, f)
		_, err := f.service.PlaceOrder(ctx, testIdentity, &usecase.PlaceOrderInput{OrderID: id})
		require.NoError(t, err)
	}

	other := &entity.Identity{UID: "u-2", Email: "other@example.com"}
	_, err := f.service.AddToCart(ctx, other.UID, []usecase.CartItemInput{{ProductID: 1, Quantity: 1}})
	require.NoError(t, err)
	_, err = f.service.PlaceOrder(ctx, other, &usecase.PlaceOrderInput{OrderID: "ORD-OTHER"})
	require.NoError(t, err)

	listed, err := f.service.GetUserOrders(ctx, testIdentity.UID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "ORD-TEST-2", listed[0].ID)
	assert.Equal(t, "ORD-TEST-1", listed[1].ID)
}
