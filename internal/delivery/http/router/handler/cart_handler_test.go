package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/delivery/http/validator"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/infra/persistence/memory"
	"storefront/internal/usecase"
	"storefront/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type discardPublisher struct{}

func (discardPublisher) PublishOrderPlaced(context.Context, *service.OrderEvent) error { return nil }
func (discardPublisher) Close() error                                                 { return nil }

func newStoreUsecase() usecase.StoreUsecase {
	logger := slog.New(slog.DiscardHandler)
	store := memory.NewStore()

	return impl.NewStoreService(store.Carts(), store.Orders(), impl.NewCatalogService(logger), discardPublisher{}, logger)
}

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = validator.New()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func authed(c echo.Context) {
	deliverycontext.SetIdentity(c, &entity.Identity{UID: "u-1", Email: "buyer@example.com"})
}

func TestUpdateCart_ReturnsRecomputedTotals(t *testing.T) {
	h := NewCartHandler(newStoreUsecase(), slog.New(slog.DiscardHandler))

	c, rec := newTestContext(t, http.MethodPut, "/cart",
		`{"items":[{"productId":1,"quantity":2},{"productId":2,"quantity":1}]}`)
	authed(c)

	require.NoError(t, h.UpdateCart(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			UID   string `json:"uid"`
			Total string `json:"total"`
			Items []struct {
				ProductName string `json:"productName"`
				Subtotal    string `json:"subtotal"`
			} `json:"items"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))

	assert.True(t, envelope.Success)
	assert.Equal(t, "u-1", envelope.Data.UID)
	assert.Equal(t, "399.97", envelope.Data.Total)
	require.Len(t, envelope.Data.Items, 2)
	assert.Equal(t, "199.98", envelope.Data.Items[0].Subtotal)
}

func TestUpdateCart_RejectsMalformedQuantity(t *testing.T) {
	h := NewCartHandler(newStoreUsecase(), slog.New(slog.DiscardHandler))

	c, _ := newTestContext(t, http.MethodPut, "/cart",
		`{"items":[{"productId":1,"quantity":0}]}`)
	authed(c)

	err := h.UpdateCart(c)
	require.Error(t, err)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestUpdateCart_RejectsEmptyItems(t *testing.T) {
	h := NewCartHandler(newStoreUsecase(), slog.New(slog.DiscardHandler))

	c, _ := newTestContext(t, http.MethodPut, "/cart", `{"items":[]}`)
	authed(c)

	err := h.UpdateCart(c)
	require.Error(t, err)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestGetCart_RequiresIdentity(t *testing.T) {
	h := NewCartHandler(newStoreUsecase(), slog.New(slog.DiscardHandler))

	c, rec := newTestContext(t, http.MethodGet, "/cart", "")

	require.NoError(t, h.GetCart(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetCart_EmptyForNewUser(t *testing.T) {
	h := NewCartHandler(newStoreUsecase(), slog.New(slog.DiscardHandler))

	c, rec := newTestContext(t, http.MethodGet, "/cart", "")
	authed(c)

	require.NoError(t, h.GetCart(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":"0"`)
}

func TestPlaceOrder_EmptyCartSurfacesDomainError(t *testing.T) {
	h := NewOrderHandler(newStoreUsecase(), slog.New(slog.DiscardHandler))

	c, _ := newTestContext(t, http.MethodPost, "/orders", `{}`)
	authed(c)

	err := h.PlaceOrder(c)
	assert.ErrorIs(t, err, domainerrors.ErrCartEmpty)
}

func TestListProducts_ServesCatalog(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	h := NewCatalogHandler(impl.NewCatalogService(logger), logger)

	c, rec := newTestContext(t, http.MethodGet, "/products", "")

	require.NoError(t, h.ListProducts(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Wireless Headphones")
	assert.Contains(t, rec.Body.String(), `"price":"199.99"`)
}

func TestHealthCheck(t *testing.T) {
	c, rec := newTestContext(t, http.MethodGet, "/health", "")

	require.NoError(t, HealthCheck(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
