package handler

import (
	"log/slog"
	"net/http"
	"time"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/delivery/http/response"
	"storefront/internal/domain/entity"
	"storefront/internal/infra/persistence/model"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// PlaceOrderRequest is the checkout payload. Both fields are optional: the
// server synthesizes an order id and timestamp when the client sends none.
type PlaceOrderRequest struct {
	OrderID         string    `json:"orderId"`
	ClientTimestamp time.Time `json:"clientTimestamp"`
}

// orderResponse is the order document plus its key.
type orderResponse struct {
	ID string `json:"orderId"`
	*model.OrderModel
}

func toOrderResponse(order *entity.Order) orderResponse {
	m := model.OrderFromEntity(order)
	m.CreatedAt = order.CreatedAt

	return orderResponse{ID: order.ID, OrderModel: m}
}

// OrderHandler holds dependencies for order handlers.
type OrderHandler struct {
	uc     usecase.StoreUsecase
	logger *slog.Logger
}

// NewOrderHandler is the constructor for OrderHandler, injected by Fx.
func NewOrderHandler(uc usecase.StoreUsecase, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{uc: uc, logger: logger}
}

// PlaceOrder checks out the caller's cart.
func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	identity := deliverycontext.GetIdentity(c)
	if identity == nil {
		return response.Unauthorized(c, "UNAUTHENTICATED", "No authenticated identity")
	}

	var req PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid checkout input")
	}

	order, err := h.uc.PlaceOrder(c.Request().Context(), identity, &usecase.PlaceOrderInput{
		OrderID:         req.OrderID,
		ClientTimestamp: req.ClientTimestamp,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toOrderResponse(order), "Order placed")
}

// ListOrders returns the caller's orders, newest first.
func (h *OrderHandler) ListOrders(c echo.Context) error {
	identity := deliverycontext.GetIdentity(c)
	if identity == nil {
		return response.Unauthorized(c, "UNAUTHENTICATED", "No authenticated identity")
	}

	orders, err := h.uc.GetUserOrders(c.Request().Context(), identity.UID)
	if err != nil {
		return errors.WithStack(err)
	}

	out := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, toOrderResponse(order))
	}

	return response.Success(c, http.StatusOK, out, "")
}
