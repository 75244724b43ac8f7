package handler

import (
	"log/slog"
	"net/http"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/delivery/http/response"
	"storefront/internal/domain/entity"
	"storefront/internal/infra/persistence/model"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// UpdateCartRequest replaces the caller's cart with the given lines.
type UpdateCartRequest struct {
	Items []struct {
		ProductID int64 `json:"productId" validate:"required"`
		Quantity  int64 `json:"quantity" validate:"required,min=1"`
	} `json:"items" validate:"required,min=1,dive"`
}

// cartResponse is the cart document plus its owner key.
type cartResponse struct {
	UID string `json:"uid"`
	*model.CartModel
}

func toCartResponse(cart *entity.Cart) cartResponse {
	m := model.CartFromEntity(cart)
	m.UpdatedAt = cart.UpdatedAt

	return cartResponse{UID: cart.UID, CartModel: m}
}

// CartHandler holds dependencies for cart handlers.
type CartHandler struct {
	uc     usecase.StoreUsecase
	logger *slog.Logger
}

// NewCartHandler is the constructor for CartHandler, injected by Fx.
func NewCartHandler(uc usecase.StoreUsecase, logger *slog.Logger) *CartHandler {
	return &CartHandler{uc: uc, logger: logger}
}

// GetCart returns the caller's cart, empty when they never had one.
func (h *CartHandler) GetCart(c echo.Context) error {
	identity := deliverycontext.GetIdentity(c)
	if identity == nil {
		return response.Unauthorized(c, "UNAUTHENTICATED", "No authenticated identity")
	}

	cart, err := h.uc.GetCart(c.Request().Context(), identity.UID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toCartResponse(cart), "")
}

// UpdateCart replaces the caller's cart wholesale.
func (h *CartHandler) UpdateCart(c echo.Context) error {
	identity := deliverycontext.GetIdentity(c)
	if identity == nil {
		return response.Unauthorized(c, "UNAUTHENTICATED", "No authenticated identity")
	}

	var req UpdateCartRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid cart input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	items := make([]usecase.CartItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, usecase.CartItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	cart, err := h.uc.AddToCart(c.Request().Context(), identity.UID, items)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toCartResponse(cart), "Cart updated")
}

// ClearCart empties the caller's cart. Clearing twice is fine.
func (h *CartHandler) ClearCart(c echo.Context) error {
	identity := deliverycontext.GetIdentity(c)
	if identity == nil {
		return response.Unauthorized(c, "UNAUTHENTICATED", "No authenticated identity")
	}

	if err := h.uc.ClearCart(c.Request().Context(), identity.UID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Cart cleared")
}
