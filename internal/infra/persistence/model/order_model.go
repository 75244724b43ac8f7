package model

import (
	"time"

	"storefront/internal/domain/entity"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// OrderModel is the orders/{orderId} document. Everything except status is
// immutable after creation.
type OrderModel struct {
	UserID          string          `firestore:"userId" json:"userId"`
	UserEmail       string          `firestore:"userEmail" json:"userEmail"`
	UserDisplayName string          `firestore:"userDisplayName" json:"userDisplayName"`
	Items           []LineItemModel `firestore:"items" json:"items"`
	Total           string          `firestore:"total" json:"total"`
	Status          string          `firestore:"status" json:"status"`
	CreatedAt       time.Time       `firestore:"createdAt,serverTimestamp" json:"createdAt"`
	ClientTimestamp time.Time       `firestore:"clientTimestamp" json:"clientTimestamp"`
}

// OrderFromEntity converts a domain order for persistence.
func OrderFromEntity(order *entity.Order) *OrderModel {
	items := make([]LineItemModel, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, LineItemFromEntity(item))
	}

	return &OrderModel{
		UserID:          order.UserID,
		UserEmail:       order.UserEmail,
		UserDisplayName: order.UserDisplayName,
		Items:           items,
		Total:           order.Total.String(),
		Status:          string(order.Status),
		ClientTimestamp: order.ClientTimestamp,
	}
}

// ToEntity converts a stored order back into the domain shape.
func (m *OrderModel) ToEntity(orderID string) (*entity.Order, error) {
	items := make([]entity.LineItem, 0, len(m.Items))
	for _, itemModel := range m.Items {
		item, err := itemModel.ToEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	total, err := decimal.NewFromString(m.Total)
	if err != nil {
		return nil, errors.Wrapf(err, "bad total %q", m.Total)
	}

	return &entity.Order{
		ID:              orderID,
		UserID:          m.UserID,
		UserEmail:       m.UserEmail,
		UserDisplayName: m.UserDisplayName,
		Items:           items,
		Total:           total,
		Status:          entity.OrderStatus(m.Status),
		CreatedAt:       m.CreatedAt,
		ClientTimestamp: m.ClientTimestamp,
	}, nil
}
