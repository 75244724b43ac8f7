// Package model contains the document shapes persisted in the store.
// Money travels as decimal strings so no floating-point representation
// ever reaches a stored document.
package model

import (
	"time"

	"storefront/internal/domain/entity"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// LineItemModel is one line item inside a cart or order document.
type LineItemModel struct {
	ProductID   int64  `firestore:"productId" json:"productId"`
	ProductName string `firestore:"productName" json:"productName"`
	Quantity    int64  `firestore:"quantity" json:"quantity"`
	UnitPrice   string `firestore:"unitPrice" json:"unitPrice"`
	Subtotal    string `firestore:"subtotal" json:"subtotal"`
}

// CartModel is the carts/{uid} document.
type CartModel struct {
	Items     []LineItemModel `firestore:"items" json:"items"`
	Total     string          `firestore:"total" json:"total"`
	UpdatedAt time.Time       `firestore:"updatedAt,serverTimestamp" json:"updatedAt"`
}

// LineItemFromEntity converts a domain line item for persistence.
func LineItemFromEntity(item entity.LineItem) LineItemModel {
	return LineItemModel{
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice.String(),
		Subtotal:    item.Subtotal.String(),
	}
}

// ToEntity converts a stored line item back into the domain shape.
func (m LineItemModel) ToEntity() (entity.LineItem, error) {
	unitPrice, err := decimal.NewFromString(m.UnitPrice)
	if err != nil {
		return entity.LineItem{}, errors.Wrapf(err, "bad unit price %q", m.UnitPrice)
	}

	subtotal, err := decimal.NewFromString(m.Subtotal)
	if err != nil {
		return entity.LineItem{}, errors.Wrapf(err, "bad subtotal %q", m.Subtotal)
	}

	return entity.LineItem{
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Quantity:    m.Quantity,
		UnitPrice:   unitPrice,
		Subtotal:    subtotal,
	}, nil
}

// CartFromEntity converts a domain cart for persistence.
func CartFromEntity(cart *entity.Cart) *CartModel {
	items := make([]LineItemModel, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, LineItemFromEntity(item))
	}

	return &CartModel{
		Items: items,
		Total: cart.Total.String(),
	}
}

// ToEntity converts a stored cart back into the domain shape.
func (m *CartModel) ToEntity(uid string) (*entity.Cart, error) {
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

	return &entity.Cart{
		UID:       uid,
		Items:     items,
		Total:     total,
		UpdatedAt: m.UpdatedAt,
	}, nil
}
