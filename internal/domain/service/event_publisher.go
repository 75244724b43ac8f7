package service

import "context"

// OrderEvent is the payload published after a successful checkout.
type OrderEvent struct {
	OrderID   string `json:"order_id"`
	UserID    string `json:"user_id"`
	Total     string `json:"total"`
	ItemCount int    `json:"item_count"`
	Status    string `json:"status"`
	RequestID string `json:"request_id,omitempty"`
}

// EventPublisher publishes order lifecycle events for downstream
// consumers (fulfilment, notifications). Publishing is best-effort and
// never fails a checkout.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event *OrderEvent) error
	Close() error
}
