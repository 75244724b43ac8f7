package firestore

import (
	"context"

	"storefront/config"
	"storefront/internal/domain/constants"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
	"google.golang.org/api/iterator"
)

type orderRepository struct {
	client *firestore.Client
	cfg    *config.Config
}

// NewOrderRepository builds the order repository over the orders collection.
func NewOrderRepository(client *firestore.Client, cfg *config.Config) repository.OrderRepository {
	return &orderRepository{client: client, cfg: cfg}
}

func (r *orderRepository) docRef(orderID string) *firestore.DocumentRef {
	return r.client.Collection(constants.CollectionOrders).Doc(orderID)
}

// Create writes the order document under its client-generated id. Create
// rather than Set, so an id collision fails instead of silently overwriting.
func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	ctx, cancel := opTimeout(ctx, r.cfg)
	defer cancel()

	if _, err := r.docRef(order.ID).Create(ctx, model.OrderFromEntity(order)); err != nil {
		return errors.Wrap(mapStoreError(err), "failed to write order")
	}

	return nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID string, status entity.OrderStatus) error {
	ctx, cancel := opTimeout(ctx, r.cfg)
	defer cancel()

	update := []firestore.Update{{Path: "status", Value: string(status)}}
	if _, err := r.docRef(orderID).Update(ctx, update); err != nil {
		if isNotFound(err) {
			return errors.Wrapf(repository.ErrOrderNotFound, "order %s", orderID)
		}

		return errors.Wrap(mapStoreError(err), "failed to update order status")
	}

	return nil
}

func (r *orderRepository) FindByUser(ctx context.Context, uid string) ([]*entity.Order, error) {
	ctx, cancel := opTimeout(ctx, r.cfg)
	defer cancel()

	query := r.client.Collection(constants.CollectionOrders).
		Where("userId", "==", uid).
		OrderBy("createdAt", firestore.Desc)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var orders []*entity.Order
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(mapStoreError(err), "failed to list orders")
		}

		var m model.OrderModel
		if err := snap.DataTo(&m); err != nil {
			return nil, errors.Wrap(err, "failed to decode order")
		}

		order, err := m.ToEntity(snap.Ref.ID)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, nil
}
