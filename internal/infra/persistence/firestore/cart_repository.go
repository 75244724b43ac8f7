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
)

type cartRepository struct {
	client *firestore.Client
	cfg    *config.Config
}

// NewCartRepository builds the cart repository over the carts collection.
func NewCartRepository(client *firestore.Client, cfg *config.Config) repository.CartRepository {
	return &cartRepository{client: client, cfg: cfg}
}

func (r *cartRepository) docRef(uid string) *firestore.DocumentRef {
	return r.client.Collection(constants.CollectionCarts).Doc(uid)
}

// Save replaces the cart document wholesale. Concurrent saves race under
// last-writer-wins; per-document atomicity keeps each written state intact.
func (r *cartRepository) Save(ctx context.Context, cart *entity.Cart) error {
	ctx, cancel := opTimeout(ctx, r.cfg)
	defer cancel()

	if _, err := r.docRef(cart.UID).Set(ctx, model.CartFromEntity(cart)); err != nil {
		return errors.Wrap(mapStoreError(err), "failed to write cart")
	}

	return nil
}

func (r *cartRepository) FindByUID(ctx context.Context, uid string) (*entity.Cart, error) {
	ctx, cancel := opTimeout(ctx, r.cfg)
	defer cancel()

	snap, err := r.docRef(uid).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.Wrapf(repository.ErrCartNotFound, "uid %s", uid)
		}

		return nil, errors.Wrap(mapStoreError(err), "failed to read cart")
	}

	var m model.CartModel
	if err := snap.DataTo(&m); err != nil {
		return nil, errors.Wrap(err, "failed to decode cart")
	}

	return m.ToEntity(uid)
}

// Clear empties the document in place. The merge keeps the document alive
// so a cleared cart and a never-created cart stay distinguishable.
func (r *cartRepository) Clear(ctx context.Context, uid string) error {
	ctx, cancel := opTimeout(ctx, r.cfg)
	defer cancel()

	patch := map[string]any{
		"items":     []model.LineItemModel{},
		"total":     "0",
		"updatedAt": firestore.ServerTimestamp,
	}
	if _, err := r.docRef(uid).Set(ctx, patch, firestore.MergeAll); err != nil {
		return errors.Wrap(mapStoreError(err), "failed to clear cart")
	}

	return nil
}
