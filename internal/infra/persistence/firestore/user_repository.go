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

type userProfileRepository struct {
	client *firestore.Client
	cfg    *config.Config
}

// NewUserProfileRepository builds the profile repository over the users
// collection.
func NewUserProfileRepository(client *firestore.Client, cfg *config.Config) repository.UserProfileRepository {
	return &userProfileRepository{client: client, cfg: cfg}
}

func (r *userProfileRepository) docRef(uid string) *firestore.DocumentRef {
	return r.client.Collection(constants.CollectionUsers).Doc(uid)
}

func (r *userProfileRepository) Create(ctx context.Context, profile *entity.UserProfile) error {
	ctx, cancel := opTimeout(ctx, r.cfg)
	defer cancel()

	if _, err := r.docRef(profile.UID).Set(ctx, model.UserFromEntity(profile)); err != nil {
		return errors.Wrap(mapStoreError(err), "failed to write user profile")
	}

	return nil
}

func (r *userProfileRepository) Merge(ctx context.Context, uid string, patch map[string]any) error {
	ctx, cancel := opTimeout(ctx, r.cfg)
	defer cancel()

	if _, err := r.docRef(uid).Set(ctx, stampedPatch(patch), firestore.MergeAll); err != nil {
		return errors.Wrap(mapStoreError(err), "failed to merge user profile")
	}

	return nil
}

// stampedPatch copies the patch and adds the server-side update timestamp.
// The caller's map stays untouched.
func stampedPatch(patch map[string]any) map[string]any {
	stamped := make(map[string]any, len(patch)+1)
	for field, value := range patch {
		stamped[field] = value
	}
	stamped["updatedAt"] = firestore.ServerTimestamp

	return stamped
}

func (r *userProfileRepository) FindByUID(ctx context.Context, uid string) (*entity.UserProfile, error) {
	ctx, cancel := opTimeout(ctx, r.cfg)
	defer cancel()

	snap, err := r.docRef(uid).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.Wrapf(repository.ErrProfileNotFound, "uid %s", uid)
		}

		return nil, errors.Wrap(mapStoreError(err), "failed to read user profile")
	}

	var m model.UserModel
	if err := snap.DataTo(&m); err != nil {
		return nil, errors.Wrap(err, "failed to decode user profile")
	}

	return m.ToEntity(), nil
}

func (r *userProfileRepository) FindByRole(ctx context.Context, role entity.Role) ([]*entity.UserProfile, error) {
	ctx, cancel := opTimeout(ctx, r.cfg)
	defer cancel()

	query := r.client.Collection(constants.CollectionUsers).
		Where("role", "==", role.String())

	iter := query.Documents(ctx)
	defer iter.Stop()

	var profiles []*entity.UserProfile
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(mapStoreError(err), "failed to list profiles by role")
		}

		var m model.UserModel
		if err := snap.DataTo(&m); err != nil {
			return nil, errors.Wrap(err, "failed to decode user profile")
		}
		profiles = append(profiles, m.ToEntity())
	}

	return profiles, nil
}
