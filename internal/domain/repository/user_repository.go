// Package repository defines the persistence contracts of the domain.
// Implementations live under internal/infra/persistence.
package repository

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/errors"
)

// ErrProfileNotFound is returned when no profile document exists for a uid.
var ErrProfileNotFound = errors.New("user profile not found")

// UserProfileRepository persists the application-owned user profile
// documents, keyed by the identity id.
type UserProfileRepository interface {
	// Create writes the full profile document, replacing any previous one.
	Create(ctx context.Context, profile *entity.UserProfile) error

	// Merge patches the stored document with the given fields, leaving
	// all other fields untouched.
	Merge(ctx context.Context, uid string, patch map[string]any) error

	// FindByUID reads the profile document by key. Returns
	// ErrProfileNotFound when no document exists.
	FindByUID(ctx context.Context, uid string) (*entity.UserProfile, error)

	// FindByRole lists every profile carrying the given role. No matches
	// is an empty list, not an error.
	FindByRole(ctx context.Context, role entity.Role) ([]*entity.UserProfile, error)
}
