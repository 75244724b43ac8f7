// Package service declares the contracts of external collaborators the
// domain depends on. Implementations live under internal/infra.
package service

import (
	"context"

	"storefront/internal/domain/entity"
)

// UnsubscribeFunc releases a session-change subscription. Safe to call at
// most once; callers guard the release with their own sync.Once.
type UnsubscribeFunc func()

// IdentityService is the identity collaborator: it owns accounts,
// credentials and sessions. All hard auth work is delegated to it; this
// system only consumes its contract.
type IdentityService interface {
	// Register creates a new identity for the email/password pair.
	Register(ctx context.Context, email, password string) (*entity.Identity, error)

	// SetDisplayName sets the identity's display name. Called at most once,
	// right after Register.
	SetDisplayName(ctx context.Context, uid, displayName string) error

	// SignIn authenticates the email/password pair and resolves a session.
	// The returned token is the provider-issued bearer token the caller
	// presents on subsequent requests.
	SignIn(ctx context.Context, email, password string) (*entity.Identity, string, error)

	// SignOut ends the identity's session. Idempotent.
	SignOut(ctx context.Context, uid string) error

	// VerifyToken validates a bearer token issued by the provider and
	// returns the identity it belongs to.
	VerifyToken(ctx context.Context, token string) (*entity.Identity, error)

	// SubscribeSessionChanges registers an observer that is notified on
	// every session resolution: sign-in, sign-out, and the initial
	// resolution at process start (identity may be nil). The returned
	// function unregisters the observer.
	SubscribeSessionChanges(fn func(*entity.Identity)) UnsubscribeFunc
}
