package impl

import (
	"context"
	"log/slog"
	"sync"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"

	"go.uber.org/fx"
)

// SessionState mirrors the identity provider's session: the current
// identity (or none), a ready flag, and the last workflow failure. It is
// not ready until the provider delivers its first session resolution.
type SessionState struct {
	mu          sync.RWMutex
	current     *entity.Identity
	ready       bool
	lastErr     error
	releaseOnce sync.Once
	release     service.UnsubscribeFunc
}

// SessionStateParams holds dependencies for SessionState, injected by Fx.
type SessionStateParams struct {
	fx.In

	Lc       fx.Lifecycle
	Identity service.IdentityService
	Logger   *slog.Logger
}

// NewSessionState subscribes to session changes and unregisters the
// observer exactly once on shutdown.
func NewSessionState(params SessionStateParams) *SessionState {
	state := &SessionState{}
	state.release = params.Identity.SubscribeSessionChanges(func(identity *entity.Identity) {
		state.mu.Lock()
		defer state.mu.Unlock()

		state.current = identity
		state.ready = true
	})

	params.Lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			params.Logger.Debug("Releasing session observer")
			state.releaseOnce.Do(state.release)

			return nil
		},
	})

	return state
}

// Current returns the current identity (nil when signed out) and whether
// the first session resolution has happened yet.
func (s *SessionState) Current() (*entity.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current, s.ready
}

// RecordFailure stores the last workflow failure. The error is still
// returned to the caller; recording never swallows it.
func (s *SessionState) RecordFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastErr = err
}

// LastFailure returns the most recent recorded failure, or nil.
func (s *SessionState) LastFailure() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastErr
}
