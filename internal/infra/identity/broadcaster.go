package identity

import (
	"sync"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"
)

// sessionBroadcaster fans session resolutions out to registered observers.
// Observers are invoked synchronously, in registration order, holding no
// lock, so an observer may unsubscribe itself from within the callback.
type sessionBroadcaster struct {
	mu      sync.Mutex
	nextID  int
	entries map[int]func(*entity.Identity)
}

func newSessionBroadcaster() *sessionBroadcaster {
	return &sessionBroadcaster{
		entries: make(map[int]func(*entity.Identity)),
	}
}

// subscribe registers an observer and returns its release function. The
// release is idempotent at the map level; callers still guard it with
// sync.Once so a double release never hides a real bug.
func (b *sessionBroadcaster) subscribe(fn func(*entity.Identity)) service.UnsubscribeFunc {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.entries[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.entries, id)
		b.mu.Unlock()
	}
}

// broadcast notifies every observer of the new session state. A nil
// identity means "no session": sign-out or an initial resolution with
// nobody signed in.
func (b *sessionBroadcaster) broadcast(identity *entity.Identity) {
	b.mu.Lock()
	observers := make([]func(*entity.Identity), 0, len(b.entries))
	for _, fn := range b.entries {
		observers = append(observers, fn)
	}
	b.mu.Unlock()

	for _, fn := range observers {
		fn(identity)
	}
}
