package impl

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/infra/persistence/memory"

	"github.com/pkg/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// fakeIdentity is a scriptable identity provider for tests.
type fakeIdentity struct {
	mu        sync.Mutex
	nextUID   string
	accounts  map[string]string // email -> password
	names     map[string]string // uid -> display name
	signedOut []string
	observers []func(*entity.Identity)

	registerErr error
	signInErr   error
	setNameErr  error
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{
		nextUID:  "uid-1",
		accounts: make(map[string]string),
		names:    make(map[string]string),
	}
}

func (f *fakeIdentity) Register(_ context.Context, email, password string) (*entity.Identity, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[email] = password

	return &entity.Identity{UID: f.nextUID, Email: email}, nil
}

func (f *fakeIdentity) SetDisplayName(_ context.Context, uid, displayName string) error {
	if f.setNameErr != nil {
		return f.setNameErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.names[uid] = displayName

	return nil
}

func (f *fakeIdentity) SignIn(_ context.Context, email, password string) (*entity.Identity, string, error) {
	if f.signInErr != nil {
		return nil, "", f.signInErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if stored, ok := f.accounts[email]; !ok || stored != password {
		return nil, "", errors.New("credentials rejected")
	}

	identity := &entity.Identity{UID: f.nextUID, Email: email, DisplayName: f.names[f.nextUID]}
	f.notify(identity)

	return identity, "token-" + f.nextUID, nil
}

func (f *fakeIdentity) SignOut(_ context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signedOut = append(f.signedOut, uid)
	f.notify(nil)

	return nil
}

func (f *fakeIdentity) VerifyToken(context.Context, string) (*entity.Identity, error) {
	return &entity.Identity{UID: f.nextUID}, nil
}

func (f *fakeIdentity) SubscribeSessionChanges(fn func(*entity.Identity)) service.UnsubscribeFunc {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := len(f.observers)
	f.observers = append(f.observers, fn)

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.observers[idx] = nil
	}
}

// notify expects f.mu held.
func (f *fakeIdentity) notify(identity *entity.Identity) {
	for _, fn := range f.observers {
		if fn != nil {
			fn(identity)
		}
	}
}

// capturingPublisher records every published event.
type capturingPublisher struct {
	mu     sync.Mutex
	events []*service.OrderEvent
	err    error
}

func (p *capturingPublisher) PublishOrderPlaced(_ context.Context, event *service.OrderEvent) error {
	if p.err != nil {
		return p.err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)

	return nil
}

func (p *capturingPublisher) Close() error { return nil }

// failingCarts wraps a cart repository and fails selected operations.
type failingCarts struct {
	repository.CartRepository

	clearErr error
	saveErr  error
}

func (f *failingCarts) Clear(ctx context.Context, uid string) error {
	if f.clearErr != nil {
		return f.clearErr
	}

	return f.CartRepository.Clear(ctx, uid)
}

func (f *failingCarts) Save(ctx context.Context, cart *entity.Cart) error {
	if f.saveErr != nil {
		return f.saveErr
	}

	return f.CartRepository.Save(ctx, cart)
}

// failingOrders wraps an order repository and fails selected operations.
type failingOrders struct {
	repository.OrderRepository

	createErr error
	updateErr error
}

func (f *failingOrders) Create(ctx context.Context, order *entity.Order) error {
	if f.createErr != nil {
		return f.createErr
	}

	return f.OrderRepository.Create(ctx, order)
}

func (f *failingOrders) UpdateStatus(ctx context.Context, orderID string, status entity.OrderStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}

	return f.OrderRepository.UpdateStatus(ctx, orderID, status)
}

type storeFixture struct {
	store     *memory.Store
	carts     *failingCarts
	orders    *failingOrders
	publisher *capturingPublisher
	service   *storeService
}

func newStoreFixture(t *testing.T) *storeFixture {
	t.Helper()

	store := memory.NewStore()
	carts := &failingCarts{CartRepository: store.Carts()}
	orders := &failingOrders{OrderRepository: store.Orders()}
	publisher := &capturingPublisher{}

	svc := NewStoreService(carts, orders, NewCatalogService(testLogger()), publisher, testLogger())

	return &storeFixture{
		store:     store,
		carts:     carts,
		orders:    orders,
		publisher: publisher,
		service:   svc.(*storeService),
	}
}
