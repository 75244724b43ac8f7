// Package memory implements the domain repositories on process-local maps.
// It backs the memory store provider for local development and is the
// fixture store used by tests. All methods deep-copy on the way in and out
// so callers can never alias stored state.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"

	"github.com/pkg/errors"
)

// Store holds every collection behind one mutex. Operations are rare and
// small, so a single lock keeps the semantics easy to reason about.
type Store struct {
	mu       sync.RWMutex
	profiles map[string]*entity.UserProfile
	carts    map[string]*entity.Cart
	orders   map[string]*entity.Order
	seq      int64 // Breaks creation-time ties so ordering stays stable.
	orderSeq map[string]int64
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		profiles: make(map[string]*entity.UserProfile),
		carts:    make(map[string]*entity.Cart),
		orders:   make(map[string]*entity.Order),
		orderSeq: make(map[string]int64),
	}
}

// Users returns the profile repository view of the store.
func (s *Store) Users() repository.UserProfileRepository { return (*userProfiles)(s) }

// Carts returns the cart repository view of the store.
func (s *Store) Carts() repository.CartRepository { return (*carts)(s) }

// Orders returns the order repository view of the store.
func (s *Store) Orders() repository.OrderRepository { return (*orders)(s) }

func cloneProfile(p *entity.UserProfile) *entity.UserProfile {
	out := *p
	if p.Company != nil {
		company := *p.Company
		out.Company = &company
	}
	if p.Permissions != nil {
		perms := *p.Permissions
		out.Permissions = &perms
	}

	return &out
}

func cloneCart(c *entity.Cart) *entity.Cart {
	out := *c
	out.Items = append([]entity.LineItem(nil), c.Items...)

	return &out
}

func cloneOrder(o *entity.Order) *entity.Order {
	out := *o
	out.Items = append([]entity.LineItem(nil), o.Items...)

	return &out
}

type userProfiles Store

func (s *userProfiles) Create(_ context.Context, profile *entity.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := cloneProfile(profile)
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.profiles[profile.UID] = stored

	return nil
}

func (s *userProfiles) Merge(_ context.Context, uid string, patch map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.profiles[uid]
	if !ok {
		stored = &entity.UserProfile{UID: uid}
		s.profiles[uid] = stored
	}

	for field, value := range patch {
		switch field {
		case "email":
			if v, ok := value.(string); ok {
				stored.Email = v
			}
		case "displayName":
			if v, ok := value.(string); ok {
				stored.DisplayName = v
			}
		case "role":
			if v, ok := value.(string); ok {
				stored.Role = entity.Role(v)
			}
		}
	}
	stored.UpdatedAt = time.Now()

	return nil
}

func (s *userProfiles) FindByUID(_ context.Context, uid string) (*entity.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.profiles[uid]
	if !ok {
		return nil, errors.Wrapf(repository.ErrProfileNotFound, "uid %s", uid)
	}

	return cloneProfile(stored), nil
}

func (s *userProfiles) FindByRole(_ context.Context, role entity.Role) ([]*entity.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*entity.UserProfile
	for _, stored := range s.profiles {
		if stored.Role == role {
			result = append(result, cloneProfile(stored))
		}
	}

	// Map iteration order is random; sort by key so listings stay stable.
	sort.Slice(result, func(i, j int) bool {
		return result[i].UID < result[j].UID
	})

	return result, nil
}

type carts Store

func (s *carts) Save(_ context.Context, cart *entity.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := cloneCart(cart)
	stored.UpdatedAt = time.Now()
	s.carts[cart.UID] = stored

	return nil
}

func (s *carts) FindByUID(_ context.Context, uid string) (*entity.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.carts[uid]
	if !ok {
		return nil, errors.Wrapf(repository.ErrCartNotFound, "uid %s", uid)
	}

	return cloneCart(stored), nil
}

func (s *carts) Clear(_ context.Context, uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cleared := entity.EmptyCart(uid)
	cleared.UpdatedAt = time.Now()
	s.carts[uid] = cleared

	return nil
}

type orders Store

func (s *orders) Create(_ context.Context, order *entity.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.ID]; exists {
		return errors.Errorf("order %s already exists", order.ID)
	}

	stored := cloneOrder(order)
	stored.CreatedAt = time.Now()
	s.orders[order.ID] = stored
	s.seq++
	s.orderSeq[order.ID] = s.seq

	return nil
}

func (s *orders) UpdateStatus(_ context.Context, orderID string, status entity.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.orders[orderID]
	if !ok {
		return errors.Wrapf(repository.ErrOrderNotFound, "order %s", orderID)
	}
	stored.Status = status

	return nil
}

func (s *orders) FindByUser(_ context.Context, uid string) ([]*entity.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*entity.Order
	for _, stored := range s.orders {
		if stored.UserID == uid {
			result = append(result, cloneOrder(stored))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return s.orderSeq[result[i].ID] > s.orderSeq[result[j].ID]
	})

	return result, nil
}
