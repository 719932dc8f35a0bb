package subscription

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryStore keeps the ledger in memory. A single mutex is the per-tenant
// mutual-exclusion boundary; coarse but correct, and only tests and
// single-process deployments use this store.
type memoryStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Subscription
}

// NewMemoryStore returns an in-memory Store.
func NewMemoryStore() Store {
	return &memoryStore{records: make(map[uuid.UUID]*Subscription)}
}

func (s *memoryStore) GetCurrent(ctx context.Context, tenantID uuid.UUID) (*Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sub := s.currentLocked(tenantID); sub != nil {
		return sub.clone(), nil
	}
	return nil, ErrSubscriptionNotFound
}

func (s *memoryStore) GetByID(ctx context.Context, id uuid.UUID) (*Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.records[id]
	if !ok {
		return nil, ErrSubscriptionNotFound
	}
	return sub.clone(), nil
}

func (s *memoryStore) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*Subscription
	for _, sub := range s.records {
		if sub.TenantID == tenantID {
			result = append(result, sub.clone())
		}
	}
	slices.SortFunc(result, func(a, b *Subscription) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return result, nil
}

func (s *memoryStore) Create(ctx context.Context, sub *Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createLocked(sub)
}

func (s *memoryStore) Update(ctx context.Context, sub *Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(sub)
}

func (s *memoryStore) ReplaceCurrent(ctx context.Context, retired, next *Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if retired == nil {
		return s.createLocked(next)
	}

	// Version-check the retirement before touching anything, then apply
	// both writes under the same lock so the pair is atomic.
	stored, ok := s.records[retired.ID]
	if !ok {
		return ErrSubscriptionNotFound
	}
	if stored.Version != retired.Version {
		return ErrConcurrentModification
	}

	if err := s.updateLocked(retired); err != nil {
		return err
	}
	if err := s.createLocked(next); err != nil {
		// Roll the retirement back to keep the pair atomic.
		s.records[retired.ID] = stored
		return err
	}
	return nil
}

func (s *memoryStore) ListDueForExpiration(ctx context.Context, before time.Time) ([]*Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*Subscription
	for _, sub := range s.records {
		if !sub.IsCurrent {
			continue
		}
		if sub.Status != StatusTrial && sub.Status != StatusActive {
			continue
		}
		if sub.EndDate != nil && sub.EndDate.Before(before) {
			result = append(result, sub.clone())
		}
	}
	return result, nil
}

func (s *memoryStore) currentLocked(tenantID uuid.UUID) *Subscription {
	for _, sub := range s.records {
		if sub.TenantID == tenantID && sub.IsCurrent {
			return sub
		}
	}
	return nil
}

func (s *memoryStore) createLocked(sub *Subscription) error {
	if sub.IsCurrent {
		if existing := s.currentLocked(sub.TenantID); existing != nil {
			return ErrCurrentExists
		}
	}
	copied := sub.clone()
	copied.Version = 1
	s.records[sub.ID] = copied
	sub.Version = copied.Version
	return nil
}

func (s *memoryStore) updateLocked(sub *Subscription) error {
	stored, ok := s.records[sub.ID]
	if !ok {
		return ErrSubscriptionNotFound
	}
	if stored.Version != sub.Version {
		return ErrConcurrentModification
	}
	copied := sub.clone()
	copied.Version = stored.Version + 1
	s.records[sub.ID] = copied
	sub.Version = copied.Version
	return nil
}
