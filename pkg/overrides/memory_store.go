package overrides

import (
	"context"
	"sync"

	"github.com/dmitrymomot/saascore/pkg/clock"
)

type memoryKey struct {
	name     string
	scope    Scope
	scopeKey string
}

// memoryStore is a mutex-guarded in-memory Store for tests and
// single-process deployments.
type memoryStore struct {
	mu      sync.RWMutex
	records map[memoryKey]Record
	clock   clock.Clock
}

// NewMemoryStore returns an in-memory Store. A nil clock defaults to the
// system clock.
func NewMemoryStore(c clock.Clock) Store {
	if c == nil {
		c = clock.System()
	}
	return &memoryStore{
		records: make(map[memoryKey]Record),
		clock:   c,
	}
}

func (s *memoryStore) GetOrNull(ctx context.Context, name string, scope Scope, scopeKey string) (*Record, error) {
	if err := validateKey(name, scope, scopeKey); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[memoryKey{name, scope, scopeKey}]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *memoryStore) Set(ctx context.Context, name, value string, scope Scope, scopeKey string) error {
	if err := validateKey(name, scope, scopeKey); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[memoryKey{name, scope, scopeKey}] = Record{
		Name:      name,
		Scope:     scope,
		ScopeKey:  scopeKey,
		Value:     value,
		UpdatedAt: s.clock.Now(),
	}
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, name string, scope Scope, scopeKey string) error {
	if err := validateKey(name, scope, scopeKey); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, memoryKey{name, scope, scopeKey})
	return nil
}

func (s *memoryStore) GetAll(ctx context.Context, scope Scope, scopeKey string) (map[string]string, error) {
	if !scope.Valid() {
		return nil, ErrInvalidScope
	}
	if scope != ScopeGlobal && scopeKey == "" {
		return nil, ErrMissingScopeKey
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]string)
	for k, rec := range s.records {
		if k.scope == scope && k.scopeKey == scopeKey {
			result[k.name] = rec.Value
		}
	}
	return result, nil
}
