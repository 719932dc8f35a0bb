package permissions

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Role is a named set of granted permission names within a tenant. A nil
// TenantID marks a host-level role. Absence of a name in Grants means "not
// granted" — there is no explicit role-level deny.
type Role struct {
	ID       uuid.UUID
	Name     string
	TenantID *uuid.UUID
	Grants   []string
}

// HasGrant reports whether the role grants the permission directly.
func (r *Role) HasGrant(name string) bool {
	return slices.Contains(r.Grants, name)
}

// RoleStore loads and mutates role grant rows. Granting is idempotent;
// revoking deletes the grant row rather than writing a false value.
type RoleStore interface {
	// Get returns a role by name. Returns ErrRoleNotFound if absent.
	Get(ctx context.Context, name string) (*Role, error)

	// Grant adds a permission to the role's grant set. Granting an already
	// granted permission is a no-op, never a duplicate row.
	Grant(ctx context.Context, roleName, permission string) error

	// Revoke deletes the grant row. Revoking an absent grant is a no-op.
	Revoke(ctx context.Context, roleName, permission string) error
}

// memoryRoleStore is a mutex-guarded in-memory RoleStore.
type memoryRoleStore struct {
	mu    sync.RWMutex
	roles map[string]*Role
}

// NewMemoryRoleStore creates an in-memory RoleStore seeded with the given
// roles. Grant sets are deep-copied so callers cannot mutate store state.
func NewMemoryRoleStore(roles ...Role) RoleStore {
	byName := make(map[string]*Role, len(roles))
	for _, role := range roles {
		r := role
		r.Grants = slices.Clone(role.Grants)
		byName[role.Name] = &r
	}
	return &memoryRoleStore{roles: byName}
}

func (s *memoryRoleStore) Get(ctx context.Context, name string) (*Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	role, ok := s.roles[name]
	if !ok {
		return nil, ErrRoleNotFound
	}
	copied := *role
	copied.Grants = slices.Clone(role.Grants)
	return &copied, nil
}

func (s *memoryRoleStore) Grant(ctx context.Context, roleName, permission string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	role, ok := s.roles[roleName]
	if !ok {
		return ErrRoleNotFound
	}
	if !slices.Contains(role.Grants, permission) {
		role.Grants = append(role.Grants, permission)
	}
	return nil
}

func (s *memoryRoleStore) Revoke(ctx context.Context, roleName, permission string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	role, ok := s.roles[roleName]
	if !ok {
		return ErrRoleNotFound
	}
	role.Grants = slices.DeleteFunc(role.Grants, func(g string) bool {
		return g == permission
	})
	return nil
}
