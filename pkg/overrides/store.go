package overrides

import (
	"context"
	"time"
)

// Scope is the level at which an override applies.
type Scope string

const (
	ScopeUser   Scope = "user"
	ScopeTenant Scope = "tenant"
	ScopeGlobal Scope = "global"
	ScopePlan   Scope = "plan"
)

// Valid reports whether the scope is one of the known scopes.
func (s Scope) Valid() bool {
	switch s {
	case ScopeUser, ScopeTenant, ScopeGlobal, ScopePlan:
		return true
	}
	return false
}

// Record is a single stored override. At most one record exists per
// (Name, Scope, ScopeKey) tuple.
type Record struct {
	Name      string
	Scope     Scope
	ScopeKey  string // user/tenant/plan identifier; empty for global scope
	Value     string // caller interprets per its own type tag
	UpdatedAt time.Time
}

// Store is the persistence seam shared by the settings, permissions and
// entitlements resolvers.
type Store interface {
	// GetOrNull returns the record for the tuple, or nil when no override
	// exists. Absence is not an error.
	GetOrNull(ctx context.Context, name string, scope Scope, scopeKey string) (*Record, error)

	// Set creates or updates the record for the tuple. Setting the same
	// value twice is a no-op apart from UpdatedAt.
	Set(ctx context.Context, name, value string, scope Scope, scopeKey string) error

	// Delete removes the record for the tuple. Deleting an absent record
	// is not an error.
	Delete(ctx context.Context, name string, scope Scope, scopeKey string) error

	// GetAll returns every override value in the given scope keyed by name.
	GetAll(ctx context.Context, scope Scope, scopeKey string) (map[string]string, error)
}

// validateKey checks the common argument invariants shared by all stores.
func validateKey(name string, scope Scope, scopeKey string) error {
	if name == "" {
		return ErrEmptyName
	}
	if !scope.Valid() {
		return ErrInvalidScope
	}
	if scope != ScopeGlobal && scopeKey == "" {
		return ErrMissingScopeKey
	}
	return nil
}
