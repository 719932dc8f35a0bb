package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/dmitrymomot/saascore/pkg/overrides"
)

// ResolveContext identifies the actor a setting is resolved for. A nil
// UserID or TenantID removes that scope from the chain.
type ResolveContext struct {
	UserID   *uuid.UUID
	TenantID *uuid.UUID
}

// Service resolves and manages settings through the override chain.
type Service interface {
	// Get resolves a setting: user override, tenant override, global
	// override, then the definition default. Fails with ErrNotConfigured
	// only when no definition and no override exist for the name.
	Get(ctx context.Context, name string, rctx ResolveContext) (string, error)

	// GetOrNull resolves like Get but returns nil instead of
	// ErrNotConfigured for unknown settings.
	GetOrNull(ctx context.Context, name string, rctx ResolveContext) (*string, error)

	// GetBool and GetInt are typed convenience wrappers over Get.
	GetBool(ctx context.Context, name string, rctx ResolveContext) (bool, error)
	GetInt(ctx context.Context, name string, rctx ResolveContext) (int, error)

	// All returns every defined setting at its resolved value for rctx.
	All(ctx context.Context, rctx ResolveContext) (map[string]string, error)

	SetForUser(ctx context.Context, name, value string, userID uuid.UUID) error
	SetForTenant(ctx context.Context, name, value string, tenantID uuid.UUID) error
	SetGlobal(ctx context.Context, name, value string) error

	DeleteForUser(ctx context.Context, name string, userID uuid.UUID) error
	DeleteForTenant(ctx context.Context, name string, tenantID uuid.UUID) error
	DeleteGlobal(ctx context.Context, name string) error
}

type service struct {
	registry *Registry
	store    overrides.Store
}

// NewService creates a settings Service. Panics if registry or store is nil
// to fail fast during initialization.
func NewService(registry *Registry, store overrides.Store) Service {
	if registry == nil {
		panic("settings: registry is required")
	}
	if store == nil {
		panic("settings: override store is required")
	}
	return &service{registry: registry, store: store}
}

// chain builds the scope lookups for rctx in precedence order.
func (s *service) chain(rctx ResolveContext) []overrides.Lookup {
	lookups := make([]overrides.Lookup, 0, 3)
	if rctx.UserID != nil {
		lookups = append(lookups, overrides.ScopeLookup(s.store, overrides.ScopeUser, rctx.UserID.String()))
	}
	if rctx.TenantID != nil {
		lookups = append(lookups, overrides.ScopeLookup(s.store, overrides.ScopeTenant, rctx.TenantID.String()))
	}
	lookups = append(lookups, overrides.ScopeLookup(s.store, overrides.ScopeGlobal, ""))
	return lookups
}

func (s *service) Get(ctx context.Context, name string, rctx ResolveContext) (string, error) {
	value, err := s.GetOrNull(ctx, name, rctx)
	if err != nil {
		return "", err
	}
	if value == nil {
		return "", errors.Join(ErrNotConfigured, fmt.Errorf("setting %q", name))
	}
	return *value, nil
}

func (s *service) GetOrNull(ctx context.Context, name string, rctx ResolveContext) (*string, error) {
	value, err := overrides.Resolve(ctx, name, s.chain(rctx)...)
	if err != nil {
		return nil, err
	}
	if value != nil {
		return value, nil
	}

	if def, ok := s.registry.Get(name); ok {
		d := def.Default
		return &d, nil
	}
	return nil, nil
}

func (s *service) GetBool(ctx context.Context, name string, rctx ResolveContext) (bool, error) {
	raw, err := s.Get(ctx, name, rctx)
	if err != nil {
		return false, err
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.Join(ErrInvalidValueType,
			fmt.Errorf("setting %q: %q is not a bool", name, raw))
	}
	return value, nil
}

func (s *service) GetInt(ctx context.Context, name string, rctx ResolveContext) (int, error) {
	raw, err := s.Get(ctx, name, rctx)
	if err != nil {
		return 0, err
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Join(ErrInvalidValueType,
			fmt.Errorf("setting %q: %q is not an int", name, raw))
	}
	return value, nil
}

func (s *service) All(ctx context.Context, rctx ResolveContext) (map[string]string, error) {
	defs := s.registry.All()
	result := make(map[string]string, len(defs))
	for _, def := range defs {
		value, err := s.GetOrNull(ctx, def.Name, rctx)
		if err != nil {
			return nil, err
		}
		if value != nil {
			result[def.Name] = *value
		}
	}
	return result, nil
}

func (s *service) SetForUser(ctx context.Context, name, value string, userID uuid.UUID) error {
	return s.store.Set(ctx, name, value, overrides.ScopeUser, userID.String())
}

func (s *service) SetForTenant(ctx context.Context, name, value string, tenantID uuid.UUID) error {
	return s.store.Set(ctx, name, value, overrides.ScopeTenant, tenantID.String())
}

func (s *service) SetGlobal(ctx context.Context, name, value string) error {
	return s.store.Set(ctx, name, value, overrides.ScopeGlobal, "")
}

func (s *service) DeleteForUser(ctx context.Context, name string, userID uuid.UUID) error {
	return s.store.Delete(ctx, name, overrides.ScopeUser, userID.String())
}

func (s *service) DeleteForTenant(ctx context.Context, name string, tenantID uuid.UUID) error {
	return s.store.Delete(ctx, name, overrides.ScopeTenant, tenantID.String())
}

func (s *service) DeleteGlobal(ctx context.Context, name string) error {
	return s.store.Delete(ctx, name, overrides.ScopeGlobal, "")
}
