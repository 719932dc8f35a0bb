package overrides

import "context"

// Lookup returns the override value for a name at one scope, or nil when
// the scope holds no override. Scope misses are control flow, not errors.
type Lookup func(ctx context.Context, name string) (*string, error)

// ScopeLookup adapts one (store, scope, scopeKey) binding into a Lookup.
func ScopeLookup(store Store, scope Scope, scopeKey string) Lookup {
	return func(ctx context.Context, name string) (*string, error) {
		rec, err := store.GetOrNull(ctx, name, scope, scopeKey)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return nil, nil
		}
		value := rec.Value
		return &value, nil
	}
}

// Resolve walks the lookups in order and returns the first value found.
// Returns nil when no lookup holds a value for the name; the caller applies
// its own static default. The settings and entitlements resolvers are
// direct instances of this chain; permissions adds OR-across-roles on top.
func Resolve(ctx context.Context, name string, lookups ...Lookup) (*string, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	for _, lookup := range lookups {
		if lookup == nil {
			continue
		}
		value, err := lookup(ctx, name)
		if err != nil {
			return nil, err
		}
		if value != nil {
			return value, nil
		}
	}
	return nil, nil
}
