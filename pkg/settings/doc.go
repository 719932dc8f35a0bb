// Package settings resolves named settings through a layered override
// chain: user override, then tenant override, then global override, then
// the static definition default.
//
// Definitions are declared in code and collected into an immutable Registry
// at process start; the registry is never mutated at runtime. Overrides
// live in an overrides.Store, so a redis-cached or postgres-backed store
// plugs in without changing the resolver.
//
// A missing override at any scope is normal control flow: the chain falls
// through to the next scope. Get fails with ErrNotConfigured only when the
// name has no definition and no override at any scope; GetOrNull never
// fails for missing values.
//
// Usage:
//
//	registry, err := settings.NewRegistry(
//		settings.Definition{Name: "theme", Default: "light", Type: settings.TypeString},
//		settings.Definition{Name: "page.size", Default: "25", Type: settings.TypeInt},
//	)
//	svc := settings.NewService(registry, store)
//
//	value, err := svc.Get(ctx, "theme", settings.ResolveContext{
//		UserID:   &userID,
//		TenantID: &tenantID,
//	})
package settings
