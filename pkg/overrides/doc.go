// Package overrides provides the layered override store shared by the
// settings, permissions and entitlements resolvers.
//
// An override is a named string value bound to a scope (user, tenant, plan
// or global) and a scope key (the user/tenant/plan identifier). At most one
// record exists per (name, scope, scope key) tuple. Absence of a record is
// normal control flow, not an error: resolvers interpret it as "inherit
// from the next scope in the chain".
//
// Three Store implementations are provided:
//
//   - NewMemoryStore: mutex-guarded map, used in tests and single-process
//     deployments
//   - NewPostgresStore: pgx-backed table with a unique index on the tuple,
//     upserts via ON CONFLICT
//   - NewCachedStore: redis read-through wrapper around another Store with
//     TTL-bounded staleness and write-through invalidation
//
// The Resolve helper walks an ordered list of scope lookups and returns the
// first value found, which is the single resolution primitive all three
// resolvers are built on.
//
// Usage:
//
//	store := overrides.NewMemoryStore(clock.System())
//	if err := store.Set(ctx, "theme", "dark", overrides.ScopeTenant, tenantID.String()); err != nil {
//		// handle storage failure
//	}
//
//	value, err := overrides.Resolve(ctx, "theme",
//		overrides.ScopeLookup(store, overrides.ScopeUser, userID.String()),
//		overrides.ScopeLookup(store, overrides.ScopeTenant, tenantID.String()),
//		overrides.ScopeLookup(store, overrides.ScopeGlobal, ""),
//	)
//	// value == nil means no scope had an override
package overrides
