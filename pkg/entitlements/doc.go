// Package entitlements resolves feature values for tenants and tracks
// monthly usage against feature limits.
//
// A feature resolves through three layers, first non-nil wins: a
// tenant-level override in the shared override store, the entitlement the
// tenant's current subscription plan carries, then the static definition
// default. A tenant without a current subscription skips straight from the
// override layer to the default, so feature checks keep working for
// never-subscribed and lapsed tenants.
//
// Int-typed features double as usage limits. Track increments the tenant's
// counter for the current calendar month and fires a one-shot alert when
// the count crosses a threshold share of the limit; CheckLimit enforces the
// limit before the caller performs the metered action. Counters live in a
// UsageStore keyed by (tenant, feature, first-of-month) and are cleared by
// a scheduled ResetMonth sweep.
//
//	registry := entitlements.MustNewRegistry(
//		entitlements.Definition{Name: "api_requests", Default: "1000", Type: entitlements.TypeInt},
//		entitlements.Definition{Name: "sso", Default: "false", Type: entitlements.TypeBool},
//	)
//	svc := entitlements.NewService(registry, store, subSvc.CurrentPlan, entitlements.NewMemoryUsageStore())
//
//	if err := svc.CheckLimit(ctx, tenantID, "api_requests"); err != nil {
//		return err
//	}
//	_, _ = svc.Track(ctx, tenantID, "api_requests", 1)
package entitlements
