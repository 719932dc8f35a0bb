// Package saascore is the entitlement and subscription core for multi-tenant
// SaaS backends.
//
// The module answers two questions for any tenant: "what value applies right
// now, and why" for settings, permissions and feature entitlements, and
// "what state is the subscription in" as it moves through its billing
// lifecycle. The web layer, authentication and delivery concerns live
// outside this module and talk to it through narrow interfaces.
//
// Packages:
//
//   - pkg/overrides: the shared layered override store used by all resolvers
//   - pkg/settings: per-user/tenant/global setting resolution
//   - pkg/permissions: role- and user-scoped permission resolution with
//     grant-state trees for UI rendering
//   - pkg/entitlements: plan-driven feature values and monthly usage counters
//   - pkg/subscription: the subscription lifecycle state machine
//   - pkg/proration: pure time-proportional billing arithmetic
//   - pkg/payments: payment stub recording and gateway adapters
//
// Supporting packages (pkg/clock, pkg/cache, pkg/config, pkg/logger, pkg/pg,
// pkg/redis, pkg/statemachine) carry the infrastructure seams: deterministic
// time, bounded read caching, env configuration, structured logging, and
// storage bootstrap. NewPlatform composes all of them against postgres and
// redis from environment configuration.
//
// All packages follow the same conventions: interface-first services
// constructed from Source/Store seams, sentinel errors joined with
// underlying causes, context.Context on every blocking call, and
// deterministic tests via injected clocks.
package saascore
