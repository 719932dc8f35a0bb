// Package logger builds the slog loggers the services report through.
// Best-effort collaborator failures (tenant sync, history, payment stubs,
// entitlement alerts) are logged rather than returned, so every service
// accepts a *slog.Logger built here via its WithLogger option.
//
// New applies environment presets and attaches static attributes:
//
//	log := logger.New(
//		logger.WithProduction("saascore"),
//		logger.WithAttr(logger.Component("subscription")),
//	)
//
// Context extractors append request-scoped attributes, such as a tenant
// ID placed in the context by the caller, to every record logged under
// that context. The attribute helpers (TenantID, SubscriptionID, PlanID,
// Feature, ...) keep key names consistent across packages.
package logger
