package overrides

import "errors"

// Domain errors for override store operations.
var (
	// ErrEmptyName is returned when an override name is empty.
	ErrEmptyName = errors.New("overrides.empty_name")

	// ErrInvalidScope is returned for a scope outside the known set.
	ErrInvalidScope = errors.New("overrides.invalid_scope")

	// ErrMissingScopeKey is returned when a scoped operation is missing its
	// scope key. Only the global scope allows an empty key.
	ErrMissingScopeKey = errors.New("overrides.missing_scope_key")

	// ErrStoreUnavailable wraps transient storage failures so callers can
	// distinguish them from business errors and retry.
	ErrStoreUnavailable = errors.New("overrides.store_unavailable")
)
