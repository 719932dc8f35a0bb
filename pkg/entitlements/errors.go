package entitlements

import "errors"

// Domain errors for feature resolution and usage tracking.
var (
	// ErrNotConfigured is returned by Value when neither a definition nor
	// an override exists for the feature name.
	ErrNotConfigured = errors.New("entitlements.not_configured")

	ErrDuplicateDefinition = errors.New("entitlements.duplicate_definition")
	ErrInvalidValueType    = errors.New("entitlements.invalid_value_type")

	// ErrLimitExceeded is returned by CheckLimit when the tenant's usage
	// for the month has reached the feature's resolved limit.
	ErrLimitExceeded = errors.New("entitlements.limit_exceeded")

	// ErrUsageUnavailable wraps usage store failures.
	ErrUsageUnavailable = errors.New("entitlements.usage_unavailable")
)
