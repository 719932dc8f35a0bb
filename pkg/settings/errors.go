package settings

import "errors"

// Domain errors for settings resolution.
var (
	// ErrNotConfigured is returned by Get when a setting has no definition
	// and no override at any scope. GetOrNull never returns it.
	ErrNotConfigured = errors.New("settings.not_configured")

	// ErrDuplicateDefinition is returned when a registry is built with two
	// definitions of the same name.
	ErrDuplicateDefinition = errors.New("settings.duplicate_definition")

	// ErrInvalidValueType is returned by typed getters when the resolved
	// value cannot be parsed as the requested type.
	ErrInvalidValueType = errors.New("settings.invalid_value_type")
)
