package permissions

import "errors"

// Domain errors for permission resolution.
var (
	// ErrPermissionNotFound is returned when a name has no definition.
	ErrPermissionNotFound = errors.New("permissions.permission_not_found")

	// ErrRoleNotFound is returned when a referenced role does not exist.
	ErrRoleNotFound = errors.New("permissions.role_not_found")

	// ErrDuplicateDefinition is returned when a forest is built with two
	// definitions of the same name.
	ErrDuplicateDefinition = errors.New("permissions.duplicate_definition")

	// ErrUnknownParent is returned when a definition references a parent
	// that is not defined.
	ErrUnknownParent = errors.New("permissions.unknown_parent")

	// ErrCircularDefinition is returned when parent links form a cycle.
	ErrCircularDefinition = errors.New("permissions.circular_definition")
)
