package settings

import (
	"errors"
	"fmt"
	"slices"
)

// Type tags how a setting value should be interpreted by callers.
type Type string

const (
	TypeString Type = "string"
	TypeBool   Type = "bool"
	TypeInt    Type = "int"
)

// Definition declares a setting: its name, static default and value type.
// Definitions are seeded from code at startup and never mutated afterwards.
type Definition struct {
	Name        string
	Default     string
	Type        Type
	Description string
}

// Registry is the immutable set of setting definitions, built once at
// process start and passed by reference. Treated as read-only after
// construction, so it is safe for concurrent use without locking.
type Registry struct {
	defs map[string]Definition
}

// NewRegistry builds a Registry from the given definitions.
// Returns ErrDuplicateDefinition if two definitions share a name.
func NewRegistry(defs ...Definition) (*Registry, error) {
	byName := make(map[string]Definition, len(defs))
	for _, def := range defs {
		if def.Name == "" {
			return nil, errors.New("settings: definition name cannot be empty")
		}
		if _, exists := byName[def.Name]; exists {
			return nil, errors.Join(ErrDuplicateDefinition,
				fmt.Errorf("setting %q defined twice", def.Name))
		}
		if def.Type == "" {
			def.Type = TypeString
		}
		byName[def.Name] = def
	}
	return &Registry{defs: byName}, nil
}

// MustNewRegistry is NewRegistry that panics on error, for startup wiring.
func MustNewRegistry(defs ...Definition) *Registry {
	r, err := NewRegistry(defs...)
	if err != nil {
		panic(fmt.Sprintf("settings: failed to build registry: %v", err))
	}
	return r
}

// Get returns the definition for name.
func (r *Registry) Get(name string) (Definition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// All returns every definition sorted by name.
func (r *Registry) All() []Definition {
	result := make([]Definition, 0, len(r.defs))
	for _, def := range r.defs {
		result = append(result, def)
	}
	slices.SortFunc(result, func(a, b Definition) int {
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	})
	return result
}
