package entitlements

import (
	"errors"
	"fmt"
	"slices"
)

// Type tags how a feature value should be interpreted by callers.
type Type string

const (
	TypeString Type = "string"
	TypeBool   Type = "bool"
	TypeInt    Type = "int"
)

// Unlimited marks an int-typed feature with no usage limit.
const Unlimited int64 = -1

// Definition declares a feature: its name, the default that applies when
// neither a tenant override nor a plan entitlement exists, and the value
// type. Definitions are seeded from code at startup and never mutated.
type Definition struct {
	Name        string
	Default     string
	Type        Type
	Description string
}

// Registry is the immutable set of feature definitions, built once at
// process start. Read-only after construction, safe for concurrent use.
type Registry struct {
	defs map[string]Definition
}

// NewRegistry builds a Registry from the given definitions.
// Returns ErrDuplicateDefinition if two definitions share a name.
func NewRegistry(defs ...Definition) (*Registry, error) {
	byName := make(map[string]Definition, len(defs))
	for _, def := range defs {
		if def.Name == "" {
			return nil, errors.New("entitlements: definition name cannot be empty")
		}
		if _, exists := byName[def.Name]; exists {
			return nil, errors.Join(ErrDuplicateDefinition,
				fmt.Errorf("feature %q defined twice", def.Name))
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
		panic(fmt.Sprintf("entitlements: failed to build registry: %v", err))
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
