package permissions

import (
	"errors"
	"fmt"
	"slices"
)

// Definition declares a permission. Definitions are seeded from code at
// startup and synced to storage elsewhere; tenant actions never mutate
// them. A non-empty Parent links the definition into a tree.
type Definition struct {
	Name        string
	Parent      string // empty for a root definition
	DisplayName string
	HostOnly    bool // resolvable only for host-level users (no tenant)
}

// Node is one definition with its resolved children.
type Node struct {
	Definition
	Children []*Node
}

// Forest is the immutable permission tree set, built once at load time into
// parent→children adjacency so tree construction is O(n), not repeated
// linear scans per node.
type Forest struct {
	roots  []*Node
	byName map[string]*Node
}

// NewForest builds a Forest from flat definitions. It validates duplicate
// names, unknown parents and parent cycles.
func NewForest(defs []Definition) (*Forest, error) {
	byName := make(map[string]*Node, len(defs))
	for _, def := range defs {
		if def.Name == "" {
			return nil, errors.New("permissions: definition name cannot be empty")
		}
		if _, exists := byName[def.Name]; exists {
			return nil, errors.Join(ErrDuplicateDefinition,
				fmt.Errorf("permission %q defined twice", def.Name))
		}
		byName[def.Name] = &Node{Definition: def}
	}

	var roots []*Node
	for _, node := range byName {
		if node.Parent == "" {
			roots = append(roots, node)
			continue
		}
		parent, ok := byName[node.Parent]
		if !ok {
			return nil, errors.Join(ErrUnknownParent,
				fmt.Errorf("permission %q references unknown parent %q", node.Name, node.Parent))
		}
		parent.Children = append(parent.Children, node)
	}

	// A cycle leaves every node on it unreachable from any root.
	if err := checkCycles(byName); err != nil {
		return nil, err
	}

	sortNodes(roots)
	for _, node := range byName {
		sortNodes(node.Children)
	}

	return &Forest{roots: roots, byName: byName}, nil
}

// MustNewForest is NewForest that panics on error, for startup wiring.
func MustNewForest(defs []Definition) *Forest {
	f, err := NewForest(defs)
	if err != nil {
		panic(fmt.Sprintf("permissions: failed to build forest: %v", err))
	}
	return f
}

// Roots returns the top-level nodes sorted by name.
func (f *Forest) Roots() []*Node {
	return f.roots
}

// Lookup returns the node for name.
func (f *Forest) Lookup(name string) (*Node, bool) {
	node, ok := f.byName[name]
	return node, ok
}

// Len returns the number of definitions in the forest.
func (f *Forest) Len() int {
	return len(f.byName)
}

func sortNodes(nodes []*Node) {
	slices.SortFunc(nodes, func(a, b *Node) int {
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	})
}

func checkCycles(byName map[string]*Node) error {
	for name, node := range byName {
		seen := map[string]bool{name: true}
		for node.Parent != "" {
			if seen[node.Parent] {
				return errors.Join(ErrCircularDefinition,
					fmt.Errorf("permission %q is part of a parent cycle", name))
			}
			seen[node.Parent] = true
			node = byName[node.Parent]
		}
	}
	return nil
}
