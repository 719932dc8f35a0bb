package permissions

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/dmitrymomot/saascore/pkg/overrides"
)

// GrantState classifies why a permission is or is not granted. The UI needs
// the reason, not just the boolean.
type GrantState string

const (
	StateGranted    GrantState = "granted"     // explicit user override true
	StateInherited  GrantState = "inherited"   // true via a role, no user override
	StateRevoked    GrantState = "revoked"     // explicit user override false
	StateNotGranted GrantState = "not_granted" // none of the above
)

// IsGranted reports whether the state resolves to an effective grant.
func (s GrantState) IsGranted() bool {
	return s == StateGranted || s == StateInherited
}

// Actor identifies who a permission is resolved for. A nil TenantID marks a
// host-level user; tenant users never resolve host-only permissions.
type Actor struct {
	UserID   uuid.UUID
	TenantID *uuid.UUID
	Roles    []string
}

// TreeNode is a forest node annotated with the actor's grant state, shaped
// for UI rendering.
type TreeNode struct {
	Name        string
	DisplayName string
	HostOnly    bool
	State       GrantState
	IsGranted   bool
	Children    []*TreeNode
}

// Service resolves permissions and manages grants.
type Service interface {
	// IsGranted resolves one permission: user override wins, then the
	// union of grants across the actor's roles, then implicit deny.
	IsGranted(ctx context.Context, name string, actor Actor) (bool, error)

	// State returns the four-way grant state for one permission.
	State(ctx context.Context, name string, actor Actor) (GrantState, error)

	// Tree returns the definition forest annotated with the actor's grant
	// states. Host-only subtrees are included only for host-level actors.
	Tree(ctx context.Context, actor Actor) ([]*TreeNode, error)

	// GrantToUser and RevokeFromUser write explicit user overrides.
	// ClearUserOverride deletes the override so role grants apply again.
	GrantToUser(ctx context.Context, name string, userID uuid.UUID) error
	RevokeFromUser(ctx context.Context, name string, userID uuid.UUID) error
	ClearUserOverride(ctx context.Context, name string, userID uuid.UUID) error

	// GrantToRole and RevokeFromRole mutate role grant rows. Revoke deletes
	// the row; there is no role-level false value.
	GrantToRole(ctx context.Context, name, roleName string) error
	RevokeFromRole(ctx context.Context, name, roleName string) error
}

type service struct {
	forest *Forest
	roles  RoleStore
	store  overrides.Store
}

// NewService creates a permission Service. Panics if any dependency is nil
// to fail fast during initialization.
func NewService(forest *Forest, roles RoleStore, store overrides.Store) Service {
	if forest == nil {
		panic("permissions: forest is required")
	}
	if roles == nil {
		panic("permissions: role store is required")
	}
	if store == nil {
		panic("permissions: override store is required")
	}
	return &service{forest: forest, roles: roles, store: store}
}

func (s *service) IsGranted(ctx context.Context, name string, actor Actor) (bool, error) {
	state, err := s.State(ctx, name, actor)
	if err != nil {
		return false, err
	}
	return state.IsGranted(), nil
}

func (s *service) State(ctx context.Context, name string, actor Actor) (GrantState, error) {
	node, ok := s.forest.Lookup(name)
	if !ok {
		return StateNotGranted, errors.Join(ErrPermissionNotFound, fmt.Errorf("permission %q", name))
	}

	// Host-only permissions never resolve for tenant users, regardless of
	// overrides or role grants.
	if node.HostOnly && actor.TenantID != nil {
		return StateNotGranted, nil
	}

	roleGrants, err := s.roleGrantSet(ctx, actor.Roles)
	if err != nil {
		return StateNotGranted, err
	}
	return s.resolveState(ctx, name, actor.UserID, roleGrants)
}

// resolveState computes the state with the role grant set already loaded,
// so tree building loads each role once instead of once per node.
func (s *service) resolveState(ctx context.Context, name string, userID uuid.UUID, roleGrants map[string]bool) (GrantState, error) {
	rec, err := s.store.GetOrNull(ctx, name, overrides.ScopeUser, userID.String())
	if err != nil {
		return StateNotGranted, err
	}
	if rec != nil {
		granted, err := strconv.ParseBool(rec.Value)
		if err != nil {
			return StateNotGranted, fmt.Errorf("permissions: malformed user override for %q: %w", name, err)
		}
		if granted {
			return StateGranted, nil
		}
		return StateRevoked, nil
	}

	if roleGrants[name] {
		return StateInherited, nil
	}
	return StateNotGranted, nil
}

// roleGrantSet unions granted names across the actor's roles (OR
// semantics). Unknown roles are a hard error: a stale role assignment
// should surface, not silently deny.
func (s *service) roleGrantSet(ctx context.Context, roleNames []string) (map[string]bool, error) {
	grants := make(map[string]bool)
	for _, roleName := range roleNames {
		role, err := s.roles.Get(ctx, roleName)
		if err != nil {
			return nil, errors.Join(err, fmt.Errorf("role %q", roleName))
		}
		for _, g := range role.Grants {
			grants[g] = true
		}
	}
	return grants, nil
}

func (s *service) Tree(ctx context.Context, actor Actor) ([]*TreeNode, error) {
	roleGrants, err := s.roleGrantSet(ctx, actor.Roles)
	if err != nil {
		return nil, err
	}

	hostActor := actor.TenantID == nil

	var build func(node *Node) (*TreeNode, error)
	build = func(node *Node) (*TreeNode, error) {
		if node.HostOnly && !hostActor {
			return nil, nil
		}

		state, err := s.resolveState(ctx, node.Name, actor.UserID, roleGrants)
		if err != nil {
			return nil, err
		}

		out := &TreeNode{
			Name:        node.Name,
			DisplayName: node.DisplayName,
			HostOnly:    node.HostOnly,
			State:       state,
			IsGranted:   state.IsGranted(),
		}
		for _, child := range node.Children {
			built, err := build(child)
			if err != nil {
				return nil, err
			}
			if built != nil {
				out.Children = append(out.Children, built)
			}
		}
		return out, nil
	}

	var result []*TreeNode
	for _, root := range s.forest.Roots() {
		built, err := build(root)
		if err != nil {
			return nil, err
		}
		if built != nil {
			result = append(result, built)
		}
	}
	return result, nil
}

func (s *service) GrantToUser(ctx context.Context, name string, userID uuid.UUID) error {
	if _, ok := s.forest.Lookup(name); !ok {
		return errors.Join(ErrPermissionNotFound, fmt.Errorf("permission %q", name))
	}
	return s.store.Set(ctx, name, "true", overrides.ScopeUser, userID.String())
}

func (s *service) RevokeFromUser(ctx context.Context, name string, userID uuid.UUID) error {
	if _, ok := s.forest.Lookup(name); !ok {
		return errors.Join(ErrPermissionNotFound, fmt.Errorf("permission %q", name))
	}
	return s.store.Set(ctx, name, "false", overrides.ScopeUser, userID.String())
}

func (s *service) ClearUserOverride(ctx context.Context, name string, userID uuid.UUID) error {
	return s.store.Delete(ctx, name, overrides.ScopeUser, userID.String())
}

func (s *service) GrantToRole(ctx context.Context, name, roleName string) error {
	if _, ok := s.forest.Lookup(name); !ok {
		return errors.Join(ErrPermissionNotFound, fmt.Errorf("permission %q", name))
	}
	return s.roles.Grant(ctx, roleName, name)
}

func (s *service) RevokeFromRole(ctx context.Context, name, roleName string) error {
	if _, ok := s.forest.Lookup(name); !ok {
		return errors.Join(ErrPermissionNotFound, fmt.Errorf("permission %q", name))
	}
	return s.roles.Revoke(ctx, roleName, name)
}
