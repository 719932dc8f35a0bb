// Package permissions resolves named permissions for an actor through a
// layered chain: explicit user override first, then the union of grants
// across the actor's roles, then implicit deny.
//
// Permission definitions form a forest linked by parent name. The forest is
// built once at load time into parent→children adjacency and is immutable
// afterwards. Role grants are a set of granted names: a role revoke is the
// deletion of the grant row, never a false-valued row, so "no row" and
// "explicit deny" cannot be conflated. Explicit user-level grant and revoke
// live in the shared override store as "true"/"false" values.
//
// Beyond the boolean answer, Tree annotates every definition with a
// four-way GrantState (Granted, Inherited, Revoked, NotGranted) so a UI can
// show why a permission applies:
//
//   - Granted: explicit user override true
//   - Revoked: explicit user override false, even if a role still grants it
//   - Inherited: granted through a role with no user override
//   - NotGranted: none of the above
//
// Usage:
//
//	forest, err := permissions.NewForest(defs)
//	svc := permissions.NewService(forest, roleStore, overrideStore)
//
//	granted, err := svc.IsGranted(ctx, "projects.delete", actor)
//	tree, err := svc.Tree(ctx, actor)
package permissions
