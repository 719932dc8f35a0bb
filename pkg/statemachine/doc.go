// Package statemachine provides a small guarded finite state machine.
//
// The machine is stateless: it holds only the transition table, and the
// caller passes the current state into every Fire call. One machine
// definition therefore serves any number of entities concurrently without
// locking — the subscription lifecycle builds a single machine at startup
// and validates every tenant's transition against it.
//
// Transitions carry optional guards (all must pass) and actions (run in
// order before the state change; an action error aborts the transition).
// Multiple transitions may share a (from, event) pair; the first one whose
// guards pass wins, enabling guard-based branching.
//
// Usage:
//
//	m := statemachine.New(
//		statemachine.T("trial", "paused", "pause"),
//		statemachine.T("active", "paused", "pause"),
//		statemachine.T("paused", "active", "resume"),
//	)
//
//	next, err := m.Fire(ctx, "trial", "pause", sub)
//	// err is *NoTransitionError when "pause" is not valid from the state
package statemachine
