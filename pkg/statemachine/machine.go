package statemachine

import (
	"context"
	"fmt"
)

// State names a state in the machine.
type State string

// Event names a trigger for a state transition.
type Event string

// Guard evaluates whether a transition should be allowed for the entity in
// data. All guards on a transition must pass.
type Guard func(ctx context.Context, from State, event Event, data any) bool

// Action runs side effects before the state change. Returning an error
// aborts the transition.
type Action func(ctx context.Context, from, to State, event Event, data any) error

// Transition defines one state change triggered by an event.
type Transition struct {
	From    State
	To      State
	Event   Event
	Guards  []Guard
	Actions []Action
}

// T is shorthand for a plain transition with no guards or actions.
func T(from, to State, event Event) Transition {
	return Transition{From: from, To: to, Event: event}
}

// Machine is an immutable transition table. Built once, safe for
// concurrent use, and stateless: the caller owns the current state.
type Machine struct {
	transitions map[State]map[Event][]Transition
}

// New builds a Machine from the given transitions. Panics on a transition
// with empty from/to/event, following fail-fast initialization.
func New(transitions ...Transition) *Machine {
	table := make(map[State]map[Event][]Transition)
	for _, t := range transitions {
		if t.From == "" || t.To == "" || t.Event == "" {
			panic(fmt.Sprintf("statemachine: invalid transition %+v", t))
		}
		if _, ok := table[t.From]; !ok {
			table[t.From] = make(map[Event][]Transition)
		}
		table[t.From][t.Event] = append(table[t.From][t.Event], t)
	}
	return &Machine{transitions: table}
}

// Fire resolves the transition for (from, event), runs its guards and
// actions, and returns the target state. The machine itself is unchanged;
// persisting the new state is the caller's job.
func (m *Machine) Fire(ctx context.Context, from State, event Event, data any) (State, error) {
	candidates, ok := m.transitions[from][event]
	if !ok || len(candidates) == 0 {
		return from, &NoTransitionError{From: from, Event: event}
	}

	// First transition whose guards all pass wins.
	for i := range candidates {
		t := &candidates[i]
		if !guardsPass(ctx, t, from, event, data) {
			continue
		}
		for _, action := range t.Actions {
			if action == nil {
				continue
			}
			if err := action(ctx, from, t.To, event, data); err != nil {
				return from, fmt.Errorf("transition action failed: %w", err)
			}
		}
		return t.To, nil
	}

	return from, &RejectedError{From: from, Event: event}
}

// CanFire reports whether Fire would find a transition with passing guards.
// Actions are not executed.
func (m *Machine) CanFire(ctx context.Context, from State, event Event, data any) bool {
	for i := range m.transitions[from][event] {
		t := &m.transitions[from][event][i]
		if guardsPass(ctx, t, from, event, data) {
			return true
		}
	}
	return false
}

func guardsPass(ctx context.Context, t *Transition, from State, event Event, data any) bool {
	for _, guard := range t.Guards {
		if guard != nil && !guard(ctx, from, event, data) {
			return false
		}
	}
	return true
}
