package statemachine

import (
	"errors"
	"fmt"
)

// NoTransitionError indicates no transition is defined for the state/event
// combination. Callers use it to report precondition violations by name.
type NoTransitionError struct {
	From  State
	Event Event
}

func (e *NoTransitionError) Error() string {
	return fmt.Sprintf("no transition from state %q for event %q", e.From, e.Event)
}

// RejectedError indicates transitions exist for the state/event pair but
// every one was blocked by its guards.
type RejectedError struct {
	From  State
	Event Event
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("transition from state %q for event %q rejected by guards", e.From, e.Event)
}

// IsNoTransition reports whether err is a NoTransitionError.
func IsNoTransition(err error) bool {
	var e *NoTransitionError
	return errors.As(err, &e)
}

// IsRejected reports whether err is a RejectedError.
func IsRejected(err error) bool {
	var e *RejectedError
	return errors.As(err, &e)
}
