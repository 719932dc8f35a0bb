package subscription

import "time"

// BillingCycle is the recurring window over which a plan's price applies.
type BillingCycle string

const (
	CycleMonthly BillingCycle = "monthly"
	CycleYearly  BillingCycle = "yearly"
)

// Valid reports whether the cycle is one of the known cycles.
func (c BillingCycle) Valid() bool {
	return c == CycleMonthly || c == CycleYearly
}

// Advance returns t moved forward by one billing cycle.
func (c BillingCycle) Advance(t time.Time) time.Time {
	if c == CycleYearly {
		return t.AddDate(1, 0, 0)
	}
	return t.AddDate(0, 1, 0)
}

// Status is the lifecycle state of a subscription. Cancelled and Expired
// are terminal; a tenant re-subscribing gets a new record, never a
// transition out of a terminal state.
type Status string

const (
	StatusTrial     Status = "trial"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// Terminal reports whether no transition leaves the status.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusExpired
}

// CancellationType distinguishes an immediate cancel from one that lets the
// paid cycle run out.
type CancellationType string

const (
	CancelImmediate  CancellationType = "immediate"
	CancelEndOfCycle CancellationType = "end_of_cycle"
)

// Valid reports whether the cancellation type is known.
func (t CancellationType) Valid() bool {
	return t == CancelImmediate || t == CancelEndOfCycle
}
