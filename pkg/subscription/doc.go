// Package subscription manages per-tenant subscription lifecycles over an
// append-style ledger.
//
// Each tenant has at most one current subscription at a time. Status
// changes (pause, resume, cancel, expire) mutate the current record through
// a state machine; plan changes never mutate the plan in place but retire
// the current record and insert a successor atomically, so the ledger is a
// complete history of what the tenant subscribed to and when.
//
// # Lifecycle
//
// A subscription starts in trial when its plan has a trial window,
// otherwise active. Trial and active subscriptions can be paused and later
// resumed with the paused time credited to the end date. Cancellation is
// either immediate or deferred to the end of the paid cycle; the periodic
// CheckExpirations sweep retires deferred cancellations and non-renewing
// subscriptions, and hands auto-renewing ones to a renewal handler.
// Cancelled and expired are terminal: re-subscribing creates a new record.
//
// # Usage
//
//	store := subscription.NewMemoryStore()
//	plans := subscription.NewInMemSource(
//		subscription.Plan{ID: "pro", Cycle: subscription.CycleMonthly, Price: 29, Currency: "USD", TrialDays: 14},
//	)
//	svc := subscription.NewService(store, plans)
//
//	sub, err := svc.Create(ctx, tenantID, "pro")
//	if err != nil {
//		return err
//	}
//	_ = sub.TrialDaysRemainingAt(time.Now())
//
// Concurrent writers are serialized through a per-record version token:
// the service retries a conflicting operation once from a fresh read, and
// returns ErrConcurrentModification when the conflict persists.
package subscription
