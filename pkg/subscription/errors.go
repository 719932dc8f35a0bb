package subscription

import "errors"

// Domain errors for subscription lifecycle operations. Precondition
// violations join ErrInvalidSubscriptionState with the specific sentinel so
// callers can branch on either.
var (
	ErrPlanNotFound             = errors.New("subscription.plan_not_found")
	ErrInvalidPlanConfiguration = errors.New("subscription.invalid_plan_configuration")
	ErrFailedToLoadPlans        = errors.New("subscription.failed_to_load_plans")

	// ErrSubscriptionNotFound is returned by stores when no record matches.
	ErrSubscriptionNotFound = errors.New("subscription.not_found")

	// ErrNoActiveSubscription is the business error for operations that
	// require a current subscription when the tenant has none.
	ErrNoActiveSubscription = errors.New("subscription.no_active_subscription")

	// ErrInvalidSubscriptionState marks any transition attempted from a
	// state that forbids it.
	ErrInvalidSubscriptionState = errors.New("subscription.invalid_state")

	ErrNotPausable   = errors.New("subscription.cannot_pause")        // pause requires trial or active
	ErrNotPaused     = errors.New("subscription.cannot_resume")       // resume requires paused
	ErrNotTrialing   = errors.New("subscription.cannot_extend_trial") // trial extension requires trial
	ErrNotCancelable = errors.New("subscription.cannot_cancel")       // cancel requires a non-terminal state

	// ErrInvalidTrialExtension is returned for a non-positive day count.
	ErrInvalidTrialExtension = errors.New("subscription.invalid_trial_extension")

	// ErrConcurrentModification is the optimistic-concurrency failure on
	// the current-subscription record. The service retries it once before
	// surfacing.
	ErrConcurrentModification = errors.New("subscription.concurrent_modification")

	// ErrCurrentExists is returned by stores when inserting a current
	// record would leave a tenant with two current subscriptions.
	ErrCurrentExists = errors.New("subscription.current_already_exists")

	// ErrStoreUnavailable wraps transient storage failures.
	ErrStoreUnavailable = errors.New("subscription.store_unavailable")
)
