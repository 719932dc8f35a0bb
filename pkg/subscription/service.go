package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/dmitrymomot/saascore/pkg/clock"
	"github.com/dmitrymomot/saascore/pkg/statemachine"
)

// Lifecycle events fed into the status machine.
const (
	eventPause            statemachine.Event = "pause"
	eventResume           statemachine.Event = "resume"
	eventCancelImmediate  statemachine.Event = "cancel_immediate"
	eventCancelEndOfCycle statemachine.Event = "cancel_end_of_cycle"
	eventExtendTrial      statemachine.Event = "extend_trial"
	eventExpire           statemachine.Event = "expire"
)

// Service manages per-tenant subscription lifecycles over an append-style
// ledger: plan changes retire the old record and insert a new one, status
// changes mutate the current record in place through the status machine.
type Service interface {
	// Create starts a subscription for a tenant. Plans with a trial window
	// start in trial; paid plans without one start active with a pending
	// payment recorded. Any prior current record, live or terminal, is
	// flag-retired in the same write that makes the new one current.
	Create(ctx context.Context, tenantID uuid.UUID, planID string) (*Subscription, error)

	// Current returns the tenant's current subscription, or
	// ErrNoActiveSubscription when there is none.
	Current(ctx context.Context, tenantID uuid.UUID) (*Subscription, error)

	// CurrentPlan returns the plan of the tenant's current subscription.
	// Returns nil, nil when the tenant has no current subscription, so
	// entitlement resolution can fall through to definition defaults.
	CurrentPlan(ctx context.Context, tenantID uuid.UUID) (*Plan, error)

	// History returns the tenant's full ledger, newest first.
	History(ctx context.Context, tenantID uuid.UUID) ([]*Subscription, error)

	// Plan returns a plan from the catalog by ID.
	Plan(ctx context.Context, planID string) (Plan, error)

	// PublicPlans returns catalog plans available for self-service signup,
	// sorted by price ascending.
	PublicPlans(ctx context.Context) ([]Plan, error)

	// ChangePlan retires the current record and inserts a new active
	// record on the target plan, atomically. It does not charge; proration
	// is computed by the billing caller before invoking it.
	ChangePlan(ctx context.Context, tenantID uuid.UUID, planID string) (*Subscription, error)

	// Cancel cancels the current subscription. CancelImmediate transitions
	// it to cancelled and closes the end date now; CancelEndOfCycle only
	// records the intent and turns auto-renew off, leaving the status
	// untouched until the expiration sweep retires it.
	Cancel(ctx context.Context, tenantID uuid.UUID, reason string, cancellationType CancellationType) (*Subscription, error)

	// Pause suspends a trial or active subscription.
	Pause(ctx context.Context, tenantID uuid.UUID, reason string) (*Subscription, error)

	// Resume reactivates a paused subscription, pushing its end date out
	// by the paused duration so the tenant keeps the time already paid
	// for. A nil end date needs no adjustment.
	Resume(ctx context.Context, tenantID uuid.UUID) (*Subscription, error)

	// ExtendTrial pushes a trialing subscription's trial end out by the
	// given number of days and counts the extension.
	ExtendTrial(ctx context.Context, tenantID uuid.UUID, days int) (*Subscription, error)

	// CheckExpirations sweeps current trial/active subscriptions whose end
	// date plus grace period has passed: auto-renewing ones are handed to
	// the renewal handler, the rest are expired. Returns how many records
	// it transitioned. Safe to run concurrently and repeatedly; a record
	// already claimed by another sweep is skipped.
	CheckExpirations(ctx context.Context) (int, error)
}

type service struct {
	store    Store
	plans    PlansSource
	machine  *statemachine.Machine
	clock    clock.Clock
	syncer   TenantSyncer
	payments PaymentRecorder
	renewals RenewalHandler
	history  HistoryStore
	log      *slog.Logger
}

// NewService creates a subscription lifecycle service. Panics when the
// store or plans source is nil; everything else defaults to no-ops and can
// be supplied via options.
func NewService(store Store, plans PlansSource, opts ...ServiceOption) Service {
	if store == nil {
		panic("subscription: store is required")
	}
	if plans == nil {
		panic("subscription: plans source is required")
	}

	svc := &service{
		store:    store,
		plans:    plans,
		machine:  newLifecycleMachine(),
		clock:    clock.System(),
		syncer:   noopTenantSyncer{},
		payments: noopPaymentRecorder{},
		history:  noopHistoryStore{},
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.renewals == nil {
		svc.renewals = &cycleRenewal{store: svc.store, payments: svc.payments, clock: svc.clock}
	}
	return svc
}

// newLifecycleMachine builds the status transition table. The machine is
// stateless, so one instance serves all tenants.
func newLifecycleMachine() *statemachine.Machine {
	trial := statemachine.State(StatusTrial)
	active := statemachine.State(StatusActive)
	paused := statemachine.State(StatusPaused)
	cancelled := statemachine.State(StatusCancelled)
	expired := statemachine.State(StatusExpired)

	return statemachine.New(
		statemachine.T(trial, paused, eventPause),
		statemachine.T(active, paused, eventPause),
		statemachine.T(paused, active, eventResume),
		statemachine.T(trial, cancelled, eventCancelImmediate),
		statemachine.T(active, cancelled, eventCancelImmediate),
		statemachine.T(paused, cancelled, eventCancelImmediate),
		// End-of-cycle cancellation is an annotation, not a state change;
		// the expiration sweep moves the record to a terminal state later.
		statemachine.T(trial, trial, eventCancelEndOfCycle),
		statemachine.T(active, active, eventCancelEndOfCycle),
		statemachine.T(paused, paused, eventCancelEndOfCycle),
		statemachine.T(trial, trial, eventExtendTrial),
		statemachine.T(trial, expired, eventExpire),
		statemachine.T(active, expired, eventExpire),
	)
}

func (s *service) Create(ctx context.Context, tenantID uuid.UUID, planID string) (*Subscription, error) {
	plan, err := s.Plan(ctx, planID)
	if err != nil {
		return nil, err
	}

	prior, err := s.store.GetCurrent(ctx, tenantID)
	if err != nil && !errors.Is(err, ErrSubscriptionNotFound) {
		return nil, err
	}

	now := s.clock.Now()
	sub := &Subscription{
		ID:              uuid.New(),
		TenantID:        tenantID,
		PlanID:          plan.ID,
		IsCurrent:       true,
		StartDate:       now,
		AutoRenew:       true,
		GracePeriodDays: plan.GracePeriodDays,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if plan.TrialDays > 0 {
		trialEnd := plan.TrialEndsAt(now)
		sub.Status = StatusTrial
		sub.TrialEndDate = &trialEnd
		sub.EndDate = &trialEnd
	} else {
		cycleEnd := plan.Cycle.Advance(now)
		sub.Status = StatusActive
		sub.EndDate = &cycleEnd
	}

	if prior != nil {
		// Any prior record, live or terminal, is retired so the ledger
		// keeps exactly one current entry per tenant.
		retired := prior.clone()
		retired.IsCurrent = false
		retired.UpdatedAt = now
		if err := s.store.ReplaceCurrent(ctx, retired, sub); err != nil {
			return nil, err
		}
	} else if err := s.store.Create(ctx, sub); err != nil {
		return nil, err
	}

	if sub.IsActive() && plan.Price > 0 {
		if err := s.payments.RecordPending(ctx, PaymentStub{
			SubscriptionID: sub.ID,
			TenantID:       tenantID,
			Amount:         plan.Price,
			Currency:       plan.Currency,
		}); err != nil {
			s.log.ErrorContext(ctx, "failed to record pending payment",
				slog.String("tenant_id", tenantID.String()),
				slog.String("subscription_id", sub.ID.String()),
				slog.Any("error", err))
		}
	}

	s.afterTransition(ctx, sub, "created", "plan "+plan.ID)
	return sub, nil
}

func (s *service) Current(ctx context.Context, tenantID uuid.UUID) (*Subscription, error) {
	sub, err := s.store.GetCurrent(ctx, tenantID)
	if err != nil {
		if errors.Is(err, ErrSubscriptionNotFound) {
			return nil, ErrNoActiveSubscription
		}
		return nil, err
	}
	return sub, nil
}

func (s *service) CurrentPlan(ctx context.Context, tenantID uuid.UUID) (*Plan, error) {
	sub, err := s.store.GetCurrent(ctx, tenantID)
	if err != nil {
		if errors.Is(err, ErrSubscriptionNotFound) {
			return nil, nil
		}
		return nil, err
	}
	plan, err := s.Plan(ctx, sub.PlanID)
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (s *service) History(ctx context.Context, tenantID uuid.UUID) ([]*Subscription, error) {
	return s.store.ListByTenant(ctx, tenantID)
}

func (s *service) Plan(ctx context.Context, planID string) (Plan, error) {
	plans, err := s.loadPlans(ctx)
	if err != nil {
		return Plan{}, err
	}
	plan, ok := plans[planID]
	if !ok {
		return Plan{}, errors.Join(ErrPlanNotFound, fmt.Errorf("plan %s", planID))
	}
	return plan, nil
}

func (s *service) PublicPlans(ctx context.Context) ([]Plan, error) {
	plans, err := s.loadPlans(ctx)
	if err != nil {
		return nil, err
	}
	var public []Plan
	for _, plan := range plans {
		if plan.Public {
			public = append(public, plan)
		}
	}
	sort.Slice(public, func(i, j int) bool { return public[i].Price < public[j].Price })
	return public, nil
}

func (s *service) ChangePlan(ctx context.Context, tenantID uuid.UUID, planID string) (*Subscription, error) {
	plan, err := s.Plan(ctx, planID)
	if err != nil {
		return nil, err
	}

	var next *Subscription
	for attempt := 0; ; attempt++ {
		current, err := s.Current(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		if current.Status.Terminal() {
			return nil, errors.Join(ErrInvalidSubscriptionState,
				fmt.Errorf("cannot change plan of a %s subscription", current.Status))
		}
		if current.PlanID == plan.ID {
			return current, nil
		}

		now := s.clock.Now()
		retired := current.clone()
		retired.IsCurrent = false
		retired.EndDate = &now
		retired.UpdatedAt = now

		cycleEnd := plan.Cycle.Advance(now)
		next = &Subscription{
			ID:              uuid.New(),
			TenantID:        tenantID,
			PlanID:          plan.ID,
			Status:          StatusActive,
			IsCurrent:       true,
			StartDate:       now,
			EndDate:         &cycleEnd,
			AutoRenew:       current.AutoRenew,
			GracePeriodDays: plan.GracePeriodDays,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		err = s.store.ReplaceCurrent(ctx, retired, next)
		if err == nil {
			break
		}
		if errors.Is(err, ErrConcurrentModification) && attempt == 0 {
			continue
		}
		return nil, err
	}

	s.afterTransition(ctx, next, "plan_changed", "to plan "+plan.ID)
	return next, nil
}

func (s *service) Cancel(ctx context.Context, tenantID uuid.UUID, reason string, cancellationType CancellationType) (*Subscription, error) {
	if !cancellationType.Valid() {
		return nil, errors.Join(ErrInvalidSubscriptionState,
			fmt.Errorf("unknown cancellation type %q", cancellationType))
	}

	event := eventCancelEndOfCycle
	if cancellationType == CancelImmediate {
		event = eventCancelImmediate
	}

	sub, err := s.mutateCurrent(ctx, tenantID, func(sub *Subscription) error {
		next, err := s.fire(ctx, sub, event)
		if err != nil {
			return errors.Join(ErrNotCancelable, err)
		}
		now := s.clock.Now()
		ct := cancellationType
		sub.Status = next
		sub.CancellationDate = &now
		sub.CancellationReason = reason
		sub.CancellationType = &ct
		sub.AutoRenew = false
		if cancellationType == CancelImmediate {
			sub.EndDate = &now
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterTransition(ctx, sub, "cancelled", string(cancellationType))
	return sub, nil
}

func (s *service) Pause(ctx context.Context, tenantID uuid.UUID, reason string) (*Subscription, error) {
	sub, err := s.mutateCurrent(ctx, tenantID, func(sub *Subscription) error {
		next, err := s.fire(ctx, sub, eventPause)
		if err != nil {
			return errors.Join(ErrNotPausable, err)
		}
		now := s.clock.Now()
		sub.Status = next
		sub.PausedDate = &now
		sub.PauseReason = reason
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterTransition(ctx, sub, "paused", reason)
	return sub, nil
}

func (s *service) Resume(ctx context.Context, tenantID uuid.UUID) (*Subscription, error) {
	sub, err := s.mutateCurrent(ctx, tenantID, func(sub *Subscription) error {
		next, err := s.fire(ctx, sub, eventResume)
		if err != nil {
			return errors.Join(ErrNotPaused, err)
		}
		// Credit the paused time: the tenant keeps the full duration paid
		// for, so the end date moves out by however long the pause lasted.
		if sub.EndDate != nil && sub.PausedDate != nil {
			credited := sub.EndDate.Add(s.clock.Now().Sub(*sub.PausedDate))
			sub.EndDate = &credited
		}
		sub.Status = next
		sub.PausedDate = nil
		sub.PauseReason = ""
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterTransition(ctx, sub, "resumed", "")
	return sub, nil
}

func (s *service) ExtendTrial(ctx context.Context, tenantID uuid.UUID, days int) (*Subscription, error) {
	if days <= 0 {
		return nil, errors.Join(ErrInvalidTrialExtension,
			fmt.Errorf("extension must be positive, got %d days", days))
	}

	sub, err := s.mutateCurrent(ctx, tenantID, func(sub *Subscription) error {
		if _, err := s.fire(ctx, sub, eventExtendTrial); err != nil {
			return errors.Join(ErrNotTrialing, err)
		}
		if sub.TrialEndDate == nil {
			return ErrNotTrialing
		}
		extended := sub.TrialEndDate.AddDate(0, 0, days)
		sub.TrialEndDate = &extended
		sub.EndDate = &extended
		sub.TrialExtensionCount++
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterTransition(ctx, sub, "trial_extended", fmt.Sprintf("%d days", days))
	return sub, nil
}

func (s *service) CheckExpirations(ctx context.Context) (int, error) {
	now := s.clock.Now()
	due, err := s.store.ListDueForExpiration(ctx, now)
	if err != nil {
		return 0, err
	}

	plans, err := s.loadPlans(ctx)
	if err != nil {
		return 0, err
	}

	var transitioned int
	for _, sub := range due {
		if err := ctx.Err(); err != nil {
			return transitioned, err
		}
		// ListDueForExpiration filters on the raw end date; the grace
		// period is honored here.
		if !sub.ExpiresBefore(now) {
			continue
		}

		if err := s.expireOne(ctx, sub, plans); err != nil {
			if errors.Is(err, ErrConcurrentModification) {
				// Another sweep got there first; its transition counts,
				// not ours.
				continue
			}
			s.log.ErrorContext(ctx, "expiration sweep failed for subscription",
				slog.String("tenant_id", sub.TenantID.String()),
				slog.String("subscription_id", sub.ID.String()),
				slog.Any("error", err))
			continue
		}
		transitioned++
	}
	return transitioned, nil
}

// expireOne retires or renews one due subscription. Auto-renewing trials
// and active subscriptions go to the renewal handler (a due trial converts
// into its first paid cycle there); cancelled-at-end-of-cycle and other
// non-renewing records expire.
func (s *service) expireOne(ctx context.Context, sub *Subscription, plans map[string]Plan) error {
	if (sub.IsActive() || sub.IsTrialing()) && sub.AutoRenew {
		plan, ok := plans[sub.PlanID]
		if !ok {
			return errors.Join(ErrPlanNotFound, fmt.Errorf("plan %s", sub.PlanID))
		}
		event := "renewed"
		if sub.IsTrialing() {
			event = "trial_converted"
		}
		if err := s.renewals.Renew(ctx, sub, &plan); err != nil {
			return err
		}
		s.afterTransition(ctx, sub, event, "")
		return nil
	}

	next, err := s.fire(ctx, sub, eventExpire)
	if err != nil {
		return err
	}
	sub.Status = next
	sub.UpdatedAt = s.clock.Now()
	if err := s.store.Update(ctx, sub); err != nil {
		return err
	}
	s.afterTransition(ctx, sub, "expired", "")
	return nil
}

// mutateCurrent reads the tenant's current subscription, applies fn, and
// writes it back. On a version conflict it retries once from a fresh read
// so fn re-validates its preconditions against the winning state.
func (s *service) mutateCurrent(ctx context.Context, tenantID uuid.UUID, fn func(*Subscription) error) (*Subscription, error) {
	for attempt := 0; ; attempt++ {
		sub, err := s.Current(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		if err := fn(sub); err != nil {
			return nil, err
		}
		sub.UpdatedAt = s.clock.Now()

		err = s.store.Update(ctx, sub)
		if err == nil {
			return sub, nil
		}
		if errors.Is(err, ErrConcurrentModification) && attempt == 0 {
			continue
		}
		return nil, err
	}
}

// fire runs the status machine without mutating the subscription; callers
// apply the returned status together with their field changes.
func (s *service) fire(ctx context.Context, sub *Subscription, event statemachine.Event) (Status, error) {
	next, err := s.machine.Fire(ctx, statemachine.State(sub.Status), event, sub)
	if err != nil {
		return sub.Status, errors.Join(ErrInvalidSubscriptionState, err)
	}
	return Status(next), nil
}

// afterTransition propagates state to the tenant record and the audit
// trail. Both are best-effort: failures are logged, never returned, so the
// ledger write that already happened stays the outcome.
func (s *service) afterTransition(ctx context.Context, sub *Subscription, event, note string) {
	if err := s.syncer.SyncSubscription(ctx, sub.TenantID, sub); err != nil {
		s.log.ErrorContext(ctx, "failed to sync subscription to tenant",
			slog.String("tenant_id", sub.TenantID.String()),
			slog.String("event", event),
			slog.Any("error", err))
	}
	if err := s.history.Append(ctx, HistoryEntry{
		SubscriptionID: sub.ID,
		TenantID:       sub.TenantID,
		Event:          event,
		Note:           note,
		OccurredAt:     s.clock.Now(),
	}); err != nil {
		s.log.ErrorContext(ctx, "failed to append subscription history",
			slog.String("tenant_id", sub.TenantID.String()),
			slog.String("event", event),
			slog.Any("error", err))
	}
}

func (s *service) loadPlans(ctx context.Context) (map[string]Plan, error) {
	plans, err := s.plans.Load(ctx)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}
	if err := validatePlans(plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// cycleRenewal is the default renewal handler: roll the end date forward
// one billing cycle and record a pending payment for the new cycle. A due
// trial converts here: it becomes active and its first paid cycle starts
// at the trial end date.
type cycleRenewal struct {
	store    Store
	payments PaymentRecorder
	clock    clock.Clock
}

func (r *cycleRenewal) Renew(ctx context.Context, sub *Subscription, plan *Plan) error {
	if sub.EndDate == nil {
		return nil
	}
	renewed := plan.Cycle.Advance(*sub.EndDate)
	sub.Status = StatusActive
	sub.EndDate = &renewed
	sub.UpdatedAt = r.clock.Now()
	if err := r.store.Update(ctx, sub); err != nil {
		return err
	}

	if plan.Price > 0 {
		if err := r.payments.RecordPending(ctx, PaymentStub{
			SubscriptionID: sub.ID,
			TenantID:       sub.TenantID,
			Amount:         plan.Price,
			Currency:       plan.Currency,
		}); err != nil {
			return fmt.Errorf("record renewal payment: %w", err)
		}
	}
	return nil
}
