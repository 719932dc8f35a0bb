package subscription

import (
	"time"

	"github.com/google/uuid"
)

// Subscription is one record in a tenant's subscription ledger. Plan
// changes never mutate PlanID in place: the old record is retired and a new
// one inserted, so the ledger is an immutable history. At most one record
// per tenant has IsCurrent set at any time; the lifecycle service is solely
// responsible for flipping it atomically with creating the successor.
type Subscription struct {
	ID       uuid.UUID
	TenantID uuid.UUID
	PlanID   string
	Status   Status

	// IsCurrent marks the single record presently in force for the tenant.
	IsCurrent bool

	// Version is the optimistic-concurrency token checked by Store.Update
	// and Store.ReplaceCurrent.
	Version int64

	StartDate time.Time
	EndDate   *time.Time // nil = indefinite (lifetime plan)

	TrialEndDate        *time.Time
	TrialExtensionCount int

	AutoRenew       bool
	GracePeriodDays int

	CancellationDate   *time.Time
	CancellationReason string
	CancellationType   *CancellationType

	PausedDate  *time.Time
	PauseReason string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Subscription) IsTrialing() bool {
	return s.Status == StatusTrial
}

func (s *Subscription) IsActive() bool {
	return s.Status == StatusActive
}

func (s *Subscription) IsPaused() bool {
	return s.Status == StatusPaused
}

func (s *Subscription) IsCancelled() bool {
	return s.Status == StatusCancelled
}

func (s *Subscription) IsExpired() bool {
	return s.Status == StatusExpired
}

// ExpiresBefore reports whether the subscription's end date (plus its grace
// period) falls before t. A nil EndDate never expires.
func (s *Subscription) ExpiresBefore(t time.Time) bool {
	if s.EndDate == nil {
		return false
	}
	return s.EndDate.AddDate(0, 0, s.GracePeriodDays).Before(t)
}

// TrialDaysRemainingAt returns whole days left in the trial at now,
// rounding partial days up. Returns 0 outside an unexpired trial.
func (s *Subscription) TrialDaysRemainingAt(now time.Time) int {
	if !s.IsTrialing() || s.TrialEndDate == nil {
		return 0
	}
	remaining := s.TrialEndDate.Sub(now)
	if remaining <= 0 {
		return 0
	}
	days := remaining.Hours() / 24
	return int(days + 0.5)
}

// clone returns a deep copy so stores never hand out aliased pointers.
func (s *Subscription) clone() *Subscription {
	copied := *s
	copied.EndDate = cloneTime(s.EndDate)
	copied.TrialEndDate = cloneTime(s.TrialEndDate)
	copied.CancellationDate = cloneTime(s.CancellationDate)
	copied.PausedDate = cloneTime(s.PausedDate)
	if s.CancellationType != nil {
		ct := *s.CancellationType
		copied.CancellationType = &ct
	}
	return &copied
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	copied := *t
	return &copied
}
