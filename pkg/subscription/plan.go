package subscription

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"
)

// Plan describes a subscription plan: its billing terms and the default
// feature entitlements it carries. Feature values are strings interpreted
// by the entitlements resolver per its own type tags.
type Plan struct {
	ID              string
	Name            string
	Cycle           BillingCycle
	Price           float64
	Currency        string
	TrialDays       int
	GracePeriodDays int
	Features        map[string]string
	Public          bool // available for self-service signup
}

// TrialEndsAt returns when the trial window ends for a subscription started
// at startedAt. Returns startedAt unchanged when the plan has no trial.
func (p Plan) TrialEndsAt(startedAt time.Time) time.Time {
	if p.TrialDays <= 0 {
		return startedAt
	}
	return startedAt.AddDate(0, 0, p.TrialDays)
}

// Feature returns the plan's default value for a feature name.
func (p Plan) Feature(name string) (string, bool) {
	value, ok := p.Features[name]
	return value, ok
}

// PlansSource defines how the plan catalog is loaded into the service.
type PlansSource interface {
	Load(ctx context.Context) (map[string]Plan, error)
}

// validatePlans catches configuration errors at startup instead of at the
// first affected operation.
func validatePlans(plans map[string]Plan) error {
	for planID, plan := range plans {
		if plan.ID != planID {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan ID mismatch: map key %s != plan.ID %s", planID, plan.ID))
		}
		if !plan.Cycle.Valid() {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan %s has unknown billing cycle %q", planID, plan.Cycle))
		}
		if plan.TrialDays < 0 {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan %s has negative trial days: %d", planID, plan.TrialDays))
		}
		if plan.GracePeriodDays < 0 {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan %s has negative grace period: %d", planID, plan.GracePeriodDays))
		}
		if plan.Price < 0 {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan %s has negative price: %v", planID, plan.Price))
		}
	}
	return nil
}

type inMemSource struct {
	mu    sync.RWMutex
	plans map[string]Plan
}

// NewInMemSource returns an in-memory PlansSource with a deep copy of the
// given plans. Panics if no plans are provided so the service always has at
// least one valid plan.
func NewInMemSource(plans ...Plan) PlansSource {
	if len(plans) < 1 {
		panic("subscription: at least one plan is required")
	}
	plansCopy := make(map[string]Plan, len(plans))
	for _, plan := range plans {
		plan.Features = maps.Clone(plan.Features)
		plansCopy[plan.ID] = plan
	}
	return &inMemSource{plans: plansCopy}
}

// Load returns a copy of all plans. Deep copying prevents callers from
// modifying the source's state.
func (s *inMemSource) Load(ctx context.Context) (map[string]Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plansCopy := make(map[string]Plan, len(s.plans))
	for id, plan := range s.plans {
		plan.Features = maps.Clone(plan.Features)
		plansCopy[id] = plan
	}
	return plansCopy, nil
}
