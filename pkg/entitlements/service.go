package entitlements

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/saascore/pkg/clock"
	"github.com/dmitrymomot/saascore/pkg/overrides"
	"github.com/dmitrymomot/saascore/pkg/subscription"
)

// PlanResolver returns the plan behind a tenant's current subscription.
// Returns nil, nil when the tenant has no current subscription, in which
// case resolution skips straight to the definition default. Typically
// subscription.Service.CurrentPlan.
type PlanResolver func(ctx context.Context, tenantID uuid.UUID) (*subscription.Plan, error)

// AlertFunc is invoked once per (tenant, feature, month) when usage first
// crosses the alert threshold of the feature's limit.
type AlertFunc func(ctx context.Context, tenantID uuid.UUID, feature string, count, limit int64)

// DefaultAlertThreshold is the share of the limit at which Track fires the
// usage alert.
const DefaultAlertThreshold = 0.8

// Service resolves feature values through the tenant-override, plan,
// definition-default chain and tracks monthly usage against int-typed
// feature limits.
type Service interface {
	// Value resolves a feature: tenant override, then the current
	// subscription plan's entitlement, then the definition default. Fails
	// with ErrNotConfigured only when no definition and no override exist.
	Value(ctx context.Context, name string, tenantID uuid.UUID) (string, error)

	// ValueOrNull resolves like Value but returns nil instead of
	// ErrNotConfigured for unknown features.
	ValueOrNull(ctx context.Context, name string, tenantID uuid.UUID) (*string, error)

	// IsEnabled and IntValue are typed convenience wrappers over Value.
	IsEnabled(ctx context.Context, name string, tenantID uuid.UUID) (bool, error)
	IntValue(ctx context.Context, name string, tenantID uuid.UUID) (int64, error)

	// All returns every defined feature at its resolved value for the
	// tenant.
	All(ctx context.Context, tenantID uuid.UUID) (map[string]string, error)

	// SetForTenant upserts a tenant-level feature override; Delete removes
	// it so the plan entitlement applies again.
	SetForTenant(ctx context.Context, name, value string, tenantID uuid.UUID) error
	DeleteForTenant(ctx context.Context, name string, tenantID uuid.UUID) error

	// Track adds delta to the tenant's usage of the feature for the
	// current month and returns the new count. Tracking never blocks on
	// the limit; enforcement is CheckLimit's job.
	Track(ctx context.Context, tenantID uuid.UUID, name string, delta int64) (int64, error)

	// Usage returns the tenant's usage record for the feature this month.
	Usage(ctx context.Context, tenantID uuid.UUID, name string) (Usage, error)

	// CheckLimit fails with ErrLimitExceeded when the tenant's usage this
	// month has reached the feature's resolved int limit. A feature
	// resolved to Unlimited never fails.
	CheckLimit(ctx context.Context, tenantID uuid.UUID, name string) error

	// ResetMonth deletes all usage records for the given month.
	ResetMonth(ctx context.Context, month time.Time) error
}

type service struct {
	registry       *Registry
	store          overrides.Store
	plans          PlanResolver
	usage          UsageStore
	clock          clock.Clock
	alert          AlertFunc
	alertThreshold float64
	log            *slog.Logger
}

// ServiceOption configures optional service collaborators.
type ServiceOption func(*service)

// WithClock replaces the wall clock, mainly for deterministic tests.
func WithClock(c clock.Clock) ServiceOption {
	return func(s *service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithAlert installs the usage alert callback fired when a tenant first
// crosses the alert threshold for a limited feature.
func WithAlert(fn AlertFunc) ServiceOption {
	return func(s *service) {
		if fn != nil {
			s.alert = fn
		}
	}
}

// WithAlertThreshold overrides the share of the limit at which alerts fire.
// Values outside (0, 1] are ignored.
func WithAlertThreshold(threshold float64) ServiceOption {
	return func(s *service) {
		if threshold > 0 && threshold <= 1 {
			s.alertThreshold = threshold
		}
	}
}

// WithLogger sets the structured logger for best-effort failure reporting.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *service) {
		if log != nil {
			s.log = log
		}
	}
}

// NewService creates a feature entitlements Service. The registry, override
// store, plan resolver and usage store are required; panics on nil to fail
// fast during initialization.
func NewService(registry *Registry, store overrides.Store, plans PlanResolver, usage UsageStore, opts ...ServiceOption) Service {
	if registry == nil {
		panic("entitlements: registry is required")
	}
	if store == nil {
		panic("entitlements: override store is required")
	}
	if plans == nil {
		panic("entitlements: plan resolver is required")
	}
	if usage == nil {
		panic("entitlements: usage store is required")
	}

	svc := &service{
		registry:       registry,
		store:          store,
		plans:          plans,
		usage:          usage,
		clock:          clock.System(),
		alertThreshold: DefaultAlertThreshold,
		log:            slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// planLookup adapts the plan resolver to an override chain layer. A tenant
// without a current subscription, or a plan without the feature, resolves
// to nil so the chain falls through.
func (s *service) planLookup(tenantID uuid.UUID) overrides.Lookup {
	return func(ctx context.Context, name string) (*string, error) {
		plan, err := s.plans(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		if plan == nil {
			return nil, nil
		}
		if value, ok := plan.Feature(name); ok {
			return &value, nil
		}
		return nil, nil
	}
}

func (s *service) Value(ctx context.Context, name string, tenantID uuid.UUID) (string, error) {
	value, err := s.ValueOrNull(ctx, name, tenantID)
	if err != nil {
		return "", err
	}
	if value == nil {
		return "", errors.Join(ErrNotConfigured, fmt.Errorf("feature %q", name))
	}
	return *value, nil
}

func (s *service) ValueOrNull(ctx context.Context, name string, tenantID uuid.UUID) (*string, error) {
	value, err := overrides.Resolve(ctx, name,
		overrides.ScopeLookup(s.store, overrides.ScopeTenant, tenantID.String()),
		s.planLookup(tenantID),
	)
	if err != nil {
		return nil, err
	}
	if value != nil {
		return value, nil
	}

	if def, ok := s.registry.Get(name); ok {
		d := def.Default
		return &d, nil
	}
	return nil, nil
}

func (s *service) IsEnabled(ctx context.Context, name string, tenantID uuid.UUID) (bool, error) {
	raw, err := s.Value(ctx, name, tenantID)
	if err != nil {
		return false, err
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.Join(ErrInvalidValueType,
			fmt.Errorf("feature %q: %q is not a bool", name, raw))
	}
	return value, nil
}

func (s *service) IntValue(ctx context.Context, name string, tenantID uuid.UUID) (int64, error) {
	raw, err := s.Value(ctx, name, tenantID)
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Join(ErrInvalidValueType,
			fmt.Errorf("feature %q: %q is not an int", name, raw))
	}
	return value, nil
}

func (s *service) All(ctx context.Context, tenantID uuid.UUID) (map[string]string, error) {
	defs := s.registry.All()
	result := make(map[string]string, len(defs))
	for _, def := range defs {
		value, err := s.ValueOrNull(ctx, def.Name, tenantID)
		if err != nil {
			return nil, err
		}
		if value != nil {
			result[def.Name] = *value
		}
	}
	return result, nil
}

func (s *service) SetForTenant(ctx context.Context, name, value string, tenantID uuid.UUID) error {
	return s.store.Set(ctx, name, value, overrides.ScopeTenant, tenantID.String())
}

func (s *service) DeleteForTenant(ctx context.Context, name string, tenantID uuid.UUID) error {
	return s.store.Delete(ctx, name, overrides.ScopeTenant, tenantID.String())
}

func (s *service) Track(ctx context.Context, tenantID uuid.UUID, name string, delta int64) (int64, error) {
	month := MonthOf(s.clock.Now())
	count, err := s.usage.Increment(ctx, tenantID, name, month, delta)
	if err != nil {
		return 0, errors.Join(ErrUsageUnavailable, err)
	}

	s.maybeAlert(ctx, tenantID, name, month, count)
	return count, nil
}

func (s *service) Usage(ctx context.Context, tenantID uuid.UUID, name string) (Usage, error) {
	usage, err := s.usage.Get(ctx, tenantID, name, MonthOf(s.clock.Now()))
	if err != nil {
		return Usage{}, errors.Join(ErrUsageUnavailable, err)
	}
	return usage, nil
}

func (s *service) CheckLimit(ctx context.Context, tenantID uuid.UUID, name string) error {
	limit, err := s.IntValue(ctx, name, tenantID)
	if err != nil {
		return err
	}
	if limit == Unlimited {
		return nil
	}

	usage, err := s.Usage(ctx, tenantID, name)
	if err != nil {
		return err
	}
	if usage.Count >= limit {
		return errors.Join(ErrLimitExceeded,
			fmt.Errorf("feature %q: %d of %d used", name, usage.Count, limit))
	}
	return nil
}

func (s *service) ResetMonth(ctx context.Context, month time.Time) error {
	return s.usage.ResetMonth(ctx, MonthOf(month))
}

// maybeAlert fires the usage alert the first time the month's count crosses
// the threshold share of the resolved limit. Best-effort: resolution or
// store failures are logged, never returned, since the increment already
// happened.
func (s *service) maybeAlert(ctx context.Context, tenantID uuid.UUID, name string, month time.Time, count int64) {
	if s.alert == nil {
		return
	}

	limit, err := s.IntValue(ctx, name, tenantID)
	if err != nil || limit == Unlimited || limit <= 0 {
		return
	}
	if float64(count) < s.alertThreshold*float64(limit) {
		return
	}

	usage, err := s.usage.Get(ctx, tenantID, name, month)
	if err != nil || usage.AlertSent {
		return
	}
	if err := s.usage.MarkAlertSent(ctx, tenantID, name, month); err != nil {
		s.log.ErrorContext(ctx, "failed to mark usage alert sent",
			slog.String("tenant_id", tenantID.String()),
			slog.String("feature", name),
			slog.Any("error", err))
		return
	}
	s.alert(ctx, tenantID, name, count, limit)
}
