package entitlements

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Usage is one tenant's consumption of one feature for one calendar month.
// Exactly one record exists per (tenant, feature, month).
type Usage struct {
	TenantID    uuid.UUID
	FeatureName string
	Month       time.Time // first of month, UTC
	Count       int64
	AlertSent   bool
}

// MonthOf truncates t to the first of its month in UTC, the canonical key
// for usage records.
func MonthOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// UsageStore persists monthly usage counters.
type UsageStore interface {
	// Increment adds delta to the (tenant, feature, month) counter,
	// creating the record at delta when absent, and returns the new count.
	Increment(ctx context.Context, tenantID uuid.UUID, feature string, month time.Time, delta int64) (int64, error)

	// Get returns the record for (tenant, feature, month). An absent
	// record is a zero-count Usage, not an error.
	Get(ctx context.Context, tenantID uuid.UUID, feature string, month time.Time) (Usage, error)

	// MarkAlertSent flips AlertSent so a threshold alert fires once per
	// (tenant, feature, month). A no-op on an absent record.
	MarkAlertSent(ctx context.Context, tenantID uuid.UUID, feature string, month time.Time) error

	// ResetMonth deletes every record for the given month, used by the
	// scheduled sweep that closes out a billing month.
	ResetMonth(ctx context.Context, month time.Time) error
}

type usageKey struct {
	tenantID uuid.UUID
	feature  string
	month    time.Time
}

// memoryUsageStore keeps usage counters in memory for tests and
// single-process deployments.
type memoryUsageStore struct {
	mu      sync.Mutex
	records map[usageKey]*Usage
}

// NewMemoryUsageStore returns an in-memory UsageStore.
func NewMemoryUsageStore() UsageStore {
	return &memoryUsageStore{records: make(map[usageKey]*Usage)}
}

func (s *memoryUsageStore) Increment(ctx context.Context, tenantID uuid.UUID, feature string, month time.Time, delta int64) (int64, error) {
	key := usageKey{tenantID: tenantID, feature: feature, month: MonthOf(month)}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[key]
	if !ok {
		record = &Usage{TenantID: tenantID, FeatureName: feature, Month: key.month}
		s.records[key] = record
	}
	record.Count += delta
	return record.Count, nil
}

func (s *memoryUsageStore) Get(ctx context.Context, tenantID uuid.UUID, feature string, month time.Time) (Usage, error) {
	key := usageKey{tenantID: tenantID, feature: feature, month: MonthOf(month)}

	s.mu.Lock()
	defer s.mu.Unlock()

	if record, ok := s.records[key]; ok {
		return *record, nil
	}
	return Usage{TenantID: tenantID, FeatureName: feature, Month: key.month}, nil
}

func (s *memoryUsageStore) MarkAlertSent(ctx context.Context, tenantID uuid.UUID, feature string, month time.Time) error {
	key := usageKey{tenantID: tenantID, feature: feature, month: MonthOf(month)}

	s.mu.Lock()
	defer s.mu.Unlock()

	if record, ok := s.records[key]; ok {
		record.AlertSent = true
	}
	return nil
}

func (s *memoryUsageStore) ResetMonth(ctx context.Context, month time.Time) error {
	target := MonthOf(month)

	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.records {
		if key.month.Equal(target) {
			delete(s.records, key)
		}
	}
	return nil
}
