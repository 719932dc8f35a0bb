package subscription

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TenantSyncer propagates subscription state to the tenant record after
// every state-affecting transition. Sync failures are logged by the service
// and never fail the originating operation; the ledger stays the source of
// truth and the syncer is expected to converge eventually.
type TenantSyncer interface {
	SyncSubscription(ctx context.Context, tenantID uuid.UUID, sub *Subscription) error
}

// PaymentStub carries the minimum a payment system needs to start
// collecting for a subscription.
type PaymentStub struct {
	SubscriptionID uuid.UUID
	TenantID       uuid.UUID
	Amount         float64
	Currency       string
}

// PaymentRecorder records a pending payment when a paid subscription is
// created or renewed. Implementations hand the stub off to a gateway or a
// billing queue; the lifecycle manager never charges anyone itself.
type PaymentRecorder interface {
	RecordPending(ctx context.Context, stub PaymentStub) error
}

// RenewalHandler owns what happens when an auto-renewing subscription
// reaches its end date. The default handler rolls the end date forward one
// billing cycle and records a pending payment.
type RenewalHandler interface {
	Renew(ctx context.Context, sub *Subscription, plan *Plan) error
}

// HistoryEntry is one line of the per-subscription audit trail.
type HistoryEntry struct {
	SubscriptionID uuid.UUID
	TenantID       uuid.UUID
	Event          string
	Note           string
	OccurredAt     time.Time
}

// HistoryStore appends lifecycle events for auditing. Append failures are
// logged and swallowed; history is observability, not state.
type HistoryStore interface {
	Append(ctx context.Context, entry HistoryEntry) error
}

type noopTenantSyncer struct{}

func (noopTenantSyncer) SyncSubscription(context.Context, uuid.UUID, *Subscription) error {
	return nil
}

type noopPaymentRecorder struct{}

func (noopPaymentRecorder) RecordPending(context.Context, PaymentStub) error { return nil }

type noopHistoryStore struct{}

func (noopHistoryStore) Append(context.Context, HistoryEntry) error { return nil }

// MemoryHistoryStore collects history entries in memory, mostly for tests
// and local development.
type MemoryHistoryStore struct {
	mu      sync.Mutex
	entries []HistoryEntry
}

// NewMemoryHistoryStore returns an empty in-memory history store.
func NewMemoryHistoryStore() *MemoryHistoryStore {
	return &MemoryHistoryStore{}
}

func (s *MemoryHistoryStore) Append(_ context.Context, entry HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

// Entries returns a copy of the recorded entries in append order.
func (s *MemoryHistoryStore) Entries() []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]HistoryEntry, len(s.entries))
	copy(out, s.entries)
	return out
}
