package subscription

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store persists the per-tenant subscription ledger. Implementations must
// uphold two invariants: at most one current record per tenant, and
// version-checked writes so concurrent mutations of the same record surface
// as ErrConcurrentModification instead of lost updates.
type Store interface {
	// GetCurrent returns the tenant's current subscription.
	// Returns ErrSubscriptionNotFound when the tenant has none.
	GetCurrent(ctx context.Context, tenantID uuid.UUID) (*Subscription, error)

	// GetByID returns a ledger record by its ID, current or retired.
	GetByID(ctx context.Context, id uuid.UUID) (*Subscription, error)

	// ListByTenant returns the tenant's full ledger, newest first.
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*Subscription, error)

	// Create inserts a new record. When the record is current and the
	// tenant already has a current record, it fails with ErrCurrentExists.
	Create(ctx context.Context, sub *Subscription) error

	// Update writes a record if its Version matches the stored one, then
	// increments the version. Returns ErrConcurrentModification on
	// mismatch and ErrSubscriptionNotFound when the record is unknown.
	Update(ctx context.Context, sub *Subscription) error

	// ReplaceCurrent atomically writes the retired record (version-checked
	// like Update) and inserts its successor. Either both writes apply or
	// neither does, so a tenant never observably has zero or two current
	// subscriptions. A nil retired record degrades to Create.
	ReplaceCurrent(ctx context.Context, retired, next *Subscription) error

	// ListDueForExpiration returns current trial/active subscriptions whose
	// EndDate falls before the given time. Paused, cancelled and expired
	// records are not included.
	ListDueForExpiration(ctx context.Context, before time.Time) ([]*Subscription, error)
}
