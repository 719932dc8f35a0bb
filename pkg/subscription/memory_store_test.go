package subscription_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/saascore/pkg/subscription"
)

func newRecord(tenantID uuid.UUID, status subscription.Status, current bool) *subscription.Subscription {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := now.AddDate(0, 1, 0)
	return &subscription.Subscription{
		ID:        uuid.New(),
		TenantID:  tenantID,
		PlanID:    "pro",
		Status:    status,
		IsCurrent: current,
		StartDate: now,
		EndDate:   &end,
		AutoRenew: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestMemoryStoreCreate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("sets version and enforces one current per tenant", func(t *testing.T) {
		t.Parallel()

		store := subscription.NewMemoryStore()
		tenantID := uuid.New()

		first := newRecord(tenantID, subscription.StatusActive, true)
		require.NoError(t, store.Create(ctx, first))
		assert.Equal(t, int64(1), first.Version)

		second := newRecord(tenantID, subscription.StatusActive, true)
		assert.ErrorIs(t, store.Create(ctx, second), subscription.ErrCurrentExists)

		// Non-current records can pile up freely.
		retired := newRecord(tenantID, subscription.StatusExpired, false)
		assert.NoError(t, store.Create(ctx, retired))
	})

	t.Run("different tenants do not conflict", func(t *testing.T) {
		t.Parallel()

		store := subscription.NewMemoryStore()
		require.NoError(t, store.Create(ctx, newRecord(uuid.New(), subscription.StatusActive, true)))
		require.NoError(t, store.Create(ctx, newRecord(uuid.New(), subscription.StatusActive, true)))
	})
}

func TestMemoryStoreUpdate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("version mismatch is a conflict", func(t *testing.T) {
		t.Parallel()

		store := subscription.NewMemoryStore()
		tenantID := uuid.New()
		sub := newRecord(tenantID, subscription.StatusActive, true)
		require.NoError(t, store.Create(ctx, sub))

		// Two readers load the same version.
		a, err := store.GetCurrent(ctx, tenantID)
		require.NoError(t, err)
		b, err := store.GetCurrent(ctx, tenantID)
		require.NoError(t, err)

		a.Status = subscription.StatusPaused
		require.NoError(t, store.Update(ctx, a))
		assert.Equal(t, int64(2), a.Version)

		// The loser's stale version is rejected.
		b.Status = subscription.StatusCancelled
		assert.ErrorIs(t, store.Update(ctx, b), subscription.ErrConcurrentModification)

		stored, err := store.GetCurrent(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, subscription.StatusPaused, stored.Status, "the first write wins")
	})

	t.Run("unknown record", func(t *testing.T) {
		t.Parallel()

		store := subscription.NewMemoryStore()
		err := store.Update(ctx, newRecord(uuid.New(), subscription.StatusActive, false))
		assert.ErrorIs(t, err, subscription.ErrSubscriptionNotFound)
	})
}

func TestMemoryStoreReplaceCurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("retires and inserts atomically", func(t *testing.T) {
		t.Parallel()

		store := subscription.NewMemoryStore()
		tenantID := uuid.New()
		old := newRecord(tenantID, subscription.StatusActive, true)
		require.NoError(t, store.Create(ctx, old))

		retired, err := store.GetCurrent(ctx, tenantID)
		require.NoError(t, err)
		retired.IsCurrent = false

		next := newRecord(tenantID, subscription.StatusActive, true)
		require.NoError(t, store.ReplaceCurrent(ctx, retired, next))
		assert.Equal(t, int64(1), next.Version)

		current, err := store.GetCurrent(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, next.ID, current.ID)
	})

	t.Run("stale retirement is rejected and nothing is written", func(t *testing.T) {
		t.Parallel()

		store := subscription.NewMemoryStore()
		tenantID := uuid.New()
		old := newRecord(tenantID, subscription.StatusActive, true)
		require.NoError(t, store.Create(ctx, old))

		stale, err := store.GetCurrent(ctx, tenantID)
		require.NoError(t, err)

		// Another writer bumps the version first.
		winner, err := store.GetCurrent(ctx, tenantID)
		require.NoError(t, err)
		winner.Status = subscription.StatusPaused
		require.NoError(t, store.Update(ctx, winner))

		stale.IsCurrent = false
		next := newRecord(tenantID, subscription.StatusActive, true)
		err = store.ReplaceCurrent(ctx, stale, next)
		assert.ErrorIs(t, err, subscription.ErrConcurrentModification)

		current, err := store.GetCurrent(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, old.ID, current.ID, "the original record is still current")

		_, err = store.GetByID(ctx, next.ID)
		assert.ErrorIs(t, err, subscription.ErrSubscriptionNotFound, "the successor was not inserted")
	})

	t.Run("nil retired degrades to create", func(t *testing.T) {
		t.Parallel()

		store := subscription.NewMemoryStore()
		next := newRecord(uuid.New(), subscription.StatusActive, true)
		require.NoError(t, store.ReplaceCurrent(ctx, nil, next))
		assert.Equal(t, int64(1), next.Version)
	})
}

func TestMemoryStoreListDueForExpiration(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := subscription.NewMemoryStore()

	due := newRecord(uuid.New(), subscription.StatusActive, true)
	require.NoError(t, store.Create(ctx, due))

	trialDue := newRecord(uuid.New(), subscription.StatusTrial, true)
	require.NoError(t, store.Create(ctx, trialDue))

	paused := newRecord(uuid.New(), subscription.StatusPaused, true)
	require.NoError(t, store.Create(ctx, paused))

	lifetime := newRecord(uuid.New(), subscription.StatusActive, true)
	lifetime.EndDate = nil
	require.NoError(t, store.Create(ctx, lifetime))

	cutoff := due.EndDate.AddDate(0, 1, 0)
	result, err := store.ListDueForExpiration(ctx, cutoff)
	require.NoError(t, err)

	ids := make(map[uuid.UUID]bool, len(result))
	for _, sub := range result {
		ids[sub.ID] = true
	}
	assert.True(t, ids[due.ID])
	assert.True(t, ids[trialDue.ID])
	assert.False(t, ids[paused.ID], "paused records are never swept")
	assert.False(t, ids[lifetime.ID], "nil end date never expires")
}

func TestMemoryStoreListByTenant(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := subscription.NewMemoryStore()
	tenantID := uuid.New()

	older := newRecord(tenantID, subscription.StatusExpired, false)
	require.NoError(t, store.Create(ctx, older))

	newer := newRecord(tenantID, subscription.StatusActive, true)
	newer.CreatedAt = older.CreatedAt.Add(time.Hour)
	require.NoError(t, store.Create(ctx, newer))

	require.NoError(t, store.Create(ctx, newRecord(uuid.New(), subscription.StatusActive, true)))

	ledger, err := store.ListByTenant(ctx, tenantID)
	require.NoError(t, err)
	require.Len(t, ledger, 2)
	assert.Equal(t, newer.ID, ledger[0].ID, "newest first")
	assert.Equal(t, older.ID, ledger[1].ID)
}
