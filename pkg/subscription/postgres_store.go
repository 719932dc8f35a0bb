package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/saascore/pkg/pg"
)

// DB is the subset of pgxpool.Pool the postgres store uses. Begin provides
// the transaction boundary for ReplaceCurrent.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// postgresStore persists the ledger in the saas_subscriptions table. A
// partial unique index on (tenant_id) WHERE is_current backs the
// at-most-one-current invariant at the storage level, and version-checked
// updates provide the optimistic-concurrency boundary.
type postgresStore struct {
	db DB
}

// NewPostgresStore returns a Store backed by the saas_subscriptions table.
// Panics on a nil db to fail fast during initialization.
func NewPostgresStore(db DB) Store {
	if db == nil {
		panic("subscription: db is required")
	}
	return &postgresStore{db: db}
}

const subscriptionColumns = `id, tenant_id, plan_id, status, is_current, version,
	start_date, end_date, trial_end_date, trial_extension_count,
	auto_renew, grace_period_days,
	cancellation_date, cancellation_reason, cancellation_type,
	paused_date, pause_reason, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubscription(row rowScanner) (*Subscription, error) {
	var sub Subscription
	var cancellationType *string
	err := row.Scan(
		&sub.ID, &sub.TenantID, &sub.PlanID, &sub.Status, &sub.IsCurrent, &sub.Version,
		&sub.StartDate, &sub.EndDate, &sub.TrialEndDate, &sub.TrialExtensionCount,
		&sub.AutoRenew, &sub.GracePeriodDays,
		&sub.CancellationDate, &sub.CancellationReason, &cancellationType,
		&sub.PausedDate, &sub.PauseReason, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if cancellationType != nil {
		ct := CancellationType(*cancellationType)
		sub.CancellationType = &ct
	}
	return &sub, nil
}

func (s *postgresStore) GetCurrent(ctx context.Context, tenantID uuid.UUID) (*Subscription, error) {
	q := `SELECT ` + subscriptionColumns + ` FROM saas_subscriptions
		WHERE tenant_id = $1 AND is_current`

	sub, err := scanSubscription(s.db.QueryRow(ctx, q, tenantID))
	if err != nil {
		if pg.IsNotFound(err) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return sub, nil
}

func (s *postgresStore) GetByID(ctx context.Context, id uuid.UUID) (*Subscription, error) {
	q := `SELECT ` + subscriptionColumns + ` FROM saas_subscriptions WHERE id = $1`

	sub, err := scanSubscription(s.db.QueryRow(ctx, q, id))
	if err != nil {
		if pg.IsNotFound(err) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return sub, nil
}

func (s *postgresStore) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*Subscription, error) {
	q := `SELECT ` + subscriptionColumns + ` FROM saas_subscriptions
		WHERE tenant_id = $1 ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, q, tenantID)
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	defer rows.Close()

	return collectSubscriptions(rows)
}

func (s *postgresStore) Create(ctx context.Context, sub *Subscription) error {
	if err := insertSubscription(ctx, s.db, sub); err != nil {
		return err
	}
	sub.Version = 1
	return nil
}

func (s *postgresStore) Update(ctx context.Context, sub *Subscription) error {
	if err := updateSubscription(ctx, s.db, sub); err != nil {
		return err
	}
	sub.Version++
	return nil
}

func (s *postgresStore) ReplaceCurrent(ctx context.Context, retired, next *Subscription) error {
	if retired == nil {
		return s.Create(ctx, next)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := updateSubscription(ctx, tx, retired); err != nil {
		return err
	}
	if err := insertSubscription(ctx, tx, next); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}

	retired.Version++
	next.Version = 1
	return nil
}

func (s *postgresStore) ListDueForExpiration(ctx context.Context, before time.Time) ([]*Subscription, error) {
	q := `SELECT ` + subscriptionColumns + ` FROM saas_subscriptions
		WHERE is_current AND status IN ($1, $2) AND end_date IS NOT NULL AND end_date < $3`

	rows, err := s.db.Query(ctx, q, string(StatusTrial), string(StatusActive), before)
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	defer rows.Close()

	return collectSubscriptions(rows)
}

// execer covers both DB and pgx.Tx for the shared write helpers.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func insertSubscription(ctx context.Context, db execer, sub *Subscription) error {
	const q = `INSERT INTO saas_subscriptions (` + subscriptionColumns + `)
		VALUES ($1, $2, $3, $4, $5, 1, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err := db.Exec(ctx, q,
		sub.ID, sub.TenantID, sub.PlanID, string(sub.Status), sub.IsCurrent,
		sub.StartDate, sub.EndDate, sub.TrialEndDate, sub.TrialExtensionCount,
		sub.AutoRenew, sub.GracePeriodDays,
		sub.CancellationDate, sub.CancellationReason, cancellationTypeValue(sub.CancellationType),
		sub.PausedDate, sub.PauseReason, sub.CreatedAt, sub.UpdatedAt,
	)
	if err != nil {
		// A unique violation on the partial current index means another
		// writer created a current record first.
		if pg.IsUniqueViolation(err) {
			return ErrCurrentExists
		}
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func updateSubscription(ctx context.Context, db execer, sub *Subscription) error {
	const q = `UPDATE saas_subscriptions SET
		plan_id = $3, status = $4, is_current = $5, version = version + 1,
		start_date = $6, end_date = $7, trial_end_date = $8, trial_extension_count = $9,
		auto_renew = $10, grace_period_days = $11,
		cancellation_date = $12, cancellation_reason = $13, cancellation_type = $14,
		paused_date = $15, pause_reason = $16, updated_at = $17
		WHERE id = $1 AND version = $2`

	tag, err := db.Exec(ctx, q,
		sub.ID, sub.Version,
		sub.PlanID, string(sub.Status), sub.IsCurrent,
		sub.StartDate, sub.EndDate, sub.TrialEndDate, sub.TrialExtensionCount,
		sub.AutoRenew, sub.GracePeriodDays,
		sub.CancellationDate, sub.CancellationReason, cancellationTypeValue(sub.CancellationType),
		sub.PausedDate, sub.PauseReason, sub.UpdatedAt,
	)
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing record from a version conflict.
		var exists bool
		if scanErr := scanExists(ctx, db, sub.ID, &exists); scanErr == nil && !exists {
			return ErrSubscriptionNotFound
		}
		return ErrConcurrentModification
	}
	return nil
}

func scanExists(ctx context.Context, db execer, id uuid.UUID, exists *bool) error {
	q, ok := db.(interface {
		QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	})
	if !ok {
		return errors.New("store does not support queries")
	}
	return q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM saas_subscriptions WHERE id = $1)`, id).Scan(exists)
}

func collectSubscriptions(rows pgx.Rows) ([]*Subscription, error) {
	var result []*Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, errors.Join(ErrStoreUnavailable, err)
		}
		result = append(result, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return result, nil
}

func cancellationTypeValue(t *CancellationType) *string {
	if t == nil {
		return nil
	}
	v := string(*t)
	return &v
}
