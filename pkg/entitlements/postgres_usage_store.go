package entitlements

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/saascore/pkg/pg"
)

// DB is the subset of pgxpool.Pool the postgres usage store uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// postgresUsageStore persists monthly counters in the saas_feature_usage
// table, keyed by (tenant_id, feature_name, usage_month).
type postgresUsageStore struct {
	db DB
}

// NewPostgresUsageStore returns a UsageStore backed by the
// saas_feature_usage table. Panics on a nil db to fail fast.
func NewPostgresUsageStore(db DB) UsageStore {
	if db == nil {
		panic("entitlements: db is required")
	}
	return &postgresUsageStore{db: db}
}

func (s *postgresUsageStore) Increment(ctx context.Context, tenantID uuid.UUID, feature string, month time.Time, delta int64) (int64, error) {
	const q = `INSERT INTO saas_feature_usage (tenant_id, feature_name, usage_month, usage_count, alert_sent)
		VALUES ($1, $2, $3, $4, FALSE)
		ON CONFLICT (tenant_id, feature_name, usage_month)
		DO UPDATE SET usage_count = saas_feature_usage.usage_count + EXCLUDED.usage_count
		RETURNING usage_count`

	var count int64
	if err := s.db.QueryRow(ctx, q, tenantID, feature, MonthOf(month), delta).Scan(&count); err != nil {
		return 0, errors.Join(ErrUsageUnavailable, err)
	}
	return count, nil
}

func (s *postgresUsageStore) Get(ctx context.Context, tenantID uuid.UUID, feature string, month time.Time) (Usage, error) {
	const q = `SELECT usage_count, alert_sent FROM saas_feature_usage
		WHERE tenant_id = $1 AND feature_name = $2 AND usage_month = $3`

	usage := Usage{TenantID: tenantID, FeatureName: feature, Month: MonthOf(month)}
	err := s.db.QueryRow(ctx, q, tenantID, feature, usage.Month).Scan(&usage.Count, &usage.AlertSent)
	if err != nil {
		if pg.IsNotFound(err) {
			return usage, nil
		}
		return Usage{}, errors.Join(ErrUsageUnavailable, err)
	}
	return usage, nil
}

func (s *postgresUsageStore) MarkAlertSent(ctx context.Context, tenantID uuid.UUID, feature string, month time.Time) error {
	const q = `UPDATE saas_feature_usage SET alert_sent = TRUE
		WHERE tenant_id = $1 AND feature_name = $2 AND usage_month = $3`

	if _, err := s.db.Exec(ctx, q, tenantID, feature, MonthOf(month)); err != nil {
		return errors.Join(ErrUsageUnavailable, err)
	}
	return nil
}

func (s *postgresUsageStore) ResetMonth(ctx context.Context, month time.Time) error {
	const q = `DELETE FROM saas_feature_usage WHERE usage_month = $1`

	if _, err := s.db.Exec(ctx, q, MonthOf(month)); err != nil {
		return errors.Join(ErrUsageUnavailable, err)
	}
	return nil
}
