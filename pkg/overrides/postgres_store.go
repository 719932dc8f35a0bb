package overrides

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/saascore/pkg/pg"
)

// DB is the subset of pgxpool.Pool used by the postgres store. Both
// *pgxpool.Pool and pgx.Tx satisfy it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// postgresStore persists overrides in a single table with a unique index on
// (name, scope, scope_key). See the module migrations for the schema.
type postgresStore struct {
	db DB
}

// NewPostgresStore returns a Store backed by the saas_overrides table.
// Panics on a nil db to fail fast during initialization.
func NewPostgresStore(db DB) Store {
	if db == nil {
		panic("overrides: db is required")
	}
	return &postgresStore{db: db}
}

func (s *postgresStore) GetOrNull(ctx context.Context, name string, scope Scope, scopeKey string) (*Record, error) {
	if err := validateKey(name, scope, scopeKey); err != nil {
		return nil, err
	}

	const q = `SELECT name, scope, scope_key, value, updated_at
		FROM saas_overrides
		WHERE name = $1 AND scope = $2 AND scope_key = $3`

	var rec Record
	err := s.db.QueryRow(ctx, q, name, string(scope), scopeKey).
		Scan(&rec.Name, &rec.Scope, &rec.ScopeKey, &rec.Value, &rec.UpdatedAt)
	if err != nil {
		if pg.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return &rec, nil
}

func (s *postgresStore) Set(ctx context.Context, name, value string, scope Scope, scopeKey string) error {
	if err := validateKey(name, scope, scopeKey); err != nil {
		return err
	}

	const q = `INSERT INTO saas_overrides (name, scope, scope_key, value, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (name, scope, scope_key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = now()`

	if _, err := s.db.Exec(ctx, q, name, string(scope), scopeKey, value); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func (s *postgresStore) Delete(ctx context.Context, name string, scope Scope, scopeKey string) error {
	if err := validateKey(name, scope, scopeKey); err != nil {
		return err
	}

	const q = `DELETE FROM saas_overrides WHERE name = $1 AND scope = $2 AND scope_key = $3`

	if _, err := s.db.Exec(ctx, q, name, string(scope), scopeKey); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func (s *postgresStore) GetAll(ctx context.Context, scope Scope, scopeKey string) (map[string]string, error) {
	if !scope.Valid() {
		return nil, ErrInvalidScope
	}
	if scope != ScopeGlobal && scopeKey == "" {
		return nil, ErrMissingScopeKey
	}

	const q = `SELECT name, value FROM saas_overrides WHERE scope = $1 AND scope_key = $2`

	rows, err := s.db.Query(ctx, q, string(scope), scopeKey)
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, errors.Join(ErrStoreUnavailable, err)
		}
		result[name] = value
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return result, nil
}
