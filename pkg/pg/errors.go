package pg

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrInvalidConfig     = errors.New("pg.invalid_config")
	ErrNotReady          = errors.New("pg.not_ready")
	ErrHealthcheckFailed = errors.New("pg.healthcheck_failed")
	ErrMigrationFailed   = errors.New("pg.migration_failed")
)

// IsNotFound reports whether err is pgx's no-rows result, so stores can map
// it to their own not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsUniqueViolation reports a unique constraint violation (SQLSTATE 23505).
// The subscription store relies on it to detect a second current record
// racing past the partial unique index.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsForeignKeyViolation reports a referential integrity violation
// (SQLSTATE 23503).
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
