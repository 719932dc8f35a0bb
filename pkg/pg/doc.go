// Package pg bootstraps the postgres layer behind the override and
// subscription stores: a pgx/v5 pool with startup retries, embedded goose
// migrations, a healthcheck, and the SQLSTATE predicates those stores map
// onto their own sentinels.
//
// Usage:
//
//	var cfg pg.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//	if err := pg.Migrate(ctx, pool, migrationsFS, "migrations", log); err != nil {
//		return err
//	}
//
// The pool satisfies the DB interfaces declared by
// overrides.NewPostgresStore, subscription.NewPostgresStore and
// entitlements.NewPostgresUsageStore.
package pg
