package saascore

import (
	"context"
	"embed"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/saascore/pkg/config"
	"github.com/dmitrymomot/saascore/pkg/entitlements"
	"github.com/dmitrymomot/saascore/pkg/logger"
	"github.com/dmitrymomot/saascore/pkg/overrides"
	"github.com/dmitrymomot/saascore/pkg/payments"
	"github.com/dmitrymomot/saascore/pkg/permissions"
	"github.com/dmitrymomot/saascore/pkg/pg"
	"github.com/dmitrymomot/saascore/pkg/redis"
	"github.com/dmitrymomot/saascore/pkg/settings"
	"github.com/dmitrymomot/saascore/pkg/subscription"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Seed carries the code-defined catalog the platform cannot read from
// the environment: definitions, permission forest, roles and the plan
// catalog.
type Seed struct {
	Settings    []settings.Definition
	Features    []entitlements.Definition
	Permissions []permissions.Definition
	Roles       []permissions.Role
	Plans       subscription.PlansSource
}

// Platform is the composed core: override records and the subscription
// ledger in postgres, hot override reads through a redis cache, and the
// four services sharing one logger. Construct it once at startup with
// NewPlatform.
type Platform struct {
	Log   *slog.Logger
	DB    *pgxpool.Pool
	Redis *goredis.Client

	Settings      settings.Service
	Permissions   permissions.Service
	Entitlements  entitlements.Service
	Subscriptions subscription.Service
	Payments      *payments.MemoryRecorder
}

// NewPlatform loads pg and redis configuration from the environment,
// connects both, applies the embedded migrations and wires the services.
// The feature chain resolves plans through the subscription service, so a
// plan change is visible to entitlement checks as soon as the catalog
// cache rolls over.
func NewPlatform(ctx context.Context, env logger.Env, seed Seed) (*Platform, error) {
	log := logger.New(logger.WithEnvironment(env, "saascore"))

	var pgCfg pg.Config
	if err := config.Load(&pgCfg); err != nil {
		return nil, err
	}
	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return nil, err
	}
	if err := pg.Migrate(ctx, pool, migrationsFS, "migrations", log); err != nil {
		pool.Close()
		return nil, err
	}

	var redisCfg redis.Config
	if err := config.Load(&redisCfg); err != nil {
		pool.Close()
		return nil, err
	}
	cacheClient, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		pool.Close()
		return nil, err
	}

	store := overrides.NewCachedStore(overrides.NewPostgresStore(pool), cacheClient, 0)
	recorder := payments.NewMemoryRecorder()

	subSvc := subscription.NewService(
		subscription.NewPostgresStore(pool),
		subscription.NewCachedSource(seed.Plans, 0),
		subscription.WithPaymentRecorder(recorder),
		subscription.WithLogger(log),
	)

	entSvc := entitlements.NewService(
		entitlements.MustNewRegistry(seed.Features...),
		store,
		subSvc.CurrentPlan,
		entitlements.NewPostgresUsageStore(pool),
		entitlements.WithLogger(log),
	)

	return &Platform{
		Log:   log,
		DB:    pool,
		Redis: cacheClient,

		Settings: settings.NewService(
			settings.MustNewRegistry(seed.Settings...), store),
		Permissions: permissions.NewService(
			permissions.MustNewForest(seed.Permissions),
			permissions.NewMemoryRoleStore(seed.Roles...), store),
		Entitlements:  entSvc,
		Subscriptions: subSvc,
		Payments:      recorder,
	}, nil
}

// Healthchecks returns the checks for the platform's backing stores, in
// the func(ctx) error shape health endpoints consume.
func (p *Platform) Healthchecks() []func(context.Context) error {
	return []func(context.Context) error{
		pg.Healthcheck(p.DB),
		redis.Healthcheck(p.Redis),
	}
}

// Close releases the backing connections. The services become unusable
// afterwards.
func (p *Platform) Close() {
	_ = p.Redis.Close()
	p.DB.Close()
}
