// Package redis connects the client behind overrides.NewCachedStore: hot
// setting, permission and entitlement reads go through a redis
// read-through cache with write invalidation, bounded by a TTL so plan
// changes surface promptly.
//
// Usage:
//
//	var cfg redis.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//	store := overrides.NewCachedStore(overrides.NewPostgresStore(pool), client, 0)
package redis
