package overrides

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// absentMarker is cached for a miss so repeated lookups of unset overrides
// don't hit the inner store on every request. The NUL prefix cannot occur
// in a stored value, which is plain text.
const absentMarker = "\x00absent"

// DefaultCacheTTL bounds staleness of cached reads. Billing-relevant values
// must never be cached indefinitely, so a zero TTL is replaced with this.
const DefaultCacheTTL = 5 * time.Minute

// cachedStore is a redis read-through cache around another Store.
// Writes go to the inner store first, then invalidate the cache key, so a
// concurrent reader sees either the old or the new value but never a value
// the inner store does not hold.
type cachedStore struct {
	inner Store
	rdb   *redis.Client
	ttl   time.Duration
}

// NewCachedStore wraps inner with a redis read-through cache. Panics if
// inner or rdb is nil. A non-positive ttl defaults to DefaultCacheTTL.
func NewCachedStore(inner Store, rdb *redis.Client, ttl time.Duration) Store {
	if inner == nil {
		panic("overrides: inner store is required")
	}
	if rdb == nil {
		panic("overrides: redis client is required")
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &cachedStore{inner: inner, rdb: rdb, ttl: ttl}
}

func cacheKey(name string, scope Scope, scopeKey string) string {
	return fmt.Sprintf("overrides:%s:%s:%s", scope, scopeKey, name)
}

func (s *cachedStore) GetOrNull(ctx context.Context, name string, scope Scope, scopeKey string) (*Record, error) {
	if err := validateKey(name, scope, scopeKey); err != nil {
		return nil, err
	}

	key := cacheKey(name, scope, scopeKey)

	cached, err := s.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		if cached == absentMarker {
			return nil, nil
		}
		// Cache holds the value only; UpdatedAt is not preserved across the
		// cache boundary and reads as zero.
		return &Record{Name: name, Scope: scope, ScopeKey: scopeKey, Value: cached}, nil
	case !errors.Is(err, redis.Nil):
		// Degrade to the inner store rather than failing reads on cache
		// outage. Resolution tolerates eventual consistency, not downtime.
		return s.inner.GetOrNull(ctx, name, scope, scopeKey)
	}

	rec, err := s.inner.GetOrNull(ctx, name, scope, scopeKey)
	if err != nil {
		return nil, err
	}

	cacheValue := absentMarker
	if rec != nil {
		cacheValue = rec.Value
	}
	// Best effort: a failed cache fill only costs the next read a trip to
	// the inner store.
	_ = s.rdb.Set(ctx, key, cacheValue, s.ttl).Err()

	return rec, nil
}

func (s *cachedStore) Set(ctx context.Context, name, value string, scope Scope, scopeKey string) error {
	if err := s.inner.Set(ctx, name, value, scope, scopeKey); err != nil {
		return err
	}
	if err := s.rdb.Del(ctx, cacheKey(name, scope, scopeKey)).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func (s *cachedStore) Delete(ctx context.Context, name string, scope Scope, scopeKey string) error {
	if err := s.inner.Delete(ctx, name, scope, scopeKey); err != nil {
		return err
	}
	if err := s.rdb.Del(ctx, cacheKey(name, scope, scopeKey)).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// GetAll always reads through to the inner store. Listing is an admin-UI
// path and not worth the invalidation complexity of caching whole scopes.
func (s *cachedStore) GetAll(ctx context.Context, scope Scope, scopeKey string) (map[string]string, error) {
	return s.inner.GetAll(ctx, scope, scopeKey)
}
