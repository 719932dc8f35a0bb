package subscription

import (
	"context"
	"time"

	"github.com/dmitrymomot/saascore/pkg/cache"
)

// DefaultCatalogTTL bounds how stale a cached plan catalog can get. Plan
// changes land within this window without a restart.
const DefaultCatalogTTL = 5 * time.Minute

const catalogCacheKey = "catalog"

// cachedSource memoizes another PlansSource so the lifecycle service does
// not hit a remote catalog (file, database, billing API) on every
// operation.
type cachedSource struct {
	inner PlansSource
	cache *cache.TTLCache[string, map[string]Plan]
}

// NewCachedSource wraps a PlansSource with a TTL-bounded in-memory cache.
// A non-positive ttl falls back to DefaultCatalogTTL.
func NewCachedSource(inner PlansSource, ttl time.Duration) PlansSource {
	if inner == nil {
		panic("subscription: inner plans source is required")
	}
	if ttl <= 0 {
		ttl = DefaultCatalogTTL
	}
	return &cachedSource{
		inner: inner,
		cache: cache.NewTTLCache[string, map[string]Plan](1, ttl),
	}
}

func (s *cachedSource) Load(ctx context.Context) (map[string]Plan, error) {
	if plans, ok := s.cache.Get(catalogCacheKey); ok {
		return plans, nil
	}
	plans, err := s.inner.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Put(catalogCacheKey, plans)
	return plans, nil
}
