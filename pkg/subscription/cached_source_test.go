package subscription_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/saascore/pkg/subscription"
)

type countingSource struct {
	inner subscription.PlansSource
	loads atomic.Int64
}

func (s *countingSource) Load(ctx context.Context) (map[string]subscription.Plan, error) {
	s.loads.Add(1)
	return s.inner.Load(ctx)
}

func TestCachedSource(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	counting := &countingSource{inner: testPlans()}
	cached := subscription.NewCachedSource(counting, time.Hour)

	first, err := cached.Load(ctx)
	require.NoError(t, err)
	require.Contains(t, first, "pro")

	second, err := cached.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), counting.loads.Load(), "second load is served from cache")
}
