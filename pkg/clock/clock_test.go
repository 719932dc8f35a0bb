package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/saascore/pkg/clock"
)

func TestSystem(t *testing.T) {
	t.Parallel()

	now := clock.System().Now()
	assert.Equal(t, time.UTC, now.Location())
	assert.WithinDuration(t, time.Now(), now, time.Second)
}

func TestFixed(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	fixed := clock.NewFixed(start)
	assert.Equal(t, start, fixed.Now())
	assert.Equal(t, start, fixed.Now(), "does not tick on its own")

	fixed.Advance(72 * time.Hour)
	assert.Equal(t, start.Add(72*time.Hour), fixed.Now())

	other := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	fixed.Set(other)
	assert.Equal(t, other, fixed.Now())
}
