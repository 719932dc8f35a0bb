package subscription_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/saascore/pkg/subscription"
)

const catalogYAML = `
plans:
  - id: starter
    name: Starter
    cycle: monthly
    price: 29
    currency: USD
    trial_days: 14
    grace_period_days: 3
    public: true
    features:
      max_projects: "10"
  - id: scale
    name: Scale
    cycle: yearly
    price: 990
    currency: USD
`

func TestYAMLSource(t *testing.T) {
	t.Parallel()

	plans, err := subscription.NewYAMLSource([]byte(catalogYAML)).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 2)

	starter := plans["starter"]
	assert.Equal(t, "Starter", starter.Name)
	assert.Equal(t, subscription.CycleMonthly, starter.Cycle)
	assert.Equal(t, 29.0, starter.Price)
	assert.Equal(t, 14, starter.TrialDays)
	assert.Equal(t, 3, starter.GracePeriodDays)
	assert.True(t, starter.Public)
	assert.Equal(t, "10", starter.Features["max_projects"])

	scale := plans["scale"]
	assert.Equal(t, subscription.CycleYearly, scale.Cycle)
	assert.False(t, scale.Public)
}

func TestYAMLSourceMalformed(t *testing.T) {
	t.Parallel()

	_, err := subscription.NewYAMLSource([]byte("plans: {nope")).Load(context.Background())
	assert.ErrorIs(t, err, subscription.ErrFailedToLoadPlans)
}

func TestYAMLFileSource(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "plans.yaml")
	require.NoError(t, os.WriteFile(path, []byte(catalogYAML), 0o600))

	plans, err := subscription.NewYAMLFileSource(path).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, plans, 2)

	_, err = subscription.NewYAMLFileSource(filepath.Join(t.TempDir(), "missing.yaml")).Load(context.Background())
	assert.ErrorIs(t, err, subscription.ErrFailedToLoadPlans)
}

func TestServiceRejectsInvalidCatalog(t *testing.T) {
	t.Parallel()

	bad := subscription.NewYAMLSource([]byte(`
plans:
  - id: broken
    name: Broken
    cycle: fortnightly
    price: 10
`))
	svc := subscription.NewService(subscription.NewMemoryStore(), bad)

	_, err := svc.PublicPlans(context.Background())
	assert.ErrorIs(t, err, subscription.ErrInvalidPlanConfiguration)
}
