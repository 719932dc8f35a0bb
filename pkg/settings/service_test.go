package settings_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/saascore/pkg/clock"
	"github.com/dmitrymomot/saascore/pkg/overrides"
	"github.com/dmitrymomot/saascore/pkg/settings"
)

func newTestService(t *testing.T) settings.Service {
	t.Helper()

	registry := settings.MustNewRegistry(
		settings.Definition{Name: "theme", Default: "light"},
		settings.Definition{Name: "beta_ui", Default: "false", Type: settings.TypeBool},
		settings.Definition{Name: "page_size", Default: "25", Type: settings.TypeInt},
	)
	return settings.NewService(registry, overrides.NewMemoryStore(clock.System()))
}

func TestServiceGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()
	tenantID := uuid.New()
	rctx := settings.ResolveContext{UserID: &userID, TenantID: &tenantID}

	t.Run("definition default when nothing set", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(t)
		value, err := svc.Get(ctx, "theme", rctx)
		require.NoError(t, err)
		assert.Equal(t, "light", value)
	})

	t.Run("precedence user over tenant over global", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(t)
		require.NoError(t, svc.SetGlobal(ctx, "theme", "global"))

		value, err := svc.Get(ctx, "theme", rctx)
		require.NoError(t, err)
		assert.Equal(t, "global", value)

		require.NoError(t, svc.SetForTenant(ctx, "theme", "tenant", tenantID))
		value, err = svc.Get(ctx, "theme", rctx)
		require.NoError(t, err)
		assert.Equal(t, "tenant", value)

		require.NoError(t, svc.SetForUser(ctx, "theme", "user", userID))
		value, err = svc.Get(ctx, "theme", rctx)
		require.NoError(t, err)
		assert.Equal(t, "user", value)
	})

	t.Run("user override survives tenant delete", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(t)
		require.NoError(t, svc.SetForUser(ctx, "theme", "user", userID))
		require.NoError(t, svc.SetForTenant(ctx, "theme", "tenant", tenantID))
		require.NoError(t, svc.DeleteForTenant(ctx, "theme", tenantID))

		value, err := svc.Get(ctx, "theme", rctx)
		require.NoError(t, err)
		assert.Equal(t, "user", value)
	})

	t.Run("context without user skips user scope", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(t)
		require.NoError(t, svc.SetForUser(ctx, "theme", "user", userID))
		require.NoError(t, svc.SetForTenant(ctx, "theme", "tenant", tenantID))

		value, err := svc.Get(ctx, "theme", settings.ResolveContext{TenantID: &tenantID})
		require.NoError(t, err)
		assert.Equal(t, "tenant", value)
	})

	t.Run("undefined setting fails with not configured", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(t)
		_, err := svc.Get(ctx, "nonexistent", rctx)
		assert.ErrorIs(t, err, settings.ErrNotConfigured)
	})

	t.Run("override without definition still resolves", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(t)
		require.NoError(t, svc.SetGlobal(ctx, "undeclared", "surprise"))

		value, err := svc.Get(ctx, "undeclared", rctx)
		require.NoError(t, err)
		assert.Equal(t, "surprise", value)
	})
}

func TestServiceGetOrNull(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestService(t)

	value, err := svc.GetOrNull(ctx, "nonexistent", settings.ResolveContext{})
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestServiceTypedGetters(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	rctx := settings.ResolveContext{}

	t.Run("bool", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(t)
		enabled, err := svc.GetBool(ctx, "beta_ui", rctx)
		require.NoError(t, err)
		assert.False(t, enabled)

		require.NoError(t, svc.SetGlobal(ctx, "beta_ui", "true"))
		enabled, err = svc.GetBool(ctx, "beta_ui", rctx)
		require.NoError(t, err)
		assert.True(t, enabled)
	})

	t.Run("int", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(t)
		size, err := svc.GetInt(ctx, "page_size", rctx)
		require.NoError(t, err)
		assert.Equal(t, 25, size)
	})

	t.Run("malformed value", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(t)
		require.NoError(t, svc.SetGlobal(ctx, "page_size", "many"))

		_, err := svc.GetInt(ctx, "page_size", rctx)
		assert.ErrorIs(t, err, settings.ErrInvalidValueType)
	})
}

func TestServiceAll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tenantID := uuid.New()
	svc := newTestService(t)

	require.NoError(t, svc.SetForTenant(ctx, "theme", "solarized", tenantID))

	all, err := svc.All(ctx, settings.ResolveContext{TenantID: &tenantID})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"theme":     "solarized",
		"beta_ui":   "false",
		"page_size": "25",
	}, all)
}

func TestRegistryDuplicate(t *testing.T) {
	t.Parallel()

	_, err := settings.NewRegistry(
		settings.Definition{Name: "theme", Default: "light"},
		settings.Definition{Name: "theme", Default: "dark"},
	)
	assert.ErrorIs(t, err, settings.ErrDuplicateDefinition)
}
