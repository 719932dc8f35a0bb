package overrides_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/saascore/pkg/clock"
	"github.com/dmitrymomot/saascore/pkg/overrides"
)

func TestMemoryStoreGetOrNull(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := overrides.NewMemoryStore(clock.System())

	t.Run("absent returns nil without error", func(t *testing.T) {
		t.Parallel()

		rec, err := store.GetOrNull(ctx, "theme", overrides.ScopeUser, "u1")
		require.NoError(t, err)
		assert.Nil(t, rec)
	})

	t.Run("set then get", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, store.Set(ctx, "theme", "dark", overrides.ScopeUser, "u2"))

		rec, err := store.GetOrNull(ctx, "theme", overrides.ScopeUser, "u2")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, "dark", rec.Value)
	})

	t.Run("scopes are isolated", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, store.Set(ctx, "lang", "de", overrides.ScopeTenant, "t1"))

		rec, err := store.GetOrNull(ctx, "lang", overrides.ScopeUser, "t1")
		require.NoError(t, err)
		assert.Nil(t, rec)
	})
}

func TestMemoryStoreSetIsIdempotentUpsert(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fixed := clock.NewFixed(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	store := overrides.NewMemoryStore(fixed)

	require.NoError(t, store.Set(ctx, "theme", "dark", overrides.ScopeGlobal, ""))
	first, err := store.GetAll(ctx, overrides.ScopeGlobal, "")
	require.NoError(t, err)

	fixed.Advance(time.Hour)
	require.NoError(t, store.Set(ctx, "theme", "dark", overrides.ScopeGlobal, ""))

	second, err := store.GetAll(ctx, overrides.ScopeGlobal, "")
	require.NoError(t, err)
	assert.Equal(t, first["theme"], second["theme"], "re-setting the same value stays a single record")
}

func TestMemoryStoreDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := overrides.NewMemoryStore(clock.System())

	require.NoError(t, store.Set(ctx, "theme", "dark", overrides.ScopeTenant, "t1"))
	require.NoError(t, store.Delete(ctx, "theme", overrides.ScopeTenant, "t1"))

	rec, err := store.GetOrNull(ctx, "theme", overrides.ScopeTenant, "t1")
	require.NoError(t, err)
	assert.Nil(t, rec)

	// Deleting an absent record is not an error.
	require.NoError(t, store.Delete(ctx, "theme", overrides.ScopeTenant, "t1"))
}

func TestMemoryStoreValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := overrides.NewMemoryStore(clock.System())

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()

		_, err := store.GetOrNull(ctx, "", overrides.ScopeGlobal, "")
		assert.ErrorIs(t, err, overrides.ErrEmptyName)
	})

	t.Run("unknown scope", func(t *testing.T) {
		t.Parallel()

		err := store.Set(ctx, "theme", "dark", overrides.Scope("bogus"), "k")
		assert.ErrorIs(t, err, overrides.ErrInvalidScope)
	})

	t.Run("scoped lookup without key", func(t *testing.T) {
		t.Parallel()

		_, err := store.GetOrNull(ctx, "theme", overrides.ScopeUser, "")
		assert.ErrorIs(t, err, overrides.ErrMissingScopeKey)
	})

	t.Run("global scope allows empty key", func(t *testing.T) {
		t.Parallel()

		_, err := store.GetOrNull(ctx, "theme", overrides.ScopeGlobal, "")
		assert.NoError(t, err)
	})
}
