package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/saascore/pkg/config"
)

type envFileConfig struct {
	CatalogPath    string   `env:"CATALOG_PATH"`
	CatalogTTL     string   `env:"CATALOG_TTL"`
	SweepInterval  string   `env:"SWEEP_INTERVAL"`
	AlertThreshold float64  `env:"USAGE_ALERT_THRESHOLD"`
	EmptyValue     string   `env:"EMPTY_VALUE"`
	QuotedName     string   `env:"QUOTED_NAME"`
	Features       []string `env:"FEATURE_LIST" envSeparator:","`
	Region         string   `env:"REGION"`
}

func clearEnvFileVars() {
	for _, key := range []string{
		"CATALOG_PATH", "CATALOG_TTL", "SWEEP_INTERVAL",
		"USAGE_ALERT_THRESHOLD", "EMPTY_VALUE", "QUOTED_NAME",
		"FEATURE_LIST", "REGION",
	} {
		os.Unsetenv(key)
	}
}

func TestLoadEnv(t *testing.T) {
	t.Run("single file", func(t *testing.T) {
		clearEnvFileVars()
		config.ResetCache()

		require.NoError(t, config.LoadEnv("testdata/.env.custom"))

		var cfg envFileConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "plans/catalog.yaml", cfg.CatalogPath)
		assert.Equal(t, "10m", cfg.CatalogTTL)
		assert.Equal(t, "1h", cfg.SweepInterval)
		assert.InDelta(t, 0.8, cfg.AlertThreshold, 1e-9)
		assert.Empty(t, cfg.EmptyValue)
		assert.Equal(t, "Acme Billing", cfg.QuotedName)
		assert.Equal(t, []string{"api", "exports", "webhooks"}, cfg.Features)
	})

	t.Run("later files override earlier ones", func(t *testing.T) {
		clearEnvFileVars()
		config.ResetCache()

		require.NoError(t, config.LoadEnv("testdata/.env.custom", "testdata/.env.override"))

		var cfg envFileConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "30m", cfg.CatalogTTL)
		assert.InDelta(t, 0.9, cfg.AlertThreshold, 1e-9)
		assert.Equal(t, "eu-west-1", cfg.Region)
		// Values absent from the override file keep the earlier layer.
		assert.Equal(t, "plans/catalog.yaml", cfg.CatalogPath)
	})

	t.Run("missing file", func(t *testing.T) {
		err := config.LoadEnv("testdata/.env.missing")
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrEnvFileFailed)
	})
}

func TestMustLoadEnv(t *testing.T) {
	assert.NotPanics(t, func() {
		config.MustLoadEnv("testdata/.env.custom")
	})
	assert.Panics(t, func() {
		config.MustLoadEnv("testdata/.env.missing")
	})
}
