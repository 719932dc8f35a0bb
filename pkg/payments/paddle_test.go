package payments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/saascore/pkg/clock"
)

func validPaddleConfig() PaddleConfig {
	return PaddleConfig{
		APIKey:        "pdl_test_key",
		WebhookSecret: "pdl_test_secret",
		Environment:   "sandbox",
	}
}

func TestNewPaddleGateway(t *testing.T) {
	t.Parallel()

	t.Run("rejects missing API key", func(t *testing.T) {
		t.Parallel()

		config := validPaddleConfig()
		config.APIKey = ""
		_, err := NewPaddleGateway(config)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("rejects missing webhook secret", func(t *testing.T) {
		t.Parallel()

		config := validPaddleConfig()
		config.WebhookSecret = ""
		_, err := NewPaddleGateway(config)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("rejects unknown environment", func(t *testing.T) {
		t.Parallel()

		config := validPaddleConfig()
		config.Environment = "staging"
		_, err := NewPaddleGateway(config)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("defaults to the system clock", func(t *testing.T) {
		t.Parallel()

		gateway, err := NewPaddleGateway(validPaddleConfig())
		require.NoError(t, err)
		assert.Equal(t, clock.System(), gateway.clock)
	})

	t.Run("clock option pins the time source", func(t *testing.T) {
		t.Parallel()

		fixed := clock.NewFixed(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
		gateway, err := NewPaddleGateway(validPaddleConfig(), WithPaddleClock(fixed))
		require.NoError(t, err)
		assert.Equal(t, fixed.Now(), gateway.clock.Now())
	})

	t.Run("nil clock keeps the default", func(t *testing.T) {
		t.Parallel()

		gateway, err := NewPaddleGateway(validPaddleConfig(), WithPaddleClock(nil))
		require.NoError(t, err)
		assert.Equal(t, clock.System(), gateway.clock)
	})
}
