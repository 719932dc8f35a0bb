package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/saascore/pkg/logger"
)

func TestGroup(t *testing.T) {
	attr := logger.Group("tenant", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, "tenant", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "id", g[0].Key)
	assert.Equal(t, "n", g[1].Key)
}

func TestError(t *testing.T) {
	assert.Equal(t, slog.Attr{}, logger.Error(nil))

	attr := logger.Error(errors.New("boom"))
	assert.Equal(t, "error", attr.Key)
}

func TestErrors(t *testing.T) {
	assert.Equal(t, slog.Attr{}, logger.Errors(nil, nil))

	attr := logger.Errors(errors.New("first"), nil, errors.New("second"))
	require.Equal(t, "errors", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	assert.Len(t, attr.Value.Group(), 2)
}

func TestDomainAttrs(t *testing.T) {
	id := uuid.New()

	tenant := logger.TenantID(id)
	assert.Equal(t, "tenant_id", tenant.Key)
	assert.Equal(t, id.String(), tenant.Value.String())

	sub := logger.SubscriptionID(id)
	assert.Equal(t, "subscription_id", sub.Key)

	plan := logger.PlanID("pro")
	assert.Equal(t, "plan_id", plan.Key)
	assert.Equal(t, "pro", plan.Value.String())

	feature := logger.Feature("api_requests")
	assert.Equal(t, "feature", feature.Key)

	month := logger.Month(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "month", month.Key)
	assert.Equal(t, "2025-07", month.Value.String())
}
