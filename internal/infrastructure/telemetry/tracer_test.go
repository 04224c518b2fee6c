package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/praktis/backend/internal/infrastructure/config"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), config.TelemetryConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())

	// No-op provider still hands out usable tracers.
	tracer := tp.Tracer("test")
	assert.NotNil(t, tracer)

	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestRegisterDBTracing(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	t.Run("disabled is a no-op", func(t *testing.T) {
		err := RegisterDBTracing(db, config.TelemetryConfig{Enabled: false}, zap.NewNop())
		assert.NoError(t, err)
	})

	t.Run("enabled registers plugin", func(t *testing.T) {
		cfg := config.TelemetryConfig{Enabled: true, DBTraceEnabled: true}
		err := RegisterDBTracing(db, cfg, zap.NewNop())
		assert.NoError(t, err)
	})
}
