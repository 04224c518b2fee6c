package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("WARN"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestID(ctx))
	assert.Empty(t, ActorID(ctx))

	ctx = WithRequestID(ctx, "req-1")
	ctx = WithActorID(ctx, "user-1")
	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Equal(t, "user-1", ActorID(ctx))
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("info"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel(""))
}

func TestNewDoesNotPanic(t *testing.T) {
	log := New("info", "json", "stdout")
	assert.NotNil(t, log)
	log = NewForEnvironment("production")
	assert.NotNil(t, log)
}
