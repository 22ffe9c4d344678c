package log_test

import (
	"testing"

	"github.com/on-the-ground/impure_go/action"
	"github.com/on-the-ground/impure_go/middleware"
	"github.com/on-the-ground/impure_go/refiners/log"
	"github.com/on-the-ground/impure_go/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogRefiner_WritesByLevel(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	s := store.New[int](nil, 0, store.WithMiddleware(middleware.Refine(log.Refiner[int](zap.New(core)))))

	s.Dispatch(log.Emit(log.LogInfo, "info msg", map[string]any{"k": "v"}))
	s.Dispatch(log.Emit(log.LogWarn, "warn msg", nil))
	s.Dispatch(log.Emit(log.LogError, "error msg", nil))
	s.Dispatch(log.Emit(log.LogDebug, "debug msg", nil))
	s.Dispatch(log.Emit("loud", "unknown level", nil))

	entries := logs.All()
	require.Len(t, entries, 5)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "v", entries[0].ContextMap()["k"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, zapcore.DebugLevel, entries[3].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[4].Level)
	assert.Equal(t, "unknown level", entries[4].Message)
}

func TestLogRefiner_IgnoresOtherActions(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	s := store.New[int](nil, 0, store.WithMiddleware(middleware.Refine(log.Refiner[int](zap.New(core)))))

	s.Dispatch(action.Impure("other", nil))
	s.Dispatch(action.New(log.EmitType, "pure actions reach the reducer"))
	assert.Zero(t, logs.Len())

	s.Dispatch(action.Impure(log.EmitType, "not a payload"))
	assert.Equal(t, 1, logs.FilterMessage("ignoring log action").Len())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, log.ParseLevel("debug"))
	assert.Equal(t, zapcore.ErrorLevel, log.ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, log.ParseLevel("nonsense"))
}

func TestNewTestLogger(t *testing.T) {
	logger := log.NewTestLogger()
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}
