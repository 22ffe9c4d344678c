package middleware_test

import (
	"testing"

	"github.com/on-the-ground/impure_go/action"
	"github.com/on-the-ground/impure_go/middleware"
	"github.com/on-the-ground/impure_go/refiner"
	"github.com/on-the-ground/impure_go/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_LogsPureAndImpureDispatches(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	root := refiner.Switch(refiner.Cases[int]{
		"double": func(d refiner.Dispatch, _ action.Action, state int) {
			d(action.New("add", state))
		},
	})
	s := store.New(counter, 3, store.WithMiddleware(
		middleware.Logger[int](logger),
		middleware.Refine(root),
	))

	s.Dispatch(action.Impure("double", nil))
	assert.Equal(t, 6, s.GetState())

	entries := logs.FilterMessage("dispatched").All()
	require.Len(t, entries, 2)

	// the nested pure dispatch finishes first
	assert.Equal(t, "add", entries[0].ContextMap()["type"])
	assert.Equal(t, false, entries[0].ContextMap()["impure"])
	assert.Equal(t, "double", entries[1].ContextMap()["type"])
	assert.Equal(t, true, entries[1].ContextMap()["impure"])
}

func TestLogger_NilLoggerIsNop(t *testing.T) {
	s := store.New(counter, 0, store.WithMiddleware(middleware.Logger[int](nil)))

	assert.NotPanics(t, func() {
		s.Dispatch(action.New("inc", nil))
	})
	assert.Equal(t, 1, s.GetState())
}
