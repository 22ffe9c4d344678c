// Package async runs a refiner on background workers instead of the
// dispatching goroutine.
//
// The returned refiner only enqueues: the store's dispatch call returns as soon
// as the action is queued, and the child refiner runs later on a worker. Actions
// of the same type are handled by the same worker, in dispatch order.
package async

import (
	"context"

	"github.com/on-the-ground/impure_go/action"
	"github.com/on-the-ground/impure_go/internal/handlers"
	"github.com/on-the-ground/impure_go/internal/model"
	"github.com/on-the-ground/impure_go/refiner"
	"go.uber.org/zap"
)

type job[S any] struct {
	dispatch refiner.Dispatch
	action   action.Action
	state    S
}

func (j job[S]) PartitionKey() string {
	return j.action.Type
}

// Refiner wraps child so it runs on bufferSize/numWorkers background workers.
// The returned teardown stops the workers; actions still queued are dropped.
func Refiner[S any](
	ctx context.Context,
	bufferSize, numWorkers int,
	child refiner.Refiner[S],
	logger *zap.Logger,
) (refiner.Refiner[S], func()) {
	if logger == nil {
		logger = zap.NewNop()
	}
	scope := handlers.NewScope(
		ctx,
		model.NewScopeConfig(bufferSize, numWorkers),
		func(_ context.Context, j job[S]) {
			child(j.dispatch, j.action, j.state)
		},
		logger,
	)

	return func(dispatch refiner.Dispatch, a action.Action, state S) {
		if err := scope.Submit(ctx, job[S]{dispatch: dispatch, action: a, state: state}); err != nil {
			logger.Warn("async refiner dropped action",
				zap.String("scopeId", scope.ScopeId),
				zap.String("type", a.Type),
				zap.Error(err),
			)
		}
	}, scope.Close
}
