package task

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/on-the-ground/impure_go/action"
	"github.com/on-the-ground/impure_go/refiner"
	"go.uber.org/zap"
)

// RunType is the action type handled by Refiner.
const RunType = "task/run"

var ErrTaskPanicked = errors.New("task panicked")

// Run is the payload of RunType.
//
// Fn runs on its own goroutine. Its result is dispatched as a pure OnSuccess
// action, its error as a pure OnFailure action. An empty type skips the dispatch.
type Run struct {
	Fn        func(context.Context) (any, error)
	OnSuccess string
	OnFailure string
}

// RunAction builds an impure task action.
func RunAction(fn func(context.Context) (any, error), onSuccess, onFailure string) action.Action {
	return action.Impure(RunType, Run{Fn: fn, OnSuccess: onSuccess, OnFailure: onFailure})
}

// Supervisor tracks the goroutines started by a task refiner.
// Every task gets a child of the supervisor's context.
type Supervisor struct {
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewSupervisor(ctx context.Context, logger *zap.Logger) *Supervisor {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Supervisor{ctx: ctx, cancel: cancel, logger: logger}
}

// Wait stops accepting tasks and blocks until every spawned task has returned.
// Tasks requested while or after Wait runs do not start.
func (s *Supervisor) Wait() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.logger.Debug("waiting for all tasks to finish")
	s.wg.Wait()
	s.logger.Debug("all tasks finished")
}

// Cancel cancels the context of running tasks. Tasks requested afterwards do not start.
func (s *Supervisor) Cancel() {
	s.cancel()
}

// spawn adds to wg under mu so that no Add races a Wait on a zero counter.
func (s *Supervisor) spawn(fn func(context.Context)) bool {
	s.mu.Lock()
	if s.closed || s.ctx.Err() != nil {
		s.mu.Unlock()
		return false
	}
	s.wg.Add(1)
	s.mu.Unlock()

	ready := make(chan struct{})
	go func() {
		defer s.wg.Done()
		close(ready)
		fn(s.ctx)
	}()
	<-ready
	return true
}

// Refiner runs RunType actions on sv.
func Refiner[S any](sv *Supervisor) refiner.Refiner[S] {
	return refiner.Switch(refiner.Cases[S]{
		RunType: func(dispatch refiner.Dispatch, a action.Action, _ S) {
			run, err := action.PayloadOf[Run](a)
			if err != nil || run.Fn == nil {
				sv.logger.Warn("ignoring task action", zap.Any("payload", a.Payload), zap.Error(err))
				return
			}
			if ok := sv.spawn(func(ctx context.Context) {
				res, err := execute(ctx, run.Fn, sv.logger)
				switch {
				case err != nil && run.OnFailure != "":
					dispatch(action.New(run.OnFailure, err))
				case err == nil && run.OnSuccess != "":
					dispatch(action.New(run.OnSuccess, res))
				}
			}); !ok {
				sv.logger.Warn("supervisor closed, task not started",
					zap.String("onSuccess", run.OnSuccess),
				)
			}
		},
	})
}

func execute(ctx context.Context, fn func(context.Context) (any, error), logger *zap.Logger) (res any, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic in task", zap.Any("error", r))
			res = nil
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, r)
		}
	}()
	return fn(ctx)
}
