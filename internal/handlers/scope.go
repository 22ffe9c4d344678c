package handlers

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/on-the-ground/impure_go/internal/model"
	"go.uber.org/zap"
)

var ErrScopeClosed = errors.New("worker scope is closed")

// Scope owns a set of workers and their lifetime.
//
// Submit is safe for concurrent use. A panic in handleFn is recovered and
// logged; the worker keeps running.
type Scope[T model.Partitionable] struct {
	ScopeId    string
	dispatcher WorkerDispatcher[T]
	ctx        context.Context
	cancel     context.CancelFunc
	closeOnce  sync.Once
	logger     *zap.Logger
}

// NewScope starts the workers described by config.
// One worker gets a single queue; more get a partitioned queue.
func NewScope[T model.Partitionable](
	ctx context.Context,
	config model.ScopeConfig,
	handleFn func(context.Context, T),
	logger *zap.Logger,
) *Scope[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	config = model.NewScopeConfig(config.BufferSize, config.NumWorkers)
	ctx, cancel := context.WithCancel(ctx)

	s := &Scope[T]{
		ScopeId: uuid.New().String(),
		ctx:     ctx,
		cancel:  cancel,
		logger:  logger,
	}
	safeFn := func(ctx context.Context, msg T) {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("panic in worker",
					zap.String("scopeId", s.ScopeId),
					zap.String("partitionKey", msg.PartitionKey()),
					zap.Any("error", r),
				)
			}
		}()
		handleFn(ctx, msg)
	}

	if config.NumWorkers == 1 {
		s.dispatcher = NewSingleQueue(ctx, config.BufferSize, safeFn)
	} else {
		s.dispatcher = NewPartitionedQueue(ctx, config.NumWorkers, config.BufferSize, safeFn)
	}

	logger.Debug("created worker scope",
		zap.String("scopeId", s.ScopeId),
		zap.Int("numWorkers", config.NumWorkers),
		zap.Int("bufferSize", config.BufferSize),
	)
	return s
}

// Submit enqueues msg, blocking while the worker's buffer is full.
func (s *Scope[T]) Submit(ctx context.Context, msg T) error {
	if s.ctx.Err() != nil {
		return ErrScopeClosed
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ctx.Done():
		return ErrScopeClosed
	case s.dispatcher.GetChannelOf(msg) <- msg:
		return nil
	}
}

// Close stops the workers and waits for them. Queued messages are dropped.
func (s *Scope[T]) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.dispatcher.Wait()
		s.logger.Debug("closed worker scope", zap.String("scopeId", s.ScopeId))
	})
}
