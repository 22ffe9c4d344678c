// Package store is a minimal reducer store hosting a middleware chain.
//
// It exists so the refiner middleware has something to run in: state lives
// behind a read/write lock that is held only while the reducer runs or state
// is read. Middleware and refiners run outside the lock, so a refiner may
// dispatch re-entrantly, and timers or goroutines may dispatch concurrently.
package store

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/on-the-ground/impure_go/action"
	"github.com/on-the-ground/impure_go/middleware"
	"go.uber.org/zap"
)

// Reducer computes the next state. It must not dispatch.
type Reducer[S any] func(state S, a action.Action) S

// Listener is notified after a pure action has been reduced.
type Listener[S any] func(state S, a action.Action)

var ErrDispatchWhileConstructing = errors.New("dispatching while constructing middleware is not allowed")

var _ middleware.StoreAPI[any] = (*Store[any])(nil)

type Store[S any] struct {
	StoreId string

	mu      sync.RWMutex
	state   S
	reducer Reducer[S]

	dispatch middleware.Next

	listenersMu  sync.Mutex
	listeners    map[uint64]Listener[S]
	nextListener uint64

	logger *zap.Logger
}

type options[S any] struct {
	middlewares []middleware.Middleware[S]
	logger      *zap.Logger
}

type Option[S any] func(*options[S])

// WithMiddleware appends middlewares. The first one sees each action first.
func WithMiddleware[S any](mws ...middleware.Middleware[S]) Option[S] {
	return func(o *options[S]) {
		o.middlewares = append(o.middlewares, mws...)
	}
}

// WithLogger sets the store's logger. Defaults to a no-op logger.
func WithLogger[S any](logger *zap.Logger) Option[S] {
	return func(o *options[S]) {
		o.logger = logger
	}
}

// New creates a store. A nil reducer leaves state unchanged.
func New[S any](reducer Reducer[S], initial S, opts ...Option[S]) *Store[S] {
	o := options[S]{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if reducer == nil {
		reducer = func(state S, _ action.Action) S { return state }
	}

	s := &Store[S]{
		StoreId:   uuid.New().String(),
		state:     initial,
		reducer:   reducer,
		listeners: make(map[uint64]Listener[S]),
		logger:    o.logger,
	}

	s.dispatch = func(action.Action) any {
		panic(ErrDispatchWhileConstructing)
	}
	chain := middleware.Next(s.reduce)
	for i := len(o.middlewares) - 1; i >= 0; i-- {
		chain = o.middlewares[i](s)(chain)
	}
	s.dispatch = chain

	s.logger.Debug("created store",
		zap.String("storeId", s.StoreId),
		zap.Int("middlewares", len(o.middlewares)),
	)
	return s
}

// Dispatch runs a through the middleware chain and returns the chain's result.
// For actions reaching the reducer the result is the action itself.
func (s *Store[S]) Dispatch(a action.Action) any {
	return s.dispatch(a)
}

// GetState returns the current state snapshot.
func (s *Store[S]) GetState() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers l and returns a function removing it.
func (s *Store[S]) Subscribe(l Listener[S]) func() {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	id := s.nextListener
	s.nextListener++
	s.listeners[id] = l
	return func() {
		s.listenersMu.Lock()
		defer s.listenersMu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store[S]) reduce(a action.Action) any {
	s.mu.Lock()
	s.state = s.reducer(s.state, a)
	state := s.state
	s.mu.Unlock()

	s.listenersMu.Lock()
	listeners := make([]Listener[S], 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.listenersMu.Unlock()

	for _, l := range listeners {
		l(state, a)
	}
	return a
}
