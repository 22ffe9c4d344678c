// Package timer provides a refiner that re-dispatches actions after a delay.
//
//	timers := timer.NewTimers(logger)
//	defer timers.Stop()
//
//	root := refiner.Combine(timer.Refiner[State](timers), appRefiner)
//	store.Dispatch(timer.AfterAction(time.Second, action.New("tick", nil)))
//
// Scheduling a timer with the ID of a pending one replaces it.
package timer

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/on-the-ground/impure_go/action"
	"github.com/on-the-ground/impure_go/refiner"
	"go.uber.org/zap"
)

const (
	AfterType  = "timer/after"
	CancelType = "timer/cancel"
)

// After is the payload of AfterType.
type After struct {
	ID    string
	Delay time.Duration
	Then  action.Action
}

// AfterAction schedules then under a fresh ID.
func AfterAction(delay time.Duration, then action.Action) action.Action {
	return AfterActionWithID(uuid.New().String(), delay, then)
}

// AfterActionWithID schedules then under id. An empty id gets a fresh one.
func AfterActionWithID(id string, delay time.Duration, then action.Action) action.Action {
	return action.Impure(AfterType, After{ID: id, Delay: delay, Then: then})
}

// CancelAction cancels the pending timer id, if any.
func CancelAction(id string) action.Action {
	return action.Impure(CancelType, id)
}

type pendingTimer struct {
	timer *time.Timer
}

// Timers tracks the timers scheduled by a refiner.
type Timers struct {
	mu      sync.Mutex
	pending map[string]*pendingTimer
	logger  *zap.Logger
}

func NewTimers(logger *zap.Logger) *Timers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Timers{
		pending: make(map[string]*pendingTimer),
		logger:  logger,
	}
}

// Pending returns the number of timers not yet fired or cancelled.
func (t *Timers) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

// Stop cancels every pending timer.
func (t *Timers) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, p := range t.pending {
		p.timer.Stop()
		delete(t.pending, id)
	}
}

// Refiner handles AfterType and CancelType; other types are ignored.
func Refiner[S any](t *Timers) refiner.Refiner[S] {
	return refiner.Switch(refiner.Cases[S]{
		AfterType: func(dispatch refiner.Dispatch, a action.Action, _ S) {
			after, err := action.PayloadOf[After](a)
			if err != nil {
				t.logger.Warn("ignoring timer action", zap.Error(err))
				return
			}
			t.schedule(dispatch, after)
		},
		CancelType: func(_ refiner.Dispatch, a action.Action, _ S) {
			id, err := action.PayloadOf[string](a)
			if err != nil {
				t.logger.Warn("ignoring timer action", zap.Error(err))
				return
			}
			t.cancel(id)
		},
	})
}

func (t *Timers) schedule(dispatch refiner.Dispatch, after After) {
	if after.ID == "" {
		after.ID = uuid.New().String()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if old, ok := t.pending[after.ID]; ok {
		old.timer.Stop()
	}
	p := &pendingTimer{}
	p.timer = time.AfterFunc(after.Delay, func() {
		t.mu.Lock()
		if t.pending[after.ID] != p {
			t.mu.Unlock()
			return
		}
		delete(t.pending, after.ID)
		t.mu.Unlock()

		dispatch(after.Then)
	})
	t.pending[after.ID] = p

	t.logger.Debug("scheduled timer",
		zap.String("id", after.ID),
		zap.Duration("delay", after.Delay),
		zap.String("then", after.Then.Type),
	)
}

func (t *Timers) cancel(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if p, ok := t.pending[id]; ok {
		p.timer.Stop()
		delete(t.pending, id)
	}
}
