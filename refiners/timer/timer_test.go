package timer_test

import (
	"testing"
	"time"

	"github.com/on-the-ground/impure_go/action"
	"github.com/on-the-ground/impure_go/middleware"
	"github.com/on-the-ground/impure_go/refiners/timer"
	"github.com/on-the-ground/impure_go/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(timers *timer.Timers) (*store.Store[int], <-chan action.Action) {
	reduced := make(chan action.Action, 10)
	s := store.New(func(state int, a action.Action) int {
		if a.Type == "tick" {
			return state + 1
		}
		return state
	}, 0, store.WithMiddleware(middleware.Refine(timer.Refiner[int](timers))))
	s.Subscribe(func(_ int, a action.Action) {
		reduced <- a
	})
	return s, reduced
}

func TestTimer_DispatchesAfterDelay(t *testing.T) {
	timers := timer.NewTimers(nil)
	defer timers.Stop()
	s, reduced := newStore(timers)

	start := time.Now()
	s.Dispatch(timer.AfterAction(50*time.Millisecond, action.New("tick", nil)))

	// dispatch returns before the timer fires
	assert.Equal(t, 0, s.GetState())
	assert.Equal(t, 1, timers.Pending())

	select {
	case a := <-reduced:
		assert.Equal(t, "tick", a.Type)
		assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}
	assert.Equal(t, 1, s.GetState())
	assert.Equal(t, 0, timers.Pending())
}

func TestTimer_CancelPreventsDispatch(t *testing.T) {
	timers := timer.NewTimers(nil)
	defer timers.Stop()
	s, reduced := newStore(timers)

	s.Dispatch(timer.AfterActionWithID("t1", 50*time.Millisecond, action.New("tick", nil)))
	s.Dispatch(timer.CancelAction("t1"))
	s.Dispatch(timer.CancelAction("unknown"))

	assert.Equal(t, 0, timers.Pending())
	select {
	case a := <-reduced:
		t.Fatalf("unexpected dispatch of %s", a.Type)
	case <-time.After(150 * time.Millisecond):
	}
	assert.Equal(t, 0, s.GetState())
}

func TestTimer_SameIDReplacesPending(t *testing.T) {
	timers := timer.NewTimers(nil)
	defer timers.Stop()
	s, reduced := newStore(timers)

	s.Dispatch(timer.AfterActionWithID("debounce", 30*time.Millisecond, action.New("tick", nil)))
	s.Dispatch(timer.AfterActionWithID("debounce", 60*time.Millisecond, action.New("tick", nil)))
	require.Equal(t, 1, timers.Pending())

	select {
	case <-reduced:
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}
	select {
	case <-reduced:
		t.Fatal("replaced timer fired")
	case <-time.After(100 * time.Millisecond):
	}
	assert.Equal(t, 1, s.GetState())
}

func TestTimer_StopCancelsAll(t *testing.T) {
	timers := timer.NewTimers(nil)
	s, reduced := newStore(timers)

	s.Dispatch(timer.AfterAction(30*time.Millisecond, action.New("tick", nil)))
	s.Dispatch(timer.AfterAction(30*time.Millisecond, action.New("tick", nil)))
	timers.Stop()

	assert.Equal(t, 0, timers.Pending())
	select {
	case <-reduced:
		t.Fatal("stopped timer fired")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestTimer_IgnoresMalformedPayload(t *testing.T) {
	timers := timer.NewTimers(nil)
	s, _ := newStore(timers)

	assert.NotPanics(t, func() {
		s.Dispatch(action.Impure(timer.AfterType, "soon"))
		s.Dispatch(action.Impure(timer.CancelType, 3))
	})
	assert.Equal(t, 0, timers.Pending())
}

func TestTimer_EmptyIDGetsFreshID(t *testing.T) {
	timers := timer.NewTimers(nil)
	defer timers.Stop()
	s, _ := newStore(timers)

	s.Dispatch(timer.AfterActionWithID("", time.Hour, action.New("tick", nil)))
	s.Dispatch(timer.AfterActionWithID("", time.Hour, action.New("tick", nil)))
	s.Dispatch(action.Impure(timer.AfterType, timer.After{Delay: time.Hour, Then: action.New("tick", nil)}))

	assert.Equal(t, 3, timers.Pending())
}
