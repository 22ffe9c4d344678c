package refiner

import "github.com/on-the-ground/impure_go/action"

// Wrap builds the impure wrapper action carrying inner as its payload.
func Wrap(wrapperType string, inner action.Action) action.Action {
	return action.Impure(wrapperType, inner)
}

// Unwrap extracts the child action carried by a wrapper action.
func Unwrap(a action.Action) (action.Action, bool) {
	switch inner := a.Payload.(type) {
	case action.Action:
		return inner, true
	case *action.Action:
		if inner != nil {
			return *inner, true
		}
	}
	return action.Action{}, false
}

// Lift adapts a child refiner to the parent state.
//
// The returned refiner treats the action payload as the child action, recomputes
// the child's state with selectFn and calls the child with it. A payload that is
// not an action is ignored.
func Lift[P, C any](selectFn func(P) C, child Refiner[C]) Refiner[P] {
	return func(dispatch Dispatch, a action.Action, state P) {
		inner, ok := Unwrap(a)
		if !ok || child == nil {
			return
		}
		child(dispatch, inner, selectFn(state))
	}
}

// Nest routes actions of wrapperType to child, lifted to the parent state.
func Nest[P, C any](wrapperType string, selectFn func(P) C, child Refiner[C]) Refiner[P] {
	return Switch(Cases[P]{wrapperType: Lift(selectFn, child)})
}

// Scoped is Nest where impure actions dispatched by the child are wrapped in
// wrapperType again, so they are routed back to the same child.
// Pure actions dispatched by the child reach the reducers unchanged.
func Scoped[P, C any](wrapperType string, selectFn func(P) C, child Refiner[C]) Refiner[P] {
	lifted := Lift(selectFn, child)
	return Switch(Cases[P]{
		wrapperType: func(dispatch Dispatch, a action.Action, state P) {
			lifted(MapDispatch(dispatch, func(inner action.Action) action.Action {
				if inner.IsImpure() {
					return Wrap(wrapperType, inner)
				}
				return inner
			}), a, state)
		},
	})
}

// MapDispatch returns a dispatch that transforms each action before forwarding it.
func MapDispatch(dispatch Dispatch, fn func(action.Action) action.Action) Dispatch {
	return func(a action.Action) any {
		return dispatch(fn(a))
	}
}
