// Package refiner defines the refiner contract and the helpers that compose
// refiners the same way reducers are composed.
//
// A refiner is the impure counterpart of a reducer:
//
//	reducer: func(state S, a action.Action) S
//	refiner: func(dispatch Dispatch, a action.Action, state S)
//
// It receives the store's dispatch first and the current state last, and it
// returns nothing: a refiner never replaces state. It reacts to an impure
// action by performing a side effect and, usually, dispatching further actions.
// The dispatch handle may be captured and called later, for example from a
// timer callback.
//
// # Matching by type
//
// Inside a refiner, routing by action type is modelled as a map from type tag
// to handler with a silent default:
//
//	root := refiner.Switch(refiner.Cases[State]{
//	    "todos/save": saveTodos,
//	    "todos/tick": tick,
//	})
//
// An action whose type has no case is ignored. This is not an error.
//
// # Nesting
//
// Higher-order refiners delegate to child refiners on a wrapper action whose
// payload is the child's action. The child sees only its slice of the state:
//
//	root := refiner.Switch(refiner.Cases[App]{
//	    "left":  refiner.Lift(func(s App) Side { return s.Left }, sideRefiner),
//	    "right": refiner.Lift(func(s App) Side { return s.Right }, sideRefiner),
//	})
//
//	dispatch(refiner.Wrap("left", action.Impure("side/fetch", nil)))
//
// Lift can be applied to an already lifted refiner, so wrappers nest as deep
// as the state tree does. Nest is the one-case shorthand of the above, and
// Scoped additionally re-wraps the child's own impure dispatches so they come
// back to the same child.
package refiner
