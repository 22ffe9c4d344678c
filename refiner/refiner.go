package refiner

import "github.com/on-the-ground/impure_go/action"

// Dispatch injects an action into the store. It is supplied by the store.
type Dispatch func(action.Action) any

// Refiner handles an impure action. State is a read-only snapshot.
type Refiner[S any] func(dispatch Dispatch, a action.Action, state S)

// Noop returns a refiner that ignores every action.
func Noop[S any]() Refiner[S] {
	return func(Dispatch, action.Action, S) {}
}

// Cases maps an action type to the refiner handling it.
type Cases[S any] map[string]Refiner[S]

// Switch routes an action to the case registered for its type.
// Unmatched types, and nil cases, are a silent no-op.
func Switch[S any](cases Cases[S]) Refiner[S] {
	return func(dispatch Dispatch, a action.Action, state S) {
		if r := cases[a.Type]; r != nil {
			r(dispatch, a, state)
		}
	}
}

// Combine calls each non-nil refiner in order with the same arguments.
func Combine[S any](refiners ...Refiner[S]) Refiner[S] {
	return func(dispatch Dispatch, a action.Action, state S) {
		for _, r := range refiners {
			if r != nil {
				r(dispatch, a, state)
			}
		}
	}
}
