package middleware

import (
	"github.com/on-the-ground/impure_go/action"
	"github.com/on-the-ground/impure_go/refiner"
)

// StoreAPI is the part of a store visible to middleware.
type StoreAPI[S any] interface {
	Dispatch(action.Action) any
	GetState() S
}

// Next forwards an action to the following link of the chain.
type Next func(action.Action) any

// Middleware wraps a store's dispatch.
type Middleware[S any] func(api StoreAPI[S]) func(next Next) Next

// Refine intercepts impure actions and hands them to root instead of next.
//
// Pure actions are forwarded to next unchanged and their result returned.
// Impure actions are never forwarded: root is called synchronously with the
// store's dispatch and a state snapshot, and nil is returned. A nil root drops
// impure actions silently. Panics raised by root reach the caller of Dispatch.
func Refine[S any](root refiner.Refiner[S]) Middleware[S] {
	return func(api StoreAPI[S]) func(next Next) Next {
		return func(next Next) Next {
			return func(a action.Action) any {
				if !a.IsImpure() {
					return next(a)
				}
				if root != nil {
					root(api.Dispatch, a, api.GetState())
				}
				return nil
			}
		}
	}
}
