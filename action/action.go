package action

import (
	"errors"
	"fmt"
	"maps"

	"github.com/on-the-ground/impure_go/shared/helper"
)

// ImpureKey is the Meta flag that marks an action as impure.
const ImpureKey = "impure"

// Meta is a bag of orthogonal flags attached to an action.
// Other libraries may set their own keys; only ImpureKey is inspected here.
type Meta map[string]any

// Action is a plain data record dispatched through a store.
//
// Actions are treated as immutable once constructed. Helpers that derive a new
// action (WithMeta) return a copy and never touch the receiver's Meta.
type Action struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
	Meta    Meta   `json:"meta,omitempty"`
}

// New builds a pure action.
func New(typ string, payload any) Action {
	return Action{Type: typ, Payload: payload}
}

// Impure builds an action flagged as impure.
// No validation is performed: an empty type is accepted as is.
func Impure(typ string, payload any) Action {
	return Action{
		Type:    typ,
		Payload: payload,
		Meta:    Meta{ImpureKey: true},
	}
}

// WithMeta returns a copy of the action with the given flag set.
func (a Action) WithMeta(key string, value any) Action {
	meta := make(Meta, len(a.Meta)+1)
	maps.Copy(meta, a.Meta)
	meta[key] = value
	a.Meta = meta
	return a
}

// IsImpure reports whether the action carries meta.impure == true.
func (a Action) IsImpure() bool {
	return flagged(a.Meta)
}

// IsImpure decides, from the shape of v, whether it is an impure action.
//
// It accepts Action, *Action and decoded JSON objects (map[string]any).
// Anything else, and any meta that is missing or not exactly the bool true,
// is classified as pure. It never panics.
func IsImpure(v any) bool {
	switch a := v.(type) {
	case Action:
		return a.IsImpure()
	case *Action:
		return a != nil && a.IsImpure()
	case map[string]any:
		switch meta := a["meta"].(type) {
		case map[string]any:
			return flagged(meta)
		case Meta:
			return flagged(meta)
		}
	}
	return false
}

func flagged(meta map[string]any) bool {
	impure, ok := meta[ImpureKey].(bool)
	return ok && impure
}

var ErrUnexpectedPayload = errors.New("unexpected payload")

// PayloadOf asserts the payload of a to T.
func PayloadOf[T any](a Action) (T, error) {
	v, err := helper.GetTypedValueOf[T](func() (any, error) {
		return a.Payload, nil
	})
	if err != nil {
		return v, fmt.Errorf("%w: action %q: %w", ErrUnexpectedPayload, a.Type, err)
	}
	return v, nil
}
