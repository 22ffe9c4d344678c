// Package lookup provides a cache-aside fetch refiner.
//
// A FetchType action looks its key up in a Cache first, then in a Source.
// The outcome is reported by dispatching a pure action: Resolved when the value
// is found (the cache is filled on a source hit), Missing otherwise.
package lookup

import (
	"github.com/on-the-ground/impure_go/action"
	"github.com/on-the-ground/impure_go/refiner"
	"go.uber.org/zap"
)

const FetchType = "lookup/fetch"

// Tier names where a value was found.
type Tier string

const (
	TierCache  Tier = "cache"
	TierSource Tier = "source"
)

type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

type Source interface {
	Load(key string) (value any, ok bool, err error)
}

// Fetch is the payload of FetchType. Resolved and Missing name the action
// types dispatched with the outcome.
type Fetch struct {
	Key      string
	Resolved string
	Missing  string
}

// Resolved is the payload of the resolved action.
type Resolved struct {
	Key   string
	Value any
	Tier  Tier
}

// Missing is the payload of the missing action. Err is set when the source failed.
type Missing struct {
	Key string
	Err error
}

func FetchAction(key, resolved, missing string) action.Action {
	return action.Impure(FetchType, Fetch{Key: key, Resolved: resolved, Missing: missing})
}

// Refiner handles FetchType. A nil cache is skipped.
func Refiner[S any](cache Cache, source Source, logger *zap.Logger) refiner.Refiner[S] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return refiner.Switch(refiner.Cases[S]{
		FetchType: func(dispatch refiner.Dispatch, a action.Action, _ S) {
			fetch, err := action.PayloadOf[Fetch](a)
			if err != nil {
				logger.Warn("ignoring lookup action", zap.Error(err))
				return
			}

			if cache != nil {
				if v, ok := cache.Get(fetch.Key); ok {
					logger.Debug("cache hit", zap.String("key", fetch.Key))
					dispatch(action.New(fetch.Resolved, Resolved{Key: fetch.Key, Value: v, Tier: TierCache}))
					return
				}
			}

			v, ok, err := source.Load(fetch.Key)
			switch {
			case err != nil:
				logger.Error("fail to load from source", zap.String("key", fetch.Key), zap.Error(err))
				dispatch(action.New(fetch.Missing, Missing{Key: fetch.Key, Err: err}))
			case !ok:
				logger.Debug("not found", zap.String("key", fetch.Key))
				dispatch(action.New(fetch.Missing, Missing{Key: fetch.Key}))
			default:
				if cache != nil {
					cache.Set(fetch.Key, v)
				}
				logger.Debug("source hit", zap.String("key", fetch.Key))
				dispatch(action.New(fetch.Resolved, Resolved{Key: fetch.Key, Value: v, Tier: TierSource}))
			}
		},
	})
}
