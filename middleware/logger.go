package middleware

import (
	"time"

	"github.com/on-the-ground/impure_go/action"
	"go.uber.org/zap"
)

// Logger logs every action passing through it at debug level.
// Install it ahead of Refine to see impure actions too.
func Logger[S any](logger *zap.Logger) Middleware[S] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(_ StoreAPI[S]) func(next Next) Next {
		return func(next Next) Next {
			return func(a action.Action) any {
				start := time.Now()
				res := next(a)
				logger.Debug("dispatched",
					zap.String("type", a.Type),
					zap.Bool("impure", a.IsImpure()),
					zap.Duration("elapsed", time.Since(start)),
				)
				return res
			}
		}
	}
}
