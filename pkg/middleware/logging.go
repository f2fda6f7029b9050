package middleware

import (
	"log/slog"
	"time"

	"github.com/statekit-dev/statekit/pkg/store"
)

// Logging creates middleware that logs every dispatch through the given
// slog logger. Successful dispatches log at Debug, rejected ones at Warn
// with the error attached. A nil logger falls back to slog.Default().
func Logging(logger *slog.Logger) store.Middleware {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next store.DispatchFunc) store.DispatchFunc {
		return func(a store.Action) error {
			start := time.Now()
			err := next(a)
			elapsed := time.Since(start)

			if err != nil {
				logger.Warn("dispatch rejected",
					"action", actionLabel(a),
					"duration", elapsed,
					"error", err,
				)
				return err
			}

			logger.Debug("dispatch",
				"action", actionLabel(a),
				"duration", elapsed,
			)
			return nil
		}
	}
}
