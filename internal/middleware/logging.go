// file: internal/middleware/logging.go
package middleware

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dkoosis/syscontrol/internal/logging"
	"github.com/dkoosis/syscontrol/internal/mcptypes"
)

// Logging logs every routed request with its duration and outcome.
func Logging(logger logging.Logger) mcptypes.MiddlewareFunc {
	if logger == nil {
		logger = logging.GetNoopLogger()
	}
	return func(method string, next mcptypes.MethodHandler) mcptypes.MethodHandler {
		return func(ctx context.Context, params json.RawMessage) (any, error) {
			start := time.Now()
			trace := logging.TraceID(ctx)
			logger.Debug("Handling request.", "method", method, "trace", trace, "paramsBytes", len(params))

			result, err := next(ctx, params)
			if err != nil {
				logger.Warn("Request failed.", "method", method, "trace", trace, "duration", time.Since(start), "error", err)
				return result, err
			}
			if r, ok := result.(*mcptypes.CallToolResult); ok && r.IsError {
				logger.Info("Tool reported an error result.", "method", method, "trace", trace, "duration", time.Since(start), "text", r.Text())
				return result, nil
			}
			logger.Debug("Request handled.", "method", method, "trace", trace, "duration", time.Since(start))
			return result, nil
		}
	}
}
