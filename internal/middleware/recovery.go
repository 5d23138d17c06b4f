// file: internal/middleware/recovery.go
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"

	"github.com/dkoosis/syscontrol/internal/logging"
	"github.com/dkoosis/syscontrol/internal/mcp/mcperrors"
	"github.com/dkoosis/syscontrol/internal/mcptypes"
	"github.com/dkoosis/syscontrol/internal/metrics"
)

// Recovery converts a panic inside a handler into an internal error carrying
// the panic message, so the loop keeps serving. collector may be nil.
func Recovery(logger logging.Logger, collector *metrics.Collector) mcptypes.MiddlewareFunc {
	if logger == nil {
		logger = logging.GetNoopLogger()
	}
	return func(method string, next mcptypes.MethodHandler) mcptypes.MethodHandler {
		return func(ctx context.Context, params json.RawMessage) (result any, err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				stack := string(debug.Stack())
				message := fmt.Sprint(r)
				logger.Error("Recovered from panic in handler.",
					"method", method,
					"panic", message,
					"trace", logging.TraceID(ctx),
					"stack", stack)
				if collector != nil {
					collector.RecordError(method, message, stack)
				}
				result = nil
				err = mcperrors.NewInternalError(message, nil, map[string]interface{}{"method": method})
			}()
			return next(ctx, params)
		}
	}
}
