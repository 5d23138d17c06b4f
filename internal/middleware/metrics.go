// file: internal/middleware/metrics.go
package middleware

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dkoosis/syscontrol/internal/mcptypes"
	"github.com/dkoosis/syscontrol/internal/metrics"
)

// Metrics records request counts and latencies in collector.
func Metrics(collector *metrics.Collector) mcptypes.MiddlewareFunc {
	return func(method string, next mcptypes.MethodHandler) mcptypes.MethodHandler {
		if collector == nil {
			return next
		}
		return func(ctx context.Context, params json.RawMessage) (any, error) {
			start := time.Now()
			result, err := next(ctx, params)
			collector.RecordRequest(method, time.Since(start), err == nil)
			return result, err
		}
	}
}
