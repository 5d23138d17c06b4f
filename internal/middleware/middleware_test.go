// file: internal/middleware/middleware_test.go
package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/dkoosis/syscontrol/internal/jsonrpc"
	"github.com/dkoosis/syscontrol/internal/logging"
	"github.com/dkoosis/syscontrol/internal/mcp/mcperrors"
	"github.com/dkoosis/syscontrol/internal/mcptypes"
	"github.com/dkoosis/syscontrol/internal/metrics"
	"github.com/dkoosis/syscontrol/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordingMiddleware(name string, order *[]string) mcptypes.MiddlewareFunc {
	return func(_ string, next mcptypes.MethodHandler) mcptypes.MethodHandler {
		return func(ctx context.Context, params json.RawMessage) (any, error) {
			*order = append(*order, name+":before")
			res, err := next(ctx, params)
			*order = append(*order, name+":after")
			return res, err
		}
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	chain := middleware.NewChain().
		Use(recordingMiddleware("outer", &order)).
		Use(recordingMiddleware("inner", &order))

	h := chain.Wrap("ping", func(context.Context, json.RawMessage) (any, error) {
		order = append(order, "handler")
		return map[string]any{}, nil
	})
	_, err := h(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"outer:before", "inner:before", "handler", "inner:after", "outer:after"}, order)
}

func TestChain_Empty(t *testing.T) {
	h := middleware.NewChain().Use(nil).Wrap("ping", func(context.Context, json.RawMessage) (any, error) {
		return "ok", nil
	})
	res, err := h(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", res)
}

func TestRecovery_PanicBecomesInternalError(t *testing.T) {
	collector := metrics.NewMetricsCollector(4)
	h := middleware.NewChain().
		Use(middleware.Recovery(logging.GetNoopLogger(), collector)).
		Wrap("tools/call", func(context.Context, json.RawMessage) (any, error) {
			panic("provider exploded")
		})

	res, err := h(context.Background(), nil)
	assert.Nil(t, res)
	require.Error(t, err)

	rpcErr := mcperrors.ToJSONRPC(err)
	assert.Equal(t, jsonrpc.CodeInternalError, rpcErr.Code)
	assert.Equal(t, "provider exploded", rpcErr.Message)

	m := collector.GetCurrentMetrics()
	require.Len(t, m.LastErrors, 1)
	assert.Equal(t, "tools/call", m.LastErrors[0].Component)
}

func TestRecovery_PassesThrough(t *testing.T) {
	boom := errors.New("boom")
	h := middleware.Recovery(nil, nil)("ping", func(context.Context, json.RawMessage) (any, error) {
		return nil, boom
	})
	_, err := h(context.Background(), nil)
	assert.ErrorIs(t, err, boom)
}

func TestMetrics_RecordsOutcome(t *testing.T) {
	collector := metrics.NewMetricsCollector(1)
	ok := middleware.Metrics(collector)("ping", func(context.Context, json.RawMessage) (any, error) {
		return map[string]any{}, nil
	})
	bad := middleware.Metrics(collector)("tools/call", func(context.Context, json.RawMessage) (any, error) {
		return nil, errors.New("nope")
	})
	_, _ = ok(context.Background(), nil)
	_, _ = bad(context.Background(), nil)

	m := collector.GetCurrentMetrics()
	assert.Equal(t, 2, m.TotalRequests)
	assert.Equal(t, 1, m.FailedRequests)
	assert.Contains(t, m.RequestLatencies, "ping")
}

func TestLogging_PassesResultThrough(t *testing.T) {
	want := mcptypes.NewErrorResult("value must be between 0 and 100")
	h := middleware.Logging(nil)("tools/call", func(context.Context, json.RawMessage) (any, error) {
		return want, nil
	})
	res, err := h(logging.ContextWithTrace(context.Background(), "trace-1"), nil)
	require.NoError(t, err)
	assert.Same(t, want, res)
}
