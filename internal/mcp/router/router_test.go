// file: internal/mcp/router/router_test.go
package router

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/dkoosis/syscontrol/internal/logging"
	"github.com/dkoosis/syscontrol/internal/mcp/mcperrors"
	"github.com/dkoosis/syscontrol/internal/mcptypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errMockHandler = errors.New("mock handler error")

func mockRequestHandler(method string, shouldError bool) Handler {
	return func(_ context.Context, params json.RawMessage) (any, error) {
		if shouldError {
			return nil, errMockHandler
		}
		return map[string]any{"receivedMethod": method, "receivedParams": string(params)}, nil
	}
}

func mockNotificationHandler(counter *atomic.Int32) NotificationHandler {
	return func(_ context.Context, _ json.RawMessage) error {
		counter.Add(1)
		return nil
	}
}

// recordingChain wraps handlers and records the methods it wrapped.
type recordingChain struct {
	wrapped []string
	calls   atomic.Int32
}

func (c *recordingChain) Use(mcptypes.MiddlewareFunc) mcptypes.Chain { return c }

func (c *recordingChain) Wrap(method string, next mcptypes.MethodHandler) mcptypes.MethodHandler {
	c.wrapped = append(c.wrapped, method)
	return func(ctx context.Context, params json.RawMessage) (any, error) {
		c.calls.Add(1)
		return next(ctx, params)
	}
}

func TestNewRouter_RejectsBadRoutes(t *testing.T) {
	logger := logging.GetNoopLogger()

	_, err := NewRouter(logger, nil, Route{Method: "", Handler: mockRequestHandler("x", false)})
	assert.Error(t, err)

	_, err = NewRouter(logger, nil, Route{Method: "ping"})
	assert.Error(t, err)

	_, err = NewRouter(logger, nil,
		Route{Method: "ping", Handler: mockRequestHandler("ping", false)},
		Route{Method: "ping", Handler: mockRequestHandler("ping", false)},
	)
	assert.Error(t, err)
}

func TestRouter_RoutesRequests(t *testing.T) {
	chain := &recordingChain{}
	r, err := NewRouter(nil, chain,
		Route{Method: "tools/list", Handler: mockRequestHandler("tools/list", false)},
		Route{Method: "ping", Handler: mockRequestHandler("ping", true)},
	)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"tools/list", "ping"}, chain.wrapped)

	res, err := r.Route(context.Background(), "tools/list", json.RawMessage(`{"a":1}`), false)
	require.NoError(t, err)
	assert.Equal(t, "tools/list", res.(map[string]any)["receivedMethod"])

	_, err = r.Route(context.Background(), "ping", nil, false)
	assert.ErrorIs(t, err, errMockHandler)
	assert.EqualValues(t, 2, chain.calls.Load())
}

func TestRouter_MethodNotFound(t *testing.T) {
	r, err := NewRouter(nil, nil, Route{Method: "ping", Handler: mockRequestHandler("ping", false)})
	require.NoError(t, err)

	for _, method := range []string{"resources/list", "PING", "ping "} {
		_, err := r.Route(context.Background(), method, nil, false)
		assert.True(t, mcperrors.IsMethodNotFound(err), method)
	}
}

func TestRouter_Notifications(t *testing.T) {
	var count atomic.Int32
	r, err := NewRouter(nil, nil,
		Route{Method: "notifications/initialized", NotificationHandler: mockNotificationHandler(&count)},
		Route{Method: "ping", Handler: mockRequestHandler("ping", false)},
	)
	require.NoError(t, err)

	res, err := r.Route(context.Background(), "notifications/initialized", nil, true)
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.EqualValues(t, 1, count.Load())

	res, err = r.Route(context.Background(), "ping", nil, true)
	require.NoError(t, err)
	assert.Nil(t, res, "notification results are discarded")

	_, err = r.Route(context.Background(), "notifications/initialized", nil, false)
	assert.True(t, mcperrors.IsMethodNotFound(err))
}

func TestRouter_GetRoutesSorted(t *testing.T) {
	r, err := NewRouter(nil, nil,
		Route{Method: "tools/list", Handler: mockRequestHandler("", false)},
		Route{Method: "initialize", Handler: mockRequestHandler("", false)},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"initialize", "tools/list"}, r.GetRoutes())
}
