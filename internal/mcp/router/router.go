// Package router dispatches MCP method calls through a fixed method table.
// file: internal/mcp/router/router.go
package router

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/dkoosis/syscontrol/internal/logging"
	"github.com/dkoosis/syscontrol/internal/mcp/mcperrors"
	"github.com/dkoosis/syscontrol/internal/mcptypes"
)

// Handler handles a request that expects a response.
type Handler = mcptypes.MethodHandler

// NotificationHandler handles a notification; no response is produced.
type NotificationHandler func(ctx context.Context, params json.RawMessage) error

// Route maps an MCP method name to its handler(s).
type Route struct {
	Method              string              // Exact, case-sensitive method name.
	Handler             Handler             // Handler for requests expecting a response.
	NotificationHandler NotificationHandler // Handler for notifications.
}

// Router dispatches messages to the handler registered for their method.
type Router interface {
	// Route dispatches a message. For notifications the returned value is always nil.
	Route(ctx context.Context, method string, params json.RawMessage, isNotification bool) (any, error)
	// GetRoutes returns the registered method names, sorted.
	GetRoutes() []string
}

// router implements Router. The table is built once and never mutated.
type router struct {
	routes map[string]Route
	logger logging.Logger
}

// NewRouter builds a router from routes. Each request handler is wrapped by
// chain when chain is non-nil. Empty or duplicate methods are rejected.
func NewRouter(logger logging.Logger, chain mcptypes.Chain, routes ...Route) (Router, error) {
	if logger == nil {
		logger = logging.GetNoopLogger()
	}
	r := &router{
		routes: make(map[string]Route, len(routes)),
		logger: logger.WithField("component", "mcp_router"),
	}
	for _, route := range routes {
		if route.Method == "" {
			return nil, errors.New("cannot register route with empty method name")
		}
		if route.Handler == nil && route.NotificationHandler == nil {
			return nil, errors.Newf("route for method '%s' must have at least one handler (Handler or NotificationHandler)", route.Method)
		}
		if _, exists := r.routes[route.Method]; exists {
			return nil, errors.Newf("route for method '%s' already registered", route.Method)
		}
		if chain != nil && route.Handler != nil {
			route.Handler = chain.Wrap(route.Method, route.Handler)
		}
		r.routes[route.Method] = route
		r.logger.Debug("Registered route.", "method", route.Method)
	}
	return r, nil
}

// Route looks up the handler for method and executes it.
func (r *router) Route(ctx context.Context, method string, params json.RawMessage, isNotification bool) (any, error) {
	route, exists := r.routes[method]
	if !exists {
		r.logger.Warn("Method not found in router.", "method", method)
		return nil, mcperrors.NewMethodNotFoundError(method)
	}

	if isNotification {
		if route.NotificationHandler != nil {
			r.logger.Debug("Routing to notification handler.", "method", method)
			return nil, route.NotificationHandler(ctx, params)
		}
		r.logger.Warn("Received notification for method with only a request handler registered, executing handler but discarding result.", "method", method)
		_, err := route.Handler(ctx, params)
		return nil, err
	}

	if route.Handler != nil {
		r.logger.Debug("Routing to request handler.", "method", method)
		return route.Handler(ctx, params)
	}
	r.logger.Warn("Received request for notification-only method.", "method", method)
	return nil, mcperrors.NewMethodNotFoundError(method)
}

// GetRoutes returns a sorted slice of registered method names.
func (r *router) GetRoutes() []string {
	methods := make([]string, 0, len(r.routes))
	for method := range r.routes {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return methods
}
