package mcptypes

// file: internal/mcptypes/interfaces.go

import (
	"context"
	"encoding/json"
)

// MethodHandler handles one routed JSON-RPC method. It returns the value to
// place in the result member, or an error for the JSON-RPC error channel.
type MethodHandler func(ctx context.Context, params json.RawMessage) (any, error)

// MiddlewareFunc wraps a MethodHandler with additional behavior such as
// recovery, logging, or metrics collection.
type MiddlewareFunc func(method string, next MethodHandler) MethodHandler

// Chain composes middleware around a final handler.
type Chain interface {
	// Use adds a middleware function to the chain.
	Use(middleware MiddlewareFunc) Chain

	// Wrap returns handler wrapped by every middleware, first-added outermost.
	Wrap(method string, handler MethodHandler) MethodHandler
}
