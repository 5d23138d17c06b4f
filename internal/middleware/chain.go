// Package middleware provides chainable wrappers around routed MCP method
// handlers: panic recovery, request logging and metrics collection.
package middleware

// file: internal/middleware/chain.go

import (
	"github.com/dkoosis/syscontrol/internal/mcptypes"
)

// middlewareChain implements the mcptypes.Chain interface.
type middlewareChain struct {
	middlewares []mcptypes.MiddlewareFunc
}

// NewChain creates an empty middleware chain.
func NewChain() mcptypes.Chain {
	return &middlewareChain{middlewares: make([]mcptypes.MiddlewareFunc, 0)}
}

// Use adds a middleware function to the chain.
func (c *middlewareChain) Use(middleware mcptypes.MiddlewareFunc) mcptypes.Chain {
	if middleware != nil {
		c.middlewares = append(c.middlewares, middleware)
	}
	return c
}

// Wrap composes the chain around handler. The first middleware added is the
// outermost, so it sees the request first and the result last.
func (c *middlewareChain) Wrap(method string, handler mcptypes.MethodHandler) mcptypes.MethodHandler {
	for i := len(c.middlewares) - 1; i >= 0; i-- {
		handler = c.middlewares[i](method, handler)
	}
	return handler
}
