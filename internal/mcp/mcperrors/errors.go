// Package mcperrors defines the typed protocol errors raised by the MCP layer
// and maps them onto JSON-RPC error objects.
package mcperrors

// file: internal/mcp/mcperrors/errors.go

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/dkoosis/syscontrol/internal/jsonrpc"
)

// ErrorCode is the JSON-RPC code a protocol error is reported with.
type ErrorCode int

// Codes used by the dispatcher.
const (
	ErrParseError     ErrorCode = jsonrpc.CodeParseError
	ErrInvalidRequest ErrorCode = jsonrpc.CodeInvalidRequest
	ErrMethodNotFound ErrorCode = jsonrpc.CodeMethodNotFound
	ErrInvalidParams  ErrorCode = jsonrpc.CodeInvalidParams
	ErrInternalError  ErrorCode = jsonrpc.CodeInternalError
)

// ProtocolError is a failure that is answered through the JSON-RPC error channel.
type ProtocolError struct {
	// Code is the wire code.
	Code ErrorCode
	// Message is sent to the client as the error message.
	Message string
	// Cause is the underlying error, if any.
	Cause error
	// Context holds key/value details. Only keys listed in clientKeys reach the client.
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("MCPError (Code: %d): %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("MCPError (Code: %d): %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ProtocolError) Unwrap() error {
	return e.Cause
}

// WithContext adds a key/value pair to the context map and returns the error for chaining.
func (e *ProtocolError) WithContext(key string, value interface{}) *ProtocolError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func newProtocolError(code ErrorCode, message string, cause error, context map[string]interface{}) *ProtocolError {
	if cause != nil {
		cause = errors.WithStack(cause)
	}
	return &ProtocolError{Code: code, Message: message, Cause: cause, Context: context}
}

// NewMethodNotFoundError reports an unknown method name (-32601).
func NewMethodNotFoundError(method string) error {
	return newProtocolError(ErrMethodNotFound, fmt.Sprintf("Method not found: %s", method), nil,
		map[string]interface{}{"method": method})
}

// NewToolNotFoundError reports a tools/call naming an unregistered tool (-32601).
func NewToolNotFoundError(name string) error {
	return newProtocolError(ErrMethodNotFound, fmt.Sprintf("Tool not found: %s", name), nil,
		map[string]interface{}{"toolName": name})
}

// NewInvalidParamsError reports malformed or missing params (-32602).
func NewInvalidParamsError(message string, cause error, context map[string]interface{}) error {
	return newProtocolError(ErrInvalidParams, "Invalid params: "+message, cause, context)
}

// NewInternalError reports a handler failure (-32603).
func NewInternalError(message string, cause error, context map[string]interface{}) error {
	return newProtocolError(ErrInternalError, message, cause, context)
}

// NewParseError reports an unreadable message (-32700).
func NewParseError(message string, cause error, context map[string]interface{}) error {
	return newProtocolError(ErrParseError, message, cause, context)
}

// clientKeys are the context keys exposed in the error data.
var clientKeys = map[string]bool{
	"method":   true,
	"toolName": true,
	"detail":   true,
	"limit":    true,
	"size":     true,
}

// ToJSONRPC maps any error onto a JSON-RPC error object. Errors that are not a
// *ProtocolError become internal errors carrying their own message.
func ToJSONRPC(err error) *jsonrpc.Error {
	if err == nil {
		return nil
	}

	var pe *ProtocolError
	if !errors.As(err, &pe) {
		return &jsonrpc.Error{
			Code:    jsonrpc.CodeInternalError,
			Message: err.Error(),
		}
	}

	out := &jsonrpc.Error{Code: int(pe.Code), Message: pe.Message}
	if pe.Code == ErrParseError {
		out.Message = jsonrpc.MessageParseError
	}

	data := make(map[string]interface{})
	for k, v := range pe.Context {
		if clientKeys[k] {
			data[k] = v
		}
	}
	if pe.Cause != nil && pe.Code != ErrInternalError {
		if _, exists := data["detail"]; !exists {
			data["detail"] = pe.Cause.Error()
		}
	}
	if len(data) > 0 {
		out.Data = data
	}
	return out
}

// IsMethodNotFound reports whether err carries the method-not-found code.
func IsMethodNotFound(err error) bool {
	return hasCode(err, ErrMethodNotFound)
}

// IsInvalidParams reports whether err carries the invalid-params code.
func IsInvalidParams(err error) bool {
	return hasCode(err, ErrInvalidParams)
}

func hasCode(err error, code ErrorCode) bool {
	var pe *ProtocolError
	return errors.As(err, &pe) && pe.Code == code
}
