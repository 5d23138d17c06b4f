// Package jsonrpc implements the JSON-RPC 2.0 envelope used on the wire:
// request decoding and canonical response/error construction.
// file: internal/jsonrpc/types.go
package jsonrpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	// Version is the JSON-RPC version string.
	Version = "2.0"
)

// Standard JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// MessageParseError is the fixed message sent with CodeParseError.
const MessageParseError = "Parse error"

// nullID is the identifier used when the request id is unknown.
var nullID = json.RawMessage("null")

// ErrNotObject is returned by ParseRequest when the line is valid JSON but not an object.
var ErrNotObject = errors.New("message is not a JSON object")

// Error represents a JSON-RPC 2.0 error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Error returns the error message, implementing the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("JSON-RPC error %d: %s", e.Code, e.Message)
}

// Request represents a JSON-RPC request or notification.
// ID is kept as raw bytes so it can be echoed verbatim.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// HasID reports whether the id member was present in the message.
// An explicit null counts as present.
func (r *Request) HasID() bool {
	return len(r.ID) > 0
}

// IsNotification reports whether the message is a notification:
// no id member and a method in the notifications/ namespace.
func (r *Request) IsNotification() bool {
	return !r.HasID() && strings.HasPrefix(r.Method, "notifications/")
}

// ResponseID returns the id to echo, or null when the request carried none.
func (r *Request) ResponseID() json.RawMessage {
	if !r.HasID() {
		return nullID
	}
	return r.ID
}

// Response represents a JSON-RPC response message. Exactly one of Result or
// Error is set; use NewResult and NewError rather than building it by hand.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// ParseRequest decodes one line into a Request.
func ParseRequest(line []byte) (*Request, error) {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		if json.Valid(trimmed) {
			return nil, ErrNotObject
		}
		return nil, errors.New("invalid JSON")
	}
	var req Request
	if err := json.Unmarshal(trimmed, &req); err != nil {
		return nil, errors.Wrap(err, "failed to decode JSON-RPC request")
	}
	return &req, nil
}

// NewResult builds a success response. A nil result is sent as an empty object.
// If the result cannot be marshaled the response degrades to an internal error.
func NewResult(id json.RawMessage, result any) Response {
	var raw json.RawMessage
	switch v := result.(type) {
	case nil:
		raw = json.RawMessage(`{}`)
	case json.RawMessage:
		raw = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return NewError(id, CodeInternalError, "Internal error",
				map[string]any{"detail": errors.Wrap(err, "failed to marshal result").Error()})
		}
		raw = b
	}
	if len(raw) == 0 {
		raw = json.RawMessage(`{}`)
	}
	return Response{JSONRPC: Version, ID: normalizeID(id), Result: raw}
}

// NewError builds an error response.
func NewError(id json.RawMessage, code int, message string, data any) Response {
	return Response{
		JSONRPC: Version,
		ID:      normalizeID(id),
		Error:   &Error{Code: code, Message: message, Data: data},
	}
}

// NewParseError builds the response sent for a line that is not a valid request.
func NewParseError(data any) Response {
	return NewError(nil, CodeParseError, MessageParseError, data)
}

// Encode serializes a response to a single line without the trailing newline.
func Encode(resp Response) ([]byte, error) {
	if (resp.Error == nil) == (len(resp.Result) == 0) {
		return nil, errors.Newf("response for id %s must carry exactly one of result or error", string(resp.ID))
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal response")
	}
	return b, nil
}

func normalizeID(id json.RawMessage) json.RawMessage {
	if len(id) == 0 {
		return nullID
	}
	return id
}
