// file: internal/transport/transport_errors.go
package transport

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
)

// ErrorCode identifies a transport failure.
type ErrorCode int

// Transport error codes.
const (
	// ErrGeneric is an unclassified read failure.
	ErrGeneric ErrorCode = iota + 1000
	// ErrMessageTooLarge means an inbound line exceeded the size limit.
	ErrMessageTooLarge
	// ErrTransportClosed means the peer closed its end or Close was called.
	ErrTransportClosed
	// ErrCancelled means the context ended while a read or write was waiting.
	ErrCancelled
	// ErrWriteFailed means the output stream rejected a write or flush.
	ErrWriteFailed
)

// Error is a transport-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}

	// Size and MaxSize are set for ErrMessageTooLarge.
	Size    int
	MaxSize int
}

// Error implements the error interface.
func (e *Error) Error() string {
	base := fmt.Sprintf("TransportError [%d] %s", e.Code, e.Message)
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", base, e.Cause)
	}
	return base
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext adds a key-value pair to the error context.
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewError creates a transport error. The cause gets a stack trace attached.
func NewError(code ErrorCode, message string, cause error) *Error {
	var wrapped error
	if cause != nil {
		wrapped = errors.WithStack(cause)
	}
	return &Error{Code: code, Message: message, Cause: wrapped}
}

// NewMessageSizeError reports an inbound line of size bytes over maxSize.
func NewMessageSizeError(size, maxSize int, fragment []byte) *Error {
	err := NewError(ErrMessageTooLarge,
		fmt.Sprintf("message size %d exceeds maximum allowed size %d", size, maxSize), nil)
	err.Size = size
	err.MaxSize = maxSize
	if len(fragment) > 0 {
		err = err.WithContext("messagePreview", string(fragment))
	}
	return err
}

// NewCancelledError reports a read or write abandoned because ctx ended.
func NewCancelledError(operation string, cause error) *Error {
	return NewError(ErrCancelled, fmt.Sprintf("%s cancelled", operation), cause).
		WithContext("operation", operation)
}

// NewClosedError reports an operation on a closed transport.
func NewClosedError(operation string) *Error {
	return NewError(ErrTransportClosed, fmt.Sprintf("cannot perform %s on closed transport", operation), nil).
		WithContext("operation", operation)
}

// IsClosedError reports whether err means the input is exhausted or the
// transport was closed.
func IsClosedError(err error) bool {
	return hasCode(err, ErrTransportClosed) || errors.Is(err, io.EOF)
}

// IsCancelledError reports whether err came from a cancelled context.
func IsCancelledError(err error) bool {
	return hasCode(err, ErrCancelled)
}

// AsMessageSizeError returns the size error carried by err, if any.
func AsMessageSizeError(err error) (*Error, bool) {
	var te *Error
	if errors.As(err, &te) && te.Code == ErrMessageTooLarge {
		return te, true
	}
	return nil, false
}

func hasCode(err error, code ErrorCode) bool {
	var te *Error
	return errors.As(err, &te) && te.Code == code
}
