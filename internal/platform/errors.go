// file: internal/platform/errors.go
package platform

import (
	"fmt"
	"io/fs"
	"os/exec"
	"syscall"

	"github.com/cockroachdb/errors"
)

// Kind classifies a provider failure so callers can suggest a likely cause.
type Kind string

// Error kinds.
const (
	KindUnsupported Kind = "unsupported"
	KindPermission  Kind = "permission"
	KindNotFound    Kind = "not_found"
	KindFailed      Kind = "failed"
)

// Error is returned by providers.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a provider error of the given kind.
func NewError(kind Kind, op, message string, cause error) error {
	if cause != nil {
		cause = errors.WithStack(cause)
	}
	return &Error{Kind: kind, Op: op, Message: message, Cause: cause}
}

// Classify wraps a low-level error from the filesystem or a subprocess into
// an *Error, choosing the kind from the error itself. An existing *Error is
// returned unchanged.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return err
	}
	switch {
	case errors.Is(err, exec.ErrNotFound):
		return NewError(KindUnsupported, op, "required command is not installed", err)
	case errors.Is(err, fs.ErrNotExist):
		return NewError(KindNotFound, op, "device not found", err)
	case errors.Is(err, fs.ErrPermission), errors.Is(err, syscall.EACCES), errors.Is(err, syscall.EPERM):
		return NewError(KindPermission, op, "permission denied", err)
	}
	return NewError(KindFailed, op, "operation failed", err)
}

// KindOf returns the kind of err, or KindFailed when err is not an *Error.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindFailed
}

// Hint returns a short likely-cause sentence for the kind.
func Hint(kind Kind) string {
	switch kind {
	case KindUnsupported:
		return "this control is not supported on this system"
	case KindPermission:
		return "permission denied; the server may need to run with access to the device (for example membership in the video or audio group)"
	case KindNotFound:
		return "no matching device was found"
	default:
		return "the platform reported an error"
	}
}
