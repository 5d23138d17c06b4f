// file: internal/schema/errors.go
package schema

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrorCode defines validation error codes.
type ErrorCode int

// Defined validation error codes.
const (
	ErrSchemaNotFound ErrorCode = iota + 1000
	ErrSchemaLoadFailed
	ErrSchemaCompileFailed
	ErrValidationFailed
	ErrInvalidJSONFormat
)

// ValidationError represents a schema registration or argument validation error.
type ValidationError struct {
	// Code is the numeric error code.
	Code ErrorCode
	// Message is a human-readable message, suitable for returning to a client.
	Message string
	// Cause is the underlying error, if any.
	Cause error
	// Keyword is the schema keyword that failed (enum, minimum, required, ...).
	Keyword string
	// SchemaPath identifies the specific part of the schema that was violated.
	SchemaPath string
	// InstancePath identifies the specific part of the validated instance that violated the schema.
	InstancePath string
	// Context contains additional error context.
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	base := fmt.Sprintf("[%d] %s", e.Code, e.Message)
	if e.SchemaPath != "" {
		base += fmt.Sprintf(" (schema path: %s)", e.SchemaPath)
	}
	if e.InstancePath != "" {
		base += fmt.Sprintf(" (instance path: %s)", e.InstancePath)
	}
	if e.Cause != nil {
		base += fmt.Sprintf(": %v", e.Cause)
	}
	return base
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the validation error.
func (e *ValidationError) WithContext(key string, value interface{}) *ValidationError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewValidationError creates a new ValidationError.
func NewValidationError(code ErrorCode, message string, cause error) *ValidationError {
	if cause != nil {
		cause = errors.WithStack(cause)
	}
	return &ValidationError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsArgumentError reports whether err is a failed validation of call arguments
// (as opposed to a missing or broken schema).
func IsArgumentError(err error) bool {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	return ve.Code == ErrValidationFailed || ve.Code == ErrInvalidJSONFormat
}

// keywordRank orders leaf failures so the reported one does not depend on the
// validator's traversal order: an unsupported choice is reported before a
// missing argument, a wrong type or an out-of-range value.
func keywordRank(keyword string) int {
	switch keyword {
	case "enum", "const":
		return 0
	case "required":
		return 1
	case "type":
		return 2
	case "minimum", "maximum", "exclusiveMinimum", "exclusiveMaximum":
		return 3
	}
	return 4
}

func collectLeaves(e *jsonschema.ValidationError, out []*jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(e.Causes) == 0 {
		return append(out, e)
	}
	for _, c := range e.Causes {
		out = collectLeaves(c, out)
	}
	return out
}

// primaryLeaf picks the highest-ranked leaf, breaking ties by instance and
// keyword location.
func primaryLeaf(valErr *jsonschema.ValidationError) *jsonschema.ValidationError {
	leaves := collectLeaves(valErr, nil)
	sort.SliceStable(leaves, func(i, j int) bool {
		a, b := leaves[i], leaves[j]
		ra, rb := keywordRank(lastSegment(a.KeywordLocation)), keywordRank(lastSegment(b.KeywordLocation))
		if ra != rb {
			return ra < rb
		}
		if a.InstanceLocation != b.InstanceLocation {
			return a.InstanceLocation < b.InstanceLocation
		}
		return a.KeywordLocation < b.KeywordLocation
	})
	return leaves[0]
}

// convertValidationError reduces a jsonschema error tree to a single leaf and
// phrases it for the caller. doc and instance are the decoded schema and
// arguments, used to recover enum members, bounds and missing names.
func convertValidationError(valErr *jsonschema.ValidationError, doc, instance interface{}) *ValidationError {
	leaf := primaryLeaf(valErr)

	keyword := lastSegment(leaf.KeywordLocation)
	field := lastSegment(leaf.InstanceLocation)
	if field == "" {
		field = "arguments"
	}

	var message string
	switch keyword {
	case "enum":
		message = enumMessage(field, lookupPointer(doc, leaf.KeywordLocation), lookupPointer(instance, leaf.InstanceLocation))
	case "minimum", "maximum", "exclusiveMinimum", "exclusiveMaximum":
		message = rangeMessage(field, lookupPointer(doc, parentPointer(leaf.KeywordLocation)))
	case "required":
		message = requiredMessage(lookupPointer(doc, leaf.KeywordLocation), lookupPointer(instance, leaf.InstanceLocation))
	case "type":
		message = fmt.Sprintf("%s must be of type %s", field, describeType(lookupPointer(doc, leaf.KeywordLocation)))
	}
	if message == "" {
		message = fmt.Sprintf("%s: %s", field, leaf.Message)
	}

	customErr := NewValidationError(ErrValidationFailed, message, valErr)
	customErr.Keyword = keyword
	customErr.SchemaPath = leaf.KeywordLocation
	customErr.InstancePath = leaf.InstanceLocation
	return customErr
}

func enumMessage(field string, allowed, got interface{}) string {
	members, ok := allowed.([]interface{})
	if !ok || len(members) == 0 {
		return ""
	}
	names := make([]string, 0, len(members))
	for _, m := range members {
		names = append(names, fmt.Sprint(m))
	}
	gotJSON, _ := json.Marshal(got)
	return fmt.Sprintf("invalid %s %s: supported values are %s", field, gotJSON, strings.Join(names, ", "))
}

func rangeMessage(field string, parent interface{}) string {
	props, ok := parent.(map[string]interface{})
	if !ok {
		return ""
	}
	minVal, hasMin := props["minimum"].(float64)
	maxVal, hasMax := props["maximum"].(float64)
	switch {
	case hasMin && hasMax:
		return fmt.Sprintf("%s must be between %g and %g", field, minVal, maxVal)
	case hasMin:
		return fmt.Sprintf("%s must be at least %g", field, minVal)
	case hasMax:
		return fmt.Sprintf("%s must be at most %g", field, maxVal)
	}
	return ""
}

func requiredMessage(required, obj interface{}) string {
	names, ok := required.([]interface{})
	if !ok {
		return ""
	}
	present, _ := obj.(map[string]interface{})
	missing := make([]string, 0, len(names))
	for _, n := range names {
		name := fmt.Sprint(n)
		if _, ok := present[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return ""
	}
	return "missing required argument: " + strings.Join(missing, ", ")
}

func describeType(t interface{}) string {
	switch tv := t.(type) {
	case string:
		return tv
	case []interface{}:
		parts := make([]string, 0, len(tv))
		for _, p := range tv {
			parts = append(parts, fmt.Sprint(p))
		}
		return strings.Join(parts, " or ")
	}
	return "unknown"
}
