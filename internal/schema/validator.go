// Package schema compiles tool input schemas and validates call arguments against them.
// file: internal/schema/validator.go
//
// Each tool registers its input schema once at startup. The schema is compiled
// with the JSON Schema draft 2020-12 dialect and kept in memory; Validate
// checks a tools/call arguments object against it and reports the first
// violation as a short human-readable message.
package schema

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dkoosis/syscontrol/internal/logging"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidatorInterface defines the methods needed for argument validation.
type ValidatorInterface interface {
	Register(name string, schemaJSON []byte) error
	Validate(ctx context.Context, name string, args json.RawMessage) error
	HasSchema(name string) bool
}

// compiledSchema pairs the compiled form with the decoded document used to
// look up bounds and enums when building messages.
type compiledSchema struct {
	schema *jsonschema.Schema
	doc    interface{}
}

// Validator compiles and validates against per-tool JSON schemas.
type Validator struct {
	schemas map[string]compiledSchema
	mu      sync.RWMutex
	logger  logging.Logger
}

// Ensure Validator implements the interface.
var _ ValidatorInterface = (*Validator)(nil)

// NewValidator creates an empty Validator.
func NewValidator(logger logging.Logger) *Validator {
	if logger == nil {
		logger = logging.GetNoopLogger()
	}
	return &Validator{
		schemas: make(map[string]compiledSchema),
		logger:  logger.WithField("component", "schema_validator"),
	}
}

// Register compiles schemaJSON and stores it under name. Registering the same
// name twice is an error.
func (v *Validator) Register(name string, schemaJSON []byte) error {
	compileStart := time.Now()

	var doc interface{}
	if err := json.Unmarshal(schemaJSON, &doc); err != nil {
		return NewValidationError(ErrSchemaLoadFailed, "Failed to parse schema JSON", errors.Wrap(err, "json.Unmarshal failed")).
			WithContext("schema", name)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	resourceID := fmt.Sprintf("mem://tools/%s.json", name)
	if err := compiler.AddResource(resourceID, bytes.NewReader(schemaJSON)); err != nil {
		return NewValidationError(ErrSchemaLoadFailed, "Failed to add schema resource", errors.Wrap(err, "compiler.AddResource failed")).
			WithContext("schema", name)
	}
	compiled, err := compiler.Compile(resourceID)
	if err != nil {
		return NewValidationError(ErrSchemaCompileFailed, fmt.Sprintf("Failed to compile schema '%s'", name), errors.Wrap(err, "compiler.Compile failed")).
			WithContext("schema", name)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if _, exists := v.schemas[name]; exists {
		return NewValidationError(ErrSchemaCompileFailed, fmt.Sprintf("Schema '%s' already registered", name), nil)
	}
	v.schemas[name] = compiledSchema{schema: compiled, doc: doc}
	v.logger.Debug("Compiled tool schema.", "schema", name, "duration", time.Since(compileStart))
	return nil
}

// HasSchema checks if a schema with the given name exists.
func (v *Validator) HasSchema(name string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	_, ok := v.schemas[name]
	return ok
}

// Validate checks args against the schema registered under name. Absent
// arguments are validated as an empty object.
func (v *Validator) Validate(_ context.Context, name string, args json.RawMessage) error {
	v.mu.RLock()
	entry, ok := v.schemas[name]
	v.mu.RUnlock()
	if !ok {
		return NewValidationError(ErrSchemaNotFound, fmt.Sprintf("No schema registered for '%s'", name), nil)
	}

	data := bytes.TrimSpace(args)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		data = []byte("{}")
	}

	var instance interface{}
	if err := json.Unmarshal(data, &instance); err != nil {
		return NewValidationError(ErrInvalidJSONFormat, "arguments are not valid JSON", errors.Wrap(err, "json.Unmarshal failed")).
			WithContext("schema", name).
			WithContext("dataPreview", calculatePreview(data))
	}

	validationStart := time.Now()
	err := entry.schema.Validate(instance)
	if err == nil {
		return nil
	}

	var valErr *jsonschema.ValidationError
	if errors.As(err, &valErr) {
		converted := convertValidationError(valErr, entry.doc, instance)
		v.logger.Debug("Argument validation failed.",
			"duration", time.Since(validationStart),
			"schema", name,
			"keyword", converted.SchemaPath,
			"error", converted.Message)
		return converted
	}
	return NewValidationError(ErrValidationFailed, "argument validation failed", errors.Wrap(err, "schema.Validate failed unexpectedly")).
		WithContext("schema", name)
}
