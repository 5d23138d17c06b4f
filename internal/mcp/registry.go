// Package mcp implements the MCP server: the tool registry, the method
// handlers and the message loop that ties them to a transport.
// file: internal/mcp/registry.go
package mcp

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/dkoosis/syscontrol/internal/logging"
	"github.com/dkoosis/syscontrol/internal/mcptypes"
	"github.com/dkoosis/syscontrol/internal/schema"
	"github.com/dkoosis/syscontrol/internal/tools"
)

// Registry holds the tools the server exposes. It is built once and never
// changes afterwards.
type Registry struct {
	descriptors []tools.Descriptor
	listing     []mcptypes.Tool
	index       map[string]int
	validator   schema.ValidatorInterface
	logger      logging.Logger
}

// NewRegistry registers descs in order. Each tool's schema is compiled into
// validator; invalid names, duplicates and schemas that fail to compile are
// rejected.
func NewRegistry(validator schema.ValidatorInterface, logger logging.Logger, descs ...tools.Descriptor) (*Registry, error) {
	if validator == nil {
		return nil, errors.New("registry requires a schema validator")
	}
	if logger == nil {
		logger = logging.GetNoopLogger()
	}
	r := &Registry{
		descriptors: make([]tools.Descriptor, 0, len(descs)),
		listing:     make([]mcptypes.Tool, 0, len(descs)),
		index:       make(map[string]int, len(descs)),
		validator:   validator,
		logger:      logger.WithField("component", "tool_registry"),
	}

	for _, d := range descs {
		if err := schema.ValidateToolName(d.Name); err != nil {
			return nil, errors.Wrap(err, "failed to register tool")
		}
		if _, exists := r.index[d.Name]; exists {
			return nil, errors.Newf("tool '%s' already registered", d.Name)
		}
		if d.Execute == nil {
			return nil, errors.Newf("tool '%s' has no executor", d.Name)
		}
		schemaJSON, err := d.SchemaJSON()
		if err != nil {
			return nil, err
		}
		if err := validator.Register(d.Name, schemaJSON); err != nil {
			return nil, errors.Wrapf(err, "failed to compile input schema for tool '%s'", d.Name)
		}

		r.index[d.Name] = len(r.descriptors)
		r.descriptors = append(r.descriptors, d)
		r.listing = append(r.listing, mcptypes.Tool{
			Name:        d.Name,
			Description: d.Description,
			InputSchema: json.RawMessage(schemaJSON),
			Annotations: d.Annotations,
		})
		r.logger.Debug("Registered tool.", "tool", d.Name)
	}
	return r, nil
}

// List returns the tool listing in registration order. The slice is a copy.
func (r *Registry) List() []mcptypes.Tool {
	out := make([]mcptypes.Tool, len(r.listing))
	copy(out, r.listing)
	return out
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (tools.Descriptor, bool) {
	i, ok := r.index[name]
	if !ok {
		return tools.Descriptor{}, false
	}
	return r.descriptors[i], true
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.descriptors)
}

// Call validates args against the tool's schema and runs its executor.
// Arguments that fail validation produce an isError result; the provider is
// not invoked. The returned error is non-nil only when the tool is unknown or
// the validator itself is broken.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (*mcptypes.CallToolResult, error) {
	d, ok := r.Lookup(name)
	if !ok {
		return nil, errors.Newf("tool '%s' is not registered", name)
	}
	if err := r.validator.Validate(ctx, name, args); err != nil {
		if !schema.IsArgumentError(err) {
			return nil, errors.Wrapf(err, "failed to validate arguments for tool '%s'", name)
		}
		var ve *schema.ValidationError
		msg := err.Error()
		if errors.As(err, &ve) {
			msg = ve.Message
		}
		r.logger.Debug("Tool arguments rejected.", "tool", name, "reason", msg)
		return mcptypes.NewErrorResult("Invalid arguments: " + msg), nil
	}
	result := d.Execute(ctx, args)
	if result == nil {
		return nil, errors.Newf("tool '%s' returned no result", name)
	}
	return result, nil
}
