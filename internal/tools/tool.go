// Package tools implements the tools the server exposes: brightness, volume
// and system inventory. Each tool is a Descriptor whose executor reports every
// domain failure as an isError result rather than a Go error.
// file: internal/tools/tool.go
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dkoosis/syscontrol/internal/logging"
	"github.com/dkoosis/syscontrol/internal/mcptypes"
	"github.com/dkoosis/syscontrol/internal/platform"
	"github.com/google/jsonschema-go/jsonschema"
)

// Executor runs a tool with raw JSON arguments. It never returns a protocol
// error; failures are carried in the result with IsError set.
type Executor func(ctx context.Context, args json.RawMessage) *mcptypes.CallToolResult

// Descriptor describes one registered tool.
type Descriptor struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
	Annotations *mcptypes.ToolAnnotations
	Execute     Executor
}

// SchemaJSON returns the marshaled input schema.
func (d Descriptor) SchemaJSON() ([]byte, error) {
	if d.InputSchema == nil {
		return nil, errors.Newf("tool %s has no input schema", d.Name)
	}
	b, err := json.Marshal(d.InputSchema)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal input schema for tool %s", d.Name)
	}
	return b, nil
}

// Providers bundles the capability providers the tools consume.
type Providers struct {
	Brightness platform.BrightnessProvider
	Volume     platform.VolumeProvider
	SystemInfo platform.SystemInfoProvider
}

// All returns every tool in registration order.
func All(p Providers, logger logging.Logger) []Descriptor {
	return []Descriptor{
		NewBrightnessTool(p.Brightness, logger),
		NewVolumeTool(p.Volume, logger),
		NewSystemInfoTool(p.SystemInfo, logger),
	}
}

// Percentage bounds shared by brightness and volume.
const (
	minPercent = 0
	maxPercent = 100
)

// levelArgs is the argument shape of the level-control tools.
type levelArgs struct {
	Action string   `json:"action"`
	Value  *float64 `json:"value,omitempty"`
}

func decodeArgs(args json.RawMessage, v any) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return errors.Wrap(err, "failed to decode arguments")
	}
	return nil
}

// percentArg checks that a set-style action carries a value within range and
// returns it rounded to an integer percentage.
func percentArg(action string, value *float64) (int, *mcptypes.CallToolResult) {
	if value == nil {
		return 0, mcptypes.NewErrorResult(fmt.Sprintf("value is required for action %q", action))
	}
	v := *value
	if math.IsNaN(v) || v < minPercent || v > maxPercent {
		return 0, mcptypes.NewErrorResult(fmt.Sprintf("value must be between %d and %d", minPercent, maxPercent))
	}
	return int(math.Round(v)), nil
}

func unsupportedAction(action string, supported []string) *mcptypes.CallToolResult {
	return mcptypes.NewErrorResult(fmt.Sprintf("Unsupported action %q. Supported actions: %s",
		action, strings.Join(supported, ", ")))
}

// providerFailure turns a provider error into an isError result that names
// the operation and the likely cause.
func providerFailure(logger logging.Logger, what string, err error) *mcptypes.CallToolResult {
	kind := platform.KindOf(err)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return mcptypes.NewErrorResult(fmt.Sprintf("Failed to %s: the operation was cancelled or timed out", what))
	}
	logger.Warn("Provider call failed.", "operation", what, "kind", kind, "error", err)
	return mcptypes.NewErrorResult(fmt.Sprintf("Failed to %s: %s (%v)", what, platform.Hint(kind), err))
}

func missingProvider(what string) *mcptypes.CallToolResult {
	return mcptypes.NewErrorResult(fmt.Sprintf("Failed to %s: %s", what, platform.Hint(platform.KindUnsupported)))
}

func jsonText(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to render result")
	}
	return string(b), nil
}

func ptr[T any](v T) *T {
	return &v
}

// levelSchema builds the schema shared by the level-control tools: an action
// enum plus a percentage value required when action is "set".
func levelSchema(actions []string, actionHelp string) *jsonschema.Schema {
	enum := make([]any, len(actions))
	for i, a := range actions {
		enum[i] = a
	}
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"action": {
				Type:        "string",
				Description: actionHelp,
				Enum:        enum,
			},
			"value": {
				Type:        "number",
				Description: "Target level in percent (0-100). Required when action is \"set\".",
				Minimum:     ptr(float64(minPercent)),
				Maximum:     ptr(float64(maxPercent)),
			},
		},
		Required: []string{"action"},
		If: &jsonschema.Schema{
			Properties: map[string]*jsonschema.Schema{"action": {Enum: []any{"set"}}},
			Required:   []string{"action"},
		},
		Then: &jsonschema.Schema{Required: []string{"value"}},
	}
}
