// file: internal/tools/brightness.go
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dkoosis/syscontrol/internal/logging"
	"github.com/dkoosis/syscontrol/internal/mcptypes"
	"github.com/dkoosis/syscontrol/internal/platform"
)

// BrightnessToolName is the registered name of the brightness tool.
const BrightnessToolName = "adjust_brightness"

var brightnessActions = []string{"get", "set"}

// NewBrightnessTool returns the adjust_brightness tool backed by p.
func NewBrightnessTool(p platform.BrightnessProvider, logger logging.Logger) Descriptor {
	if logger == nil {
		logger = logging.GetNoopLogger()
	}
	t := &brightnessTool{provider: p, logger: logger.WithField("tool", BrightnessToolName)}
	return Descriptor{
		Name:        BrightnessToolName,
		Description: "Get or set the display brightness as a percentage (0-100).",
		InputSchema: levelSchema(brightnessActions, "\"get\" reads the current brightness; \"set\" changes it to value."),
		Annotations: &mcptypes.ToolAnnotations{Title: "Adjust Brightness", IdempotentHint: true},
		Execute:     t.execute,
	}
}

type brightnessTool struct {
	provider platform.BrightnessProvider
	logger   logging.Logger
}

func (t *brightnessTool) execute(ctx context.Context, raw json.RawMessage) *mcptypes.CallToolResult {
	var args levelArgs
	if err := decodeArgs(raw, &args); err != nil {
		return mcptypes.NewErrorResult("Invalid arguments: " + err.Error())
	}
	if t.provider == nil {
		return missingProvider("control brightness")
	}

	switch args.Action {
	case "get":
		level, err := t.provider.Get(ctx)
		if err != nil {
			return providerFailure(t.logger, "read brightness", err)
		}
		return mcptypes.NewTextResult(fmt.Sprintf("Current brightness: %d%%", level))

	case "set":
		level, invalid := percentArg(args.Action, args.Value)
		if invalid != nil {
			return invalid
		}
		if err := t.provider.Set(ctx, level); err != nil {
			return providerFailure(t.logger, "set brightness", err)
		}
		t.logger.Info("Brightness changed.", "percent", level)
		return mcptypes.NewTextResult(fmt.Sprintf("Brightness set to %d%%", level))

	default:
		return unsupportedAction(args.Action, brightnessActions)
	}
}
