// file: internal/tools/volume.go
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dkoosis/syscontrol/internal/logging"
	"github.com/dkoosis/syscontrol/internal/mcptypes"
	"github.com/dkoosis/syscontrol/internal/platform"
)

// VolumeToolName is the registered name of the volume tool.
const VolumeToolName = "adjust_volume"

var volumeActions = []string{"get", "set", "mute", "unmute", "toggle_mute", "devices"}

// NewVolumeTool returns the adjust_volume tool backed by p.
func NewVolumeTool(p platform.VolumeProvider, logger logging.Logger) Descriptor {
	if logger == nil {
		logger = logging.GetNoopLogger()
	}
	t := &volumeTool{provider: p, logger: logger.WithField("tool", VolumeToolName)}
	return Descriptor{
		Name:        VolumeToolName,
		Description: "Get or set the output volume (0-100), mute, unmute or toggle mute, or list audio output devices.",
		InputSchema: levelSchema(volumeActions,
			"\"get\" reads volume and mute state; \"set\" changes the volume to value; \"mute\", \"unmute\" and \"toggle_mute\" change the mute state; \"devices\" lists output devices."),
		Annotations: &mcptypes.ToolAnnotations{Title: "Adjust Volume"},
		Execute:     t.execute,
	}
}

type volumeTool struct {
	provider platform.VolumeProvider
	logger   logging.Logger
}

func (t *volumeTool) execute(ctx context.Context, raw json.RawMessage) *mcptypes.CallToolResult {
	var args levelArgs
	if err := decodeArgs(raw, &args); err != nil {
		return mcptypes.NewErrorResult("Invalid arguments: " + err.Error())
	}
	if t.provider == nil {
		return missingProvider("control volume")
	}

	switch args.Action {
	case "get":
		level, err := t.provider.GetVolume(ctx)
		if err != nil {
			return providerFailure(t.logger, "read volume", err)
		}
		muted, err := t.provider.GetMute(ctx)
		if err != nil {
			return providerFailure(t.logger, "read mute state", err)
		}
		return mcptypes.NewTextResult(fmt.Sprintf("Current volume: %d%% (%s)", level, muteWord(muted)))

	case "set":
		level, invalid := percentArg(args.Action, args.Value)
		if invalid != nil {
			return invalid
		}
		if err := t.provider.SetVolume(ctx, level); err != nil {
			return providerFailure(t.logger, "set volume", err)
		}
		t.logger.Info("Volume changed.", "percent", level)
		return mcptypes.NewTextResult(fmt.Sprintf("Volume set to %d%%", level))

	case "mute", "unmute":
		return t.setMute(ctx, args.Action == "mute")

	case "toggle_mute":
		muted, err := t.provider.GetMute(ctx)
		if err != nil {
			return providerFailure(t.logger, "read mute state", err)
		}
		return t.setMute(ctx, !muted)

	case "devices":
		devices, err := t.provider.DescribeDevices(ctx)
		if err != nil {
			return providerFailure(t.logger, "list audio devices", err)
		}
		text, err := jsonText(devices)
		if err != nil {
			return mcptypes.NewErrorResult(err.Error())
		}
		return mcptypes.NewTextResult(text)

	default:
		return unsupportedAction(args.Action, volumeActions)
	}
}

func (t *volumeTool) setMute(ctx context.Context, muted bool) *mcptypes.CallToolResult {
	if err := t.provider.SetMute(ctx, muted); err != nil {
		return providerFailure(t.logger, "change mute state", err)
	}
	t.logger.Info("Mute state changed.", "muted", muted)
	return mcptypes.NewTextResult("Audio " + muteWord(muted))
}

func muteWord(muted bool) string {
	if muted {
		return "muted"
	}
	return "unmuted"
}
