// Package audio controls output volume through PulseAudio/PipeWire's pactl CLI.
// file: internal/platform/audio/pactl.go
package audio

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/dkoosis/syscontrol/internal/logging"
	"github.com/dkoosis/syscontrol/internal/platform"
)

// DefaultSink addresses whatever sink the sound server currently routes to.
const DefaultSink = "@DEFAULT_SINK@"

var percentRe = regexp.MustCompile(`(\d+)%`)

// Pactl is a platform.VolumeProvider that shells out to pactl.
type Pactl struct {
	path   string
	sink   string
	runner Runner
	logger logging.Logger
}

var _ platform.VolumeProvider = (*Pactl)(nil)

// NewPactl creates a pactl-backed provider. A nil runner uses ExecRunner.
func NewPactl(path, sink string, runner Runner, logger logging.Logger) *Pactl {
	if path == "" {
		path = "pactl"
	}
	if sink == "" {
		sink = DefaultSink
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = logging.GetNoopLogger()
	}
	return &Pactl{path: path, sink: sink, runner: runner, logger: logger.WithField("provider", "pactl")}
}

// GetVolume returns the volume of the first channel as a percentage.
func (p *Pactl) GetVolume(ctx context.Context) (int, error) {
	out, err := p.run(ctx, "get-sink-volume", p.sink)
	if err != nil {
		return 0, err
	}
	m := percentRe.FindSubmatch(out)
	if m == nil {
		return 0, platform.NewError(platform.KindFailed, "pactl get-sink-volume",
			"unrecognized output: "+strings.TrimSpace(string(out)), nil)
	}
	v, err := strconv.Atoi(string(m[1]))
	if err != nil {
		return 0, platform.NewError(platform.KindFailed, "pactl get-sink-volume", "bad percentage", err)
	}
	return v, nil
}

// SetVolume sets every channel of the sink to percent.
func (p *Pactl) SetVolume(ctx context.Context, percent int) error {
	if percent < 0 || percent > 100 {
		return platform.NewError(platform.KindFailed, "pactl set-sink-volume", "value must be between 0 and 100", nil)
	}
	_, err := p.run(ctx, "set-sink-volume", p.sink, strconv.Itoa(percent)+"%")
	return err
}

// GetMute reports whether the sink is muted.
func (p *Pactl) GetMute(ctx context.Context) (bool, error) {
	out, err := p.run(ctx, "get-sink-mute", p.sink)
	if err != nil {
		return false, err
	}
	line := strings.ToLower(strings.TrimSpace(string(out)))
	switch {
	case strings.HasSuffix(line, "yes"):
		return true, nil
	case strings.HasSuffix(line, "no"):
		return false, nil
	}
	return false, platform.NewError(platform.KindFailed, "pactl get-sink-mute", "unrecognized output: "+line, nil)
}

// SetMute mutes or unmutes the sink.
func (p *Pactl) SetMute(ctx context.Context, muted bool) error {
	flag := "0"
	if muted {
		flag = "1"
	}
	_, err := p.run(ctx, "set-sink-mute", p.sink, flag)
	return err
}

// DescribeDevices lists the sinks known to the sound server and the default one.
func (p *Pactl) DescribeDevices(ctx context.Context) (map[string]any, error) {
	out, err := p.run(ctx, "list", "short", "sinks")
	if err != nil {
		return nil, err
	}
	sinks := parseShortSinks(string(out))

	info := map[string]any{
		"sinks": sinks,
		"count": len(sinks),
	}
	if def, err := p.run(ctx, "get-default-sink"); err == nil {
		info["default_sink"] = strings.TrimSpace(string(def))
	} else {
		p.logger.Debug("get-default-sink unavailable.", "error", err)
	}
	return info, nil
}

func (p *Pactl) run(ctx context.Context, args ...string) ([]byte, error) {
	out, err := p.runner.Run(ctx, p.path, args...)
	if err != nil {
		p.logger.Debug("pactl failed.", "args", args, "error", err)
		return nil, err
	}
	return out, nil
}

// parseShortSinks parses `pactl list short sinks`: tab-separated
// index, name, driver, sample spec, state.
func parseShortSinks(out string) []map[string]any {
	sinks := make([]map[string]any, 0)
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		sink := map[string]any{"name": fields[0]}
		if len(fields) >= 2 {
			if idx, err := strconv.Atoi(fields[0]); err == nil {
				sink["index"] = idx
			}
			sink["name"] = fields[1]
		}
		if len(fields) >= 3 {
			sink["driver"] = fields[2]
		}
		if len(fields) >= 4 {
			sink["sample_spec"] = fields[3]
		}
		if len(fields) >= 5 {
			sink["state"] = fields[4]
		}
		sinks = append(sinks, sink)
	}
	return sinks
}
