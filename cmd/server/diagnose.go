// file: cmd/server/diagnose.go
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/dkoosis/syscontrol/internal/config"
	"github.com/dkoosis/syscontrol/internal/logging"
	"github.com/dkoosis/syscontrol/internal/platform"
	"github.com/dkoosis/syscontrol/internal/tools"
	"github.com/dkoosis/syscontrol/pkg/util/format"
)

// PrintTools writes the tools/list payload as indented JSON.
func PrintTools(w io.Writer, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	registry, err := BuildRegistry(BuildProviders(cfg.Platform, logging.GetNoopLogger()), logging.GetNoopLogger())
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(map[string]any{"tools": registry.List()}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to render tool list")
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// RunDiagnostics queries every provider read-only and writes a report.
func RunDiagnostics(ctx context.Context, w io.Writer, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	return Diagnose(ctx, w, BuildProviders(cfg.Platform, logging.GetNoopLogger()))
}

var (
	statusOK     = color.New(color.FgGreen, color.Bold).SprintFunc()
	statusFailed = color.New(color.FgRed, color.Bold).SprintFunc()
)

// maxValueLen bounds a report cell so long device listings stay readable.
const maxValueLen = 72

// Diagnose writes a table with one row per check. No setter is called.
func Diagnose(ctx context.Context, w io.Writer, p tools.Providers) error {
	var rows [][]string
	add := func(section, check, value string, err error) {
		if err != nil {
			kind := platform.KindOf(err)
			rows = append(rows, []string{section, check, statusFailed("FAILED (" + string(kind) + ")"),
				err.Error() + "; " + platform.Hint(kind)})
			return
		}
		rows = append(rows, []string{section, check, statusOK("ok"), format.Truncate(value, maxValueLen)})
	}

	if p.Brightness != nil {
		level, err := p.Brightness.Get(ctx)
		add("brightness", "level", fmt.Sprintf("%d%%", level), err)
	}
	if p.Volume != nil {
		level, err := p.Volume.GetVolume(ctx)
		add("audio", "volume", fmt.Sprintf("%d%%", level), err)
		muted, err := p.Volume.GetMute(ctx)
		add("audio", "muted", fmt.Sprintf("%t", muted), err)
		devices, err := p.Volume.DescribeDevices(ctx)
		add("audio", "devices", renderValue(devices), err)
	}
	if p.SystemInfo != nil {
		for _, c := range platform.Categories() {
			info, err := p.SystemInfo.Query(ctx, c)
			if err != nil {
				add(string(c), "query", "", err)
				continue
			}
			keys := make([]string, 0, len(info))
			for k := range info {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				add(string(c), k, renderValue(info[k]), nil)
			}
		}
	}

	table, err := format.Columns([]string{"SECTION", "CHECK", "STATUS", "VALUE"}, rows)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, table)
	return errors.Wrap(err, "failed to write diagnostics")
}

func renderValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
