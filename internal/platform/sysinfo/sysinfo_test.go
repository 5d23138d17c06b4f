// file: internal/platform/sysinfo/sysinfo_test.go
package sysinfo

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/dkoosis/syscontrol/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticLister struct {
	names []string
	err   error
}

func (s staticLister) Devices(context.Context) ([]string, error) { return s.names, s.err }

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func setupTestProvider(t *testing.T) (*Provider, string) {
	t.Helper()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "power", "BAT0", "type"), "Battery\n")
	writeFile(t, filepath.Join(root, "power", "BAT0", "status"), "Discharging\n")
	writeFile(t, filepath.Join(root, "power", "BAT0", "capacity"), "87\n")
	writeFile(t, filepath.Join(root, "power", "AC", "type"), "Mains\n")
	writeFile(t, filepath.Join(root, "power", "AC", "online"), "0\n")

	writeFile(t, filepath.Join(root, "drm", "card0-eDP-1", "status"), "connected\n")
	writeFile(t, filepath.Join(root, "drm", "card0-HDMI-A-1", "status"), "disconnected\n")
	writeFile(t, filepath.Join(root, "drm", "version"), "drm 1.1.0\n")

	writeFile(t, filepath.Join(root, "asound", "cards"),
		" 0 [PCH            ]: HDA-Intel - HDA Intel PCH\n"+
			"                      HDA Intel PCH at 0xb1240000 irq 147\n"+
			" 1 [Headset        ]: USB-Audio - USB Headset\n")

	p := New(Options{
		PowerSupplyRoot: filepath.Join(root, "power"),
		DRMRoot:         filepath.Join(root, "drm"),
		AsoundCards:     filepath.Join(root, "asound", "cards"),
		Backlight:       staticLister{names: []string{"intel_backlight"}},
	}, nil)
	return p, root
}

func TestQuery_Hardware(t *testing.T) {
	p, _ := setupTestProvider(t)
	info, err := p.Query(context.Background(), platform.CategoryHardware)
	require.NoError(t, err)
	assert.Equal(t, runtime.GOOS, info["os"])
	assert.Equal(t, runtime.GOARCH, info["arch"])
	assert.Equal(t, runtime.NumCPU(), info["cpus"])
	if runtime.GOOS == "linux" {
		assert.Contains(t, info, "kernel")
		assert.Contains(t, info, "memory_total_bytes")
	}
}

func TestQuery_Power(t *testing.T) {
	p, _ := setupTestProvider(t)
	info, err := p.Query(context.Background(), platform.CategoryPower)
	require.NoError(t, err)
	supplies := info["supplies"].([]map[string]any)
	require.Len(t, supplies, 2)
	assert.Equal(t, "AC", supplies[0]["name"])
	assert.Equal(t, false, supplies[0]["online"])
	assert.Equal(t, "BAT0", supplies[1]["name"])
	assert.Equal(t, 87, supplies[1]["capacity"])
	assert.Equal(t, "Discharging", supplies[1]["status"])
}

func TestQuery_Display(t *testing.T) {
	p, _ := setupTestProvider(t)
	info, err := p.Query(context.Background(), platform.CategoryDisplay)
	require.NoError(t, err)
	assert.Equal(t, []string{"intel_backlight"}, info["backlight_devices"])
	connectors := info["connectors"].([]map[string]any)
	require.Len(t, connectors, 2)
	statuses := map[string]any{}
	for _, c := range connectors {
		statuses[c["name"].(string)] = c["status"]
	}
	assert.Equal(t, "connected", statuses["card0-eDP-1"])
	assert.Equal(t, "disconnected", statuses["card0-HDMI-A-1"])
}

func TestQuery_Audio(t *testing.T) {
	p, _ := setupTestProvider(t)
	info, err := p.Query(context.Background(), platform.CategoryAudio)
	require.NoError(t, err)
	cards := info["cards"].([]map[string]any)
	require.Len(t, cards, 2)
	assert.Equal(t, "PCH", cards[0]["id"])
	assert.Equal(t, "USB-Audio - USB Headset", cards[1]["description"])
	assert.NotContains(t, info, "devices")
}

func TestQuery_AllIsolatesFailures(t *testing.T) {
	p, root := setupTestProvider(t)
	require.NoError(t, os.RemoveAll(filepath.Join(root, "power")))
	p.opts.Backlight = staticLister{err: errors.New("boom")}

	info, err := p.Query(context.Background(), platform.CategoryAll)
	require.NoError(t, err)
	for _, key := range []string{"hardware", "display", "audio", "power"} {
		assert.Contains(t, info, key)
	}
	power := info["power"].(map[string]any)
	assert.Contains(t, power["error"], "no power supply interface")
	display := info["display"].(map[string]any)
	assert.Equal(t, "boom", display["backlight_error"])
	assert.NotContains(t, info["hardware"].(map[string]any), "error")
}

func TestQuery_UnknownCategory(t *testing.T) {
	p, _ := setupTestProvider(t)
	_, err := p.Query(context.Background(), platform.Category("network"))
	assert.Equal(t, platform.KindNotFound, platform.KindOf(err))
}

func TestQuery_Cancelled(t *testing.T) {
	p, _ := setupTestProvider(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Query(ctx, platform.CategoryAll)
	assert.ErrorIs(t, err, context.Canceled)
}
