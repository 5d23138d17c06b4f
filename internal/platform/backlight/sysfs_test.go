// file: internal/platform/backlight/sysfs_test.go
package backlight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dkoosis/syscontrol/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDevice(t *testing.T, root, name, brightness, maxBrightness string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "brightness"), []byte(brightness), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "max_brightness"), []byte(maxBrightness), 0o644))
	return dir
}

func TestSysfs_GetAndSet(t *testing.T) {
	root := t.TempDir()
	dir := writeDevice(t, root, "intel_backlight", "9600\n", "19200\n")
	p := New(root, "", nil)
	ctx := context.Background()

	got, err := p.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, got)

	require.NoError(t, p.Set(ctx, 25))
	raw, err := os.ReadFile(filepath.Join(dir, "brightness"))
	require.NoError(t, err)
	assert.Equal(t, "4800", string(raw))

	got, err = p.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25, got)
}

func TestSysfs_Rounding(t *testing.T) {
	root := t.TempDir()
	dir := writeDevice(t, root, "acpi_video0", "1", "7")
	p := New(root, "acpi_video0", nil)

	got, err := p.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 14, got)

	require.NoError(t, p.Set(context.Background(), 100))
	raw, _ := os.ReadFile(filepath.Join(dir, "brightness"))
	assert.Equal(t, "7", string(raw))
}

func TestSysfs_FirstDeviceSelected(t *testing.T) {
	root := t.TempDir()
	writeDevice(t, root, "b_dev", "10", "10")
	writeDevice(t, root, "a_dev", "0", "10")

	got, err := New(root, "", nil).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	names, err := New(root, "", nil).Devices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a_dev", "b_dev"}, names)
}

func TestSysfs_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := New(filepath.Join(t.TempDir(), "absent"), "", nil).Get(ctx)
	assert.Equal(t, platform.KindUnsupported, platform.KindOf(err))

	_, err = New(t.TempDir(), "", nil).Get(ctx)
	assert.Equal(t, platform.KindNotFound, platform.KindOf(err))

	_, err = New(t.TempDir(), "ghost", nil).Get(ctx)
	assert.Equal(t, platform.KindNotFound, platform.KindOf(err))

	root := t.TempDir()
	writeDevice(t, root, "zero", "0", "0")
	_, err = New(root, "zero", nil).Get(ctx)
	assert.Equal(t, platform.KindFailed, platform.KindOf(err))

	err = New(root, "zero", nil).Set(ctx, 101)
	assert.Equal(t, platform.KindFailed, platform.KindOf(err))
}

func TestSysfs_CancelledContext(t *testing.T) {
	root := t.TempDir()
	writeDevice(t, root, "dev", "5", "10")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(root, "", nil).Get(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
