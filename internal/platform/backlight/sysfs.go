// Package backlight controls display brightness through the Linux sysfs
// backlight class (/sys/class/backlight/<device>/{brightness,max_brightness}).
// file: internal/platform/backlight/sysfs.go
package backlight

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dkoosis/syscontrol/internal/logging"
	"github.com/dkoosis/syscontrol/internal/platform"
)

// DefaultRoot is the sysfs backlight class directory.
const DefaultRoot = "/sys/class/backlight"

// Sysfs is a platform.BrightnessProvider backed by sysfs files.
type Sysfs struct {
	root   string
	device string // Empty selects the first device in root.
	logger logging.Logger
}

var _ platform.BrightnessProvider = (*Sysfs)(nil)

// New creates a sysfs brightness provider.
func New(root, device string, logger logging.Logger) *Sysfs {
	if root == "" {
		root = DefaultRoot
	}
	if logger == nil {
		logger = logging.GetNoopLogger()
	}
	return &Sysfs{root: root, device: device, logger: logger.WithField("provider", "backlight")}
}

// Devices lists the backlight device names under root, sorted.
func (s *Sysfs) Devices(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, platform.NewError(platform.KindUnsupported, "backlight.devices",
				"no backlight interface at "+s.root, err)
		}
		return nil, platform.Classify("backlight.devices", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		// Class entries are usually symlinks into /sys/devices.
		if e.IsDir() || e.Type()&os.ModeSymlink != 0 {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Get returns the current brightness as a percentage of max_brightness.
func (s *Sysfs) Get(ctx context.Context) (int, error) {
	dir, err := s.deviceDir(ctx)
	if err != nil {
		return 0, err
	}
	raw, err := readInt(filepath.Join(dir, "brightness"))
	if err != nil {
		return 0, platform.Classify("backlight.get", err)
	}
	maxRaw, err := s.maxBrightness(dir)
	if err != nil {
		return 0, err
	}
	return int(math.Round(float64(raw) * 100 / float64(maxRaw))), nil
}

// Set writes a brightness percentage, scaled to the device range.
func (s *Sysfs) Set(ctx context.Context, percent int) error {
	if percent < 0 || percent > 100 {
		return platform.NewError(platform.KindFailed, "backlight.set", "value must be between 0 and 100", nil)
	}
	dir, err := s.deviceDir(ctx)
	if err != nil {
		return err
	}
	maxRaw, err := s.maxBrightness(dir)
	if err != nil {
		return err
	}
	raw := int(math.Round(float64(percent) * float64(maxRaw) / 100))

	f, err := os.OpenFile(filepath.Join(dir, "brightness"), os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return platform.Classify("backlight.set", err)
	}
	if _, err := f.WriteString(strconv.Itoa(raw)); err != nil {
		_ = f.Close()
		return platform.Classify("backlight.set", err)
	}
	if err := f.Close(); err != nil {
		return platform.Classify("backlight.set", err)
	}
	s.logger.Debug("Brightness written.", "device", filepath.Base(dir), "percent", percent, "raw", raw, "max", maxRaw)
	return nil
}

func (s *Sysfs) deviceDir(ctx context.Context) (string, error) {
	if s.device != "" {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		dir := filepath.Join(s.root, s.device)
		if _, err := os.Stat(dir); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", platform.NewError(platform.KindNotFound, "backlight",
					"backlight device "+s.device+" not found", err)
			}
			return "", platform.Classify("backlight", err)
		}
		return dir, nil
	}
	names, err := s.Devices(ctx)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", platform.NewError(platform.KindNotFound, "backlight", "no backlight device under "+s.root, nil)
	}
	return filepath.Join(s.root, names[0]), nil
}

func (s *Sysfs) maxBrightness(dir string) (int, error) {
	maxRaw, err := readInt(filepath.Join(dir, "max_brightness"))
	if err != nil {
		return 0, platform.Classify("backlight.max", err)
	}
	if maxRaw <= 0 {
		return 0, platform.NewError(platform.KindFailed, "backlight.max",
			"max_brightness is "+strconv.Itoa(maxRaw), nil)
	}
	return maxRaw, nil
}

func readInt(path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		return 0, errors.Wrapf(err, "parse %s", path)
	}
	return v, nil
}
