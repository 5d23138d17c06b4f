// Package sysinfo reports system inventory grouped by category.
// file: internal/platform/sysinfo/sysinfo.go
package sysinfo

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/dkoosis/syscontrol/internal/logging"
	"github.com/dkoosis/syscontrol/internal/platform"
	"golang.org/x/sync/errgroup"
)

// Default locations of the inventory sources.
const (
	DefaultPowerSupplyRoot = "/sys/class/power_supply"
	DefaultDRMRoot         = "/sys/class/drm"
	DefaultAsoundCards     = "/proc/asound/cards"
)

// DeviceLister lists backlight devices.
type DeviceLister interface {
	Devices(ctx context.Context) ([]string, error)
}

// Options configures the inventory sources. Zero values select the defaults.
type Options struct {
	PowerSupplyRoot string
	DRMRoot         string
	AsoundCards     string
	Backlight       DeviceLister            // Optional.
	Volume          platform.VolumeProvider // Optional.
}

// Provider is a platform.SystemInfoProvider reading procfs and sysfs.
type Provider struct {
	opts   Options
	logger logging.Logger
}

var _ platform.SystemInfoProvider = (*Provider)(nil)

// New creates a Provider.
func New(opts Options, logger logging.Logger) *Provider {
	if opts.PowerSupplyRoot == "" {
		opts.PowerSupplyRoot = DefaultPowerSupplyRoot
	}
	if opts.DRMRoot == "" {
		opts.DRMRoot = DefaultDRMRoot
	}
	if opts.AsoundCards == "" {
		opts.AsoundCards = DefaultAsoundCards
	}
	if logger == nil {
		logger = logging.GetNoopLogger()
	}
	return &Provider{opts: opts, logger: logger.WithField("provider", "sysinfo")}
}

// Query returns the inventory for category. For CategoryAll every category
// is collected concurrently; a category that fails is reported under its own
// key as {"error": message} and does not fail the query.
func (p *Provider) Query(ctx context.Context, category Category) (map[string]any, error) {
	if category == platform.CategoryAll {
		return p.queryAll(ctx)
	}
	collect, ok := p.collectors()[category]
	if !ok {
		return nil, platform.NewError(platform.KindNotFound, "sysinfo.query", "unknown category "+string(category), nil)
	}
	return collect(ctx)
}

// Category is re-exported for callers that only import this package.
type Category = platform.Category

func (p *Provider) collectors() map[Category]func(context.Context) (map[string]any, error) {
	return map[Category]func(context.Context) (map[string]any, error){
		platform.CategoryHardware: p.hardware,
		platform.CategoryDisplay:  p.display,
		platform.CategoryAudio:    p.audio,
		platform.CategoryPower:    p.power,
	}
}

func (p *Provider) queryAll(ctx context.Context) (map[string]any, error) {
	var mu sync.Mutex
	result := make(map[string]any, len(platform.Categories()))
	collectors := p.collectors()

	g, gCtx := errgroup.WithContext(ctx)
	for _, cat := range platform.Categories() {
		collect := collectors[cat]
		g.Go(func() error {
			info, err := collect(gCtx)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				p.logger.Warn("Inventory category failed.", "category", cat, "error", err)
				info = map[string]any{"error": err.Error()}
			}
			mu.Lock()
			result[string(cat)] = info
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

func (p *Provider) hardware(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info := map[string]any{
		"os":   runtime.GOOS,
		"arch": runtime.GOARCH,
		"cpus": runtime.NumCPU(),
	}
	if host, err := os.Hostname(); err == nil {
		info["hostname"] = host
	}
	for k, v := range hostFacts() {
		info[k] = v
	}
	return info, nil
}

func (p *Provider) display(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info := map[string]any{}
	if p.opts.Backlight != nil {
		devices, err := p.opts.Backlight.Devices(ctx)
		if err != nil {
			info["backlight_error"] = err.Error()
		} else {
			info["backlight_devices"] = devices
		}
	}

	connectors, err := drmConnectors(p.opts.DRMRoot)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, platform.Classify("sysinfo.display", err)
	}
	info["connectors"] = connectors
	return info, nil
}

func (p *Provider) audio(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cards, err := soundCards(p.opts.AsoundCards)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, platform.Classify("sysinfo.audio", err)
	}
	info := map[string]any{"cards": cards}
	if p.opts.Volume != nil {
		devices, err := p.opts.Volume.DescribeDevices(ctx)
		if err != nil {
			info["devices_error"] = err.Error()
		} else {
			info["devices"] = devices
		}
	}
	return info, nil
}

func (p *Provider) power(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(p.opts.PowerSupplyRoot)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, platform.NewError(platform.KindUnsupported, "sysinfo.power",
				"no power supply interface at "+p.opts.PowerSupplyRoot, err)
		}
		return nil, platform.Classify("sysinfo.power", err)
	}

	supplies := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		dir := filepath.Join(p.opts.PowerSupplyRoot, e.Name())
		supply := map[string]any{"name": e.Name()}
		for _, attr := range []string{"type", "status"} {
			if v, ok := readAttr(dir, attr); ok {
				supply[attr] = v
			}
		}
		if v, ok := readAttr(dir, "capacity"); ok {
			if n, err := strconv.Atoi(v); err == nil {
				supply["capacity"] = n
			}
		}
		if v, ok := readAttr(dir, "online"); ok {
			supply["online"] = v == "1"
		}
		supplies = append(supplies, supply)
	}
	sort.Slice(supplies, func(i, j int) bool {
		return supplies[i]["name"].(string) < supplies[j]["name"].(string)
	})
	return map[string]any{"supplies": supplies}, nil
}

// drmConnectors lists card connectors (entries named cardN-<connector>) with their status.
func drmConnectors(root string) ([]map[string]any, error) {
	connectors := make([]map[string]any, 0)
	entries, err := os.ReadDir(root)
	if err != nil {
		return connectors, err
	}
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, "card") || !strings.Contains(name, "-") {
			continue
		}
		conn := map[string]any{"name": name}
		if v, ok := readAttr(filepath.Join(root, name), "status"); ok {
			conn["status"] = v
		}
		if v, ok := readAttr(filepath.Join(root, name), "enabled"); ok {
			conn["enabled"] = v
		}
		connectors = append(connectors, conn)
	}
	return connectors, nil
}

// cardLine matches the first line of a card entry in /proc/asound/cards:
// " 0 [PCH            ]: HDA-Intel - HDA Intel PCH".
var cardLine = regexp.MustCompile(`^\s*(\d+)\s+\[([^\]]+)\]:\s*(.*)$`)

func soundCards(path string) ([]map[string]any, error) {
	cards := make([]map[string]any, 0)
	f, err := os.Open(path)
	if err != nil {
		return cards, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		m := cardLine.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		idx, _ := strconv.Atoi(m[1])
		cards = append(cards, map[string]any{
			"index":       idx,
			"id":          strings.TrimSpace(m[2]),
			"description": strings.TrimSpace(m[3]),
		})
	}
	return cards, errors.Wrap(scanner.Err(), "read sound cards")
}

func readAttr(dir, name string) (string, bool) {
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(b)), true
}
