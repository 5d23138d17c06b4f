// file: cmd/server/components.go
package server

import (
	"github.com/cockroachdb/errors"
	"github.com/dkoosis/syscontrol/internal/config"
	"github.com/dkoosis/syscontrol/internal/logging"
	"github.com/dkoosis/syscontrol/internal/mcp"
	"github.com/dkoosis/syscontrol/internal/platform/audio"
	"github.com/dkoosis/syscontrol/internal/platform/backlight"
	"github.com/dkoosis/syscontrol/internal/platform/sysinfo"
	"github.com/dkoosis/syscontrol/internal/schema"
	"github.com/dkoosis/syscontrol/internal/tools"
)

// BuildProviders creates the Linux capability providers described by cfg.
func BuildProviders(cfg config.PlatformConfig, logger logging.Logger) tools.Providers {
	bl := backlight.New(cfg.BacklightRoot, cfg.BacklightDevice, logger)
	vol := audio.NewPactl(cfg.PactlPath, cfg.Sink, nil, logger)
	info := sysinfo.New(sysinfo.Options{
		PowerSupplyRoot: cfg.PowerSupplyRoot,
		DRMRoot:         cfg.DRMRoot,
		AsoundCards:     cfg.AsoundCards,
		Backlight:       bl,
		Volume:          vol,
	}, logger)
	return tools.Providers{Brightness: bl, Volume: vol, SystemInfo: info}
}

// BuildRegistry registers every tool backed by providers.
func BuildRegistry(providers tools.Providers, logger logging.Logger) (*mcp.Registry, error) {
	registry, err := mcp.NewRegistry(schema.NewValidator(logger), logger, tools.All(providers, logger)...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build tool registry")
	}
	return registry, nil
}
