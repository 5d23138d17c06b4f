// Package config handles loading, parsing, and validating application configuration.
// Settings come from built-in defaults, then an optional YAML file, then
// SYSCONTROL_* environment variables, which may themselves be seeded from a .env file.
// file: internal/config/config.go
package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dkoosis/syscontrol/internal/logging"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file and default values.
const (
	EnvServerName      = "SYSCONTROL_SERVER_NAME"
	EnvLogLevel        = "SYSCONTROL_LOG_LEVEL"
	EnvLogFormat       = "SYSCONTROL_LOG_FORMAT"
	EnvCallTimeout     = "SYSCONTROL_CALL_TIMEOUT"
	EnvBacklightDevice = "SYSCONTROL_BACKLIGHT_DEVICE"
	EnvPactl           = "SYSCONTROL_PACTL"
	EnvSink            = "SYSCONTROL_SINK"
)

// ServerConfig contains settings reported to the client during initialize.
type ServerConfig struct {
	// Name is sent as serverInfo.name.
	Name string `yaml:"name"`
	// Instructions is sent in the initialize result. Empty selects the built-in text.
	Instructions string `yaml:"instructions"`
}

// LoggingConfig controls the stderr logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn or error.
	Format string `yaml:"format"` // text or json.
}

// TransportConfig bounds inbound messages.
type TransportConfig struct {
	MaxMessageBytes int `yaml:"max_message_bytes"`
}

// ToolsConfig controls tool execution.
type ToolsConfig struct {
	// CallTimeout bounds one tools/call execution. Zero disables the bound.
	CallTimeout time.Duration `yaml:"call_timeout"`
}

// PlatformConfig locates the system interfaces the providers read and drive.
type PlatformConfig struct {
	BacklightRoot   string `yaml:"backlight_root"`
	BacklightDevice string `yaml:"backlight_device"` // First device when empty.
	PactlPath       string `yaml:"pactl_path"`
	Sink            string `yaml:"sink"`
	PowerSupplyRoot string `yaml:"power_supply_root"`
	DRMRoot         string `yaml:"drm_root"`
	AsoundCards     string `yaml:"asound_cards"`
}

// Config is the root configuration structure.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Transport TransportConfig `yaml:"transport"`
	Tools     ToolsConfig     `yaml:"tools"`
	Platform  PlatformConfig  `yaml:"platform"`
}

// DefaultConfig returns a configuration populated with default values.
// Environment variables are not consulted.
func DefaultConfig() *Config {
	return &Config{
		Server:    ServerConfig{Name: "syscontrol"},
		Logging:   LoggingConfig{Level: "info", Format: "text"},
		Transport: TransportConfig{MaxMessageBytes: 1024 * 1024},
		Tools:     ToolsConfig{CallTimeout: 30 * time.Second},
		Platform: PlatformConfig{
			BacklightRoot:   "/sys/class/backlight",
			PactlPath:       "pactl",
			Sink:            "@DEFAULT_SINK@",
			PowerSupplyRoot: "/sys/class/power_supply",
			DRMRoot:         "/sys/class/drm",
			AsoundCards:     "/proc/asound/cards",
		},
	}
}

// LoadDotEnv loads variables from the given .env files (default ".env") into
// the process environment without overriding variables already set. Missing
// files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return errors.Wrapf(err, "failed to load env file: %s", p)
		}
	}
	return nil
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is non-empty), then environment overrides. The result is validated.
// Supports '~' expansion in path.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := applyEnvironmentOverrides(cfg, logging.GetLogger("config")); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	expanded, err := expandHome(path)
	if err != nil {
		return err
	}
	// #nosec G304 -- Path comes from a command-line flag.
	data, err := os.ReadFile(expanded)
	if err != nil {
		return errors.Wrapf(err, "failed to read config file: %s", expanded)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.Wrapf(err, "failed to parse config file YAML: %s", expanded)
	}
	return nil
}

// applyEnvironmentOverrides applies SYSCONTROL_* variables. Environment
// values take precedence over the file and the defaults.
func applyEnvironmentOverrides(c *Config, logger logging.Logger) error {
	override := func(env string, target *string) {
		if v, ok := os.LookupEnv(env); ok && v != "" {
			logger.Debug("Overriding setting from environment.", "envVar", env, "value", v)
			*target = v
		}
	}
	override(EnvServerName, &c.Server.Name)
	override(EnvLogLevel, &c.Logging.Level)
	override(EnvLogFormat, &c.Logging.Format)
	override(EnvBacklightDevice, &c.Platform.BacklightDevice)
	override(EnvPactl, &c.Platform.PactlPath)
	override(EnvSink, &c.Platform.Sink)

	if v := os.Getenv(EnvCallTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrapf(err, "invalid %s value %q", EnvCallTimeout, v)
		}
		logger.Debug("Overriding setting from environment.", "envVar", EnvCallTimeout, "value", d)
		c.Tools.CallTimeout = d
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Name) == "" {
		return errors.New("server.name must not be empty")
	}
	if c.Transport.MaxMessageBytes <= 0 {
		return errors.Newf("transport.max_message_bytes must be positive, got %d", c.Transport.MaxMessageBytes)
	}
	if c.Tools.CallTimeout < 0 {
		return errors.Newf("tools.call_timeout must not be negative, got %s", c.Tools.CallTimeout)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return errors.Wrapf(err, "invalid logging.level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return errors.Newf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory to expand path")
	}
	return filepath.Join(homeDir, path[1:]), nil
}
