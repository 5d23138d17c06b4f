// Package server wires configuration, logging, providers and the MCP loop
// into the runnable syscontrol process.
// file: cmd/server/server_runner.go
package server

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dkoosis/syscontrol/internal/config"
	"github.com/dkoosis/syscontrol/internal/logging"
	"github.com/dkoosis/syscontrol/internal/mcp"
	"github.com/dkoosis/syscontrol/internal/metrics"
	"github.com/dkoosis/syscontrol/internal/transport"
	"github.com/dkoosis/syscontrol/internal/version"
)

// errorBufferSize is how many recent handler errors the metrics keep.
const errorBufferSize = 20

// Options selects the configuration and the process streams.
// Nil streams default to the process's stdin, stdout and stderr.
type Options struct {
	ConfigPath string
	Debug      bool
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
}

func (o *Options) defaults() {
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
}

// RunServer serves MCP over the configured streams until input ends, ctx is
// cancelled or SIGINT/SIGTERM arrives. It returns nil on a clean stop.
func RunServer(ctx context.Context, opts Options) error {
	opts.defaults()
	startTime := time.Now()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, cfg, err := setupLoggingAndConfig(opts)
	if err != nil {
		return err
	}
	logger.Info("Starting syscontrol server.",
		"version", version.Get().String(),
		"config_path", opts.ConfigPath,
		"call_timeout", cfg.Tools.CallTimeout,
		"debug_mode", opts.Debug)

	registry, err := BuildRegistry(BuildProviders(cfg.Platform, logger), logger)
	if err != nil {
		logger.Error("Failed to build tool registry.", "error", err)
		return err
	}

	collector := metrics.NewMetricsCollector(errorBufferSize)
	t := transport.NewNDJSONTransport(opts.Stdin, opts.Stdout, nil, cfg.Transport.MaxMessageBytes, logger)
	defer func() {
		if closeErr := t.Close(); closeErr != nil {
			logger.Warn("Error closing transport.", "error", closeErr)
		}
	}()

	srv, err := mcp.NewServer(mcp.ServerOptions{
		Name:         cfg.Server.Name,
		Instructions: cfg.Server.Instructions,
		CallTimeout:  cfg.Tools.CallTimeout,
	}, registry, t, collector, logger)
	if err != nil {
		logger.Error("Failed to create MCP server.", "error", err)
		return errors.Wrap(err, "failed to create MCP server")
	}

	logger.Info("Server startup complete.", "tools", registry.Len(), "startup_time_ms", time.Since(startTime).Milliseconds())
	serveErr := srv.Serve(ctx)
	logShutdownMetrics(collector, logger)
	if serveErr != nil {
		logger.Error("Message loop failed.", "error", serveErr)
		return serveErr
	}
	logger.Info("Server stopped.", "uptime", time.Since(startTime).Round(time.Millisecond))
	return nil
}

// setupLoggingAndConfig loads .env and the configuration, then installs the
// stderr logger at the configured (or debug) level.
func setupLoggingAndConfig(opts Options) (logging.Logger, *config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to load configuration")
	}
	level := cfg.Logging.Level
	if opts.Debug {
		level = "debug"
	}
	logging.InitLoggingWithFormat(level, cfg.Logging.Format, opts.Stderr)
	return logging.GetLogger("server_runner"), cfg, nil
}

func logShutdownMetrics(collector *metrics.Collector, logger logging.Logger) {
	snapshot := collector.GetCurrentMetrics()
	b, err := json.Marshal(snapshot)
	if err != nil {
		logger.Warn("Could not render metrics.", "error", err)
		return
	}
	logger.Info("Final server metrics.",
		"total_requests", snapshot.TotalRequests,
		"failed_requests", snapshot.FailedRequests,
		"parse_errors", snapshot.ParseErrors,
		"metrics", string(b))
}
