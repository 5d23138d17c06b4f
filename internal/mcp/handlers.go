// file: internal/mcp/handlers.go
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dkoosis/syscontrol/internal/logging"
	"github.com/dkoosis/syscontrol/internal/mcp/mcperrors"
	"github.com/dkoosis/syscontrol/internal/mcp/router"
	"github.com/dkoosis/syscontrol/internal/mcptypes"
	"github.com/dkoosis/syscontrol/internal/metrics"
	"github.com/dkoosis/syscontrol/internal/version"
)

// Method names served by the dispatcher.
const (
	MethodInitialize  = "initialize"
	MethodPing        = "ping"
	MethodToolsList   = "tools/list"
	MethodToolsCall   = "tools/call"
	MethodInitialized = "notifications/initialized"
)

// Handler implements the MCP methods on top of a Registry.
type Handler struct {
	options  ServerOptions
	registry *Registry
	metrics  *metrics.Collector
	logger   logging.Logger

	// slot admits one tool execution at a time. It is released when the
	// execution returns, even if the call was already answered as timed out.
	slot    chan struct{}
	mu      sync.Mutex
	running string
}

// NewHandler creates a Handler. collector may be nil.
func NewHandler(opts ServerOptions, registry *Registry, collector *metrics.Collector, logger logging.Logger) *Handler {
	if logger == nil {
		logger = logging.GetNoopLogger()
	}
	return &Handler{
		options:  opts,
		registry: registry,
		metrics:  collector,
		logger:   logger.WithField("component", "mcp_handler"),
		slot:     make(chan struct{}, 1),
	}
}

// Routes returns the fixed method table.
func (h *Handler) Routes() []router.Route {
	return []router.Route{
		{Method: MethodInitialize, Handler: h.handleInitialize},
		{Method: MethodPing, Handler: h.handlePing},
		{Method: MethodToolsList, Handler: h.handleToolsList},
		{Method: MethodToolsCall, Handler: h.handleToolsCall},
		{Method: MethodInitialized, NotificationHandler: h.handleInitialized},
	}
}

// handleInitialize answers with the server's fixed identity and capabilities.
// The client's parameters are logged but never rejected.
func (h *Handler) handleInitialize(ctx context.Context, params json.RawMessage) (any, error) {
	var req mcptypes.InitializeRequest
	if len(params) > 0 {
		if err := json.Unmarshal(params, &req); err != nil {
			h.logger.Warn("Could not decode initialize params; continuing.", "error", err, "trace", logging.TraceID(ctx))
		}
	}
	h.logger.Info("Client initializing.",
		"clientName", req.ClientInfo.Name,
		"clientVersion", req.ClientInfo.Version,
		"clientProtocolVersion", req.ProtocolVersion,
		"trace", logging.TraceID(ctx))

	return mcptypes.InitializeResult{
		ProtocolVersion: mcptypes.ProtocolVersion,
		ServerInfo: mcptypes.Implementation{
			Name:    h.options.Name,
			Version: version.Get().Version,
		},
		Capabilities: mcptypes.ServerCapabilities{Tools: &mcptypes.ToolsCapability{}},
		Instructions: h.options.Instructions,
	}, nil
}

func (h *Handler) handlePing(_ context.Context, _ json.RawMessage) (any, error) {
	return struct{}{}, nil
}

func (h *Handler) handleToolsList(_ context.Context, _ json.RawMessage) (any, error) {
	return mcptypes.ListToolsResult{Tools: h.registry.List()}, nil
}

// handleInitialized records the end of the handshake.
func (h *Handler) handleInitialized(ctx context.Context, _ json.RawMessage) error {
	h.logger.Info("Client reported initialization complete.", "trace", logging.TraceID(ctx))
	return nil
}

// handleToolsCall decodes {name, arguments}, resolves the tool and runs it.
// Malformed params are protocol errors; everything the tool reports comes
// back inside a successful result.
func (h *Handler) handleToolsCall(ctx context.Context, params json.RawMessage) (any, error) {
	trimmed := bytes.TrimSpace(params)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, mcperrors.NewInvalidParamsError("missing params", nil, nil)
	}
	var req mcptypes.CallToolRequest
	if err := json.Unmarshal(trimmed, &req); err != nil {
		return nil, mcperrors.NewInvalidParamsError("params must be an object with a string name", err, nil)
	}
	if req.Name == "" {
		return nil, mcperrors.NewInvalidParamsError("missing tool name", nil, nil)
	}
	if _, ok := h.registry.Lookup(req.Name); !ok {
		return nil, mcperrors.NewToolNotFoundError(req.Name)
	}
	args := bytes.TrimSpace(req.Arguments)
	if len(args) > 0 && !bytes.Equal(args, []byte("null")) && args[0] != '{' {
		return nil, mcperrors.NewInvalidParamsError("arguments must be an object", nil,
			map[string]interface{}{"toolName": req.Name})
	}

	result, err := h.execute(ctx, req.Name, args)
	if err != nil {
		return nil, err
	}
	if h.metrics != nil {
		h.metrics.RecordToolCall(req.Name, result.IsError)
	}
	return result, nil
}

type callOutcome struct {
	result *mcptypes.CallToolResult
	err    error
}

func (h *Handler) markRunning(name string) {
	h.mu.Lock()
	h.running = name
	h.mu.Unlock()
}

func (h *Handler) release() {
	h.mu.Lock()
	h.running = ""
	h.mu.Unlock()
	<-h.slot
}

func (h *Handler) runningTool() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.running
}

// execute runs the tool under the configured call timeout. An execution that
// overruns is abandoned and reported as an isError result; it keeps the
// execution slot until it returns, so the next call waits for it within its
// own deadline.
func (h *Handler) execute(ctx context.Context, name string, args json.RawMessage) (*mcptypes.CallToolResult, error) {
	timeout := h.options.CallTimeout
	if timeout <= 0 {
		h.slot <- struct{}{}
		h.markRunning(name)
		defer h.release()
		return h.registry.Call(ctx, name, args)
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case h.slot <- struct{}{}:
		h.markRunning(name)
	case <-callCtx.Done():
		prev := h.runningTool()
		h.logger.Warn("Tool call not started; previous call still running.", "tool", name, "running", prev, "trace", logging.TraceID(ctx))
		return mcptypes.NewErrorResult(fmt.Sprintf("Tool %s not run: previous call to %s is still running", name, prev)), nil
	}

	done := make(chan callOutcome, 1)
	go func() {
		var out callOutcome
		defer func() {
			// The recovery middleware cannot see panics on this goroutine.
			if r := recover(); r != nil {
				out = callOutcome{err: errors.Newf("%v", r)}
			}
			h.release()
			done <- out
		}()
		out.result, out.err = h.registry.Call(callCtx, name, args)
	}()

	select {
	case out := <-done:
		if out.err != nil {
			return nil, out.err
		}
		return out.result, nil
	case <-callCtx.Done():
		h.logger.Warn("Tool call timed out.", "tool", name, "timeout", timeout, "trace", logging.TraceID(ctx))
		return mcptypes.NewErrorResult(fmt.Sprintf("Tool %s timed out after %s", name, timeout.Round(time.Millisecond))), nil
	}
}
