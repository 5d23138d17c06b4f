// file: internal/mcp/server.go
package mcp

import (
	"bytes"
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dkoosis/syscontrol/internal/jsonrpc"
	"github.com/dkoosis/syscontrol/internal/logging"
	"github.com/dkoosis/syscontrol/internal/mcp/mcperrors"
	"github.com/dkoosis/syscontrol/internal/mcp/router"
	"github.com/dkoosis/syscontrol/internal/mcp/state"
	"github.com/dkoosis/syscontrol/internal/metrics"
	"github.com/dkoosis/syscontrol/internal/middleware"
	"github.com/dkoosis/syscontrol/internal/transport"
	"github.com/google/uuid"
)

// DefaultInstructions is sent in the initialize result when none are configured.
const DefaultInstructions = "Controls this machine's screen brightness and audio volume and reports hardware, display, audio and power information. " +
	"Use adjust_brightness and adjust_volume with action \"get\" before changing a level."

// ServerOptions configures a Server.
type ServerOptions struct {
	// Name is reported as serverInfo.name.
	Name string
	// Instructions is reported in the initialize result.
	Instructions string
	// CallTimeout bounds a single tool execution. Zero disables the bound.
	CallTimeout time.Duration
}

// Server reads requests from a transport one at a time and writes exactly one
// response per request carrying an id.
type Server struct {
	sessionID string
	transport transport.Transport
	router    router.Router
	lifecycle *state.Tracker
	metrics   *metrics.Collector
	logger    logging.Logger
}

// NewServer wires the handlers for registry behind the middleware chain.
// collector may be nil.
func NewServer(opts ServerOptions, registry *Registry, t transport.Transport, collector *metrics.Collector, logger logging.Logger) (*Server, error) {
	if registry == nil {
		return nil, errors.New("server requires a tool registry")
	}
	if t == nil {
		return nil, errors.New("server requires a transport")
	}
	if logger == nil {
		logger = logging.GetNoopLogger()
	}
	session, err := uuid.NewV7()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate session id")
	}
	logger = logger.WithField("session", session.String())
	if opts.Name == "" {
		opts.Name = "syscontrol"
	}
	if opts.Instructions == "" {
		opts.Instructions = DefaultInstructions
	}

	chain := middleware.NewChain().
		Use(middleware.Logging(logger)).
		Use(middleware.Metrics(collector)).
		Use(middleware.Recovery(logger, collector))

	handler := NewHandler(opts, registry, collector, logger)
	r, err := router.NewRouter(logger, chain, handler.Routes()...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build method router")
	}

	return &Server{
		sessionID: session.String(),
		transport: t,
		router:    r,
		lifecycle: state.NewTracker(logger),
		metrics:   collector,
		logger:    logger.WithField("component", "mcp_server"),
	}, nil
}

// SessionID identifies this server instance in logs.
func (s *Server) SessionID() string {
	return s.sessionID
}

// Lifecycle returns the session lifecycle tracker.
func (s *Server) Lifecycle() *state.Tracker {
	return s.lifecycle
}

// Serve runs the message loop until input ends, ctx is cancelled or a
// response cannot be written. End of input and cancellation return nil; a
// write failure is returned.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("Serving MCP over transport.", "routes", s.router.GetRoutes())
	defer s.lifecycle.Close(context.Background())

	for {
		if ctx.Err() != nil {
			s.logger.Info("Context cancelled; stopping message loop.")
			return nil
		}

		line, err := s.transport.ReadMessage(ctx)
		if err != nil {
			if sizeErr, ok := transport.AsMessageSizeError(err); ok {
				if err := s.rejectOversize(ctx, sizeErr); err != nil {
					return err
				}
				continue
			}
			switch {
			case transport.IsClosedError(err):
				s.logger.Info("Input closed; stopping message loop.")
				return nil
			case transport.IsCancelledError(err) || ctx.Err() != nil:
				s.logger.Info("Context cancelled; stopping message loop.")
				return nil
			default:
				return errors.Wrap(err, "failed to read message")
			}
		}

		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		if err := s.handleMessage(ctx, line); err != nil {
			return err
		}
	}
}

// handleMessage processes one non-blank line. It returns an error only when
// the response could not be written.
func (s *Server) handleMessage(ctx context.Context, line []byte) error {
	trace := logging.NewTraceID()
	ctx = logging.ContextWithTrace(ctx, trace)

	req, err := jsonrpc.ParseRequest(line)
	if err != nil {
		s.logger.Warn("Received unparseable message.", "trace", trace, "error", err, "size", len(line))
		if s.metrics != nil {
			s.metrics.RecordParseError()
		}
		return s.write(ctx, jsonrpc.NewParseError(nil))
	}

	s.lifecycle.Observe(ctx, req.Method)

	if req.IsNotification() {
		if s.metrics != nil {
			s.metrics.RecordNotification()
		}
		if _, err := s.router.Route(context.WithoutCancel(ctx), req.Method, req.Params, true); err != nil {
			s.logger.Debug("Notification not handled.", "method", req.Method, "trace", trace, "error", err)
		}
		return nil
	}
	if !req.HasID() {
		s.logger.Warn("Request without id; answering with null id.", "method", req.Method, "trace", trace)
	}

	// Cancellation is honored between cycles; the request in hand runs to completion.
	result, err := s.router.Route(context.WithoutCancel(ctx), req.Method, req.Params, false)
	if err != nil {
		rpcErr := mcperrors.ToJSONRPC(err)
		return s.write(ctx, jsonrpc.NewError(req.ResponseID(), rpcErr.Code, rpcErr.Message, rpcErr.Data))
	}
	return s.write(ctx, jsonrpc.NewResult(req.ResponseID(), result))
}

func (s *Server) rejectOversize(ctx context.Context, sizeErr *transport.Error) error {
	s.logger.Warn("Rejecting oversize message.", "size", sizeErr.Size, "limit", sizeErr.MaxSize)
	if s.metrics != nil {
		s.metrics.RecordParseError()
	}
	return s.write(ctx, jsonrpc.NewParseError(map[string]any{
		"detail": "message exceeds size limit",
		"size":   sizeErr.Size,
		"limit":  sizeErr.MaxSize,
	}))
}

// write encodes resp as one line and flushes it. Failures are terminal.
func (s *Server) write(ctx context.Context, resp jsonrpc.Response) error {
	b, err := jsonrpc.Encode(resp)
	if err != nil {
		s.logger.Error("Failed to encode response; sending internal error.", "error", err)
		b, err = jsonrpc.Encode(jsonrpc.NewError(resp.ID, jsonrpc.CodeInternalError, "Internal error", nil))
		if err != nil {
			return errors.Wrap(err, "failed to encode fallback response")
		}
	}
	// Responses are written even when ctx was cancelled mid-cycle.
	if err := s.transport.WriteMessage(context.WithoutCancel(ctx), b); err != nil {
		return errors.Wrap(err, "failed to write response")
	}
	return nil
}
