// Package mcpserver exposes catalog generation and measurement fusion as
// Model Context Protocol tools served over SSE/HTTP.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/papapumpkin/cosmic/internal/catalog"
	"github.com/papapumpkin/cosmic/internal/telemetry"
)

// Version is the server version reported to MCP clients.
const Version = "0.1.0"

// MaxCount caps the records or points a single tool call may generate.
const MaxCount = 10000

// Server is the cosmic MCP server.
type Server struct {
	mcp    *mcp.Server
	port   int
	policy catalog.Policy
	logger *zap.Logger
	events *telemetry.Emitter
	srv    *http.Server
	ln     net.Listener
}

// Options holds optional Server settings.
type Options struct {
	// Policy drives generate_catalog. The zero value uses catalog.DefaultPolicy.
	Policy catalog.Policy
	Logger *zap.Logger
	Events *telemetry.Emitter
}

// NewServer creates a server that will listen on port (0 picks a free one).
func NewServer(port int, opts Options) *Server {
	policy := opts.Policy
	if policy == (catalog.Policy{}) {
		policy = catalog.DefaultPolicy()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    "cosmic",
			Version: Version,
		}, nil),
		port:   port,
		policy: policy,
		logger: logger,
		events: opts.Events,
	}
	s.registerTools()
	return s
}

// registerTools registers every tool with the MCP server.
func (s *Server) registerTools() {
	s.registerCatalogTools()
	s.registerFusionTools()
}

// Start begins serving over SSE/HTTP. It returns once the listener is bound.
func (s *Server) Start(_ context.Context) error {
	handler := mcp.NewSSEHandler(func(_ *http.Request) *mcp.Server {
		return s.mcp
	}, nil)

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("mcpserver: listen on port %d: %w", s.port, err)
	}
	s.ln = ln
	s.srv = &http.Server{Handler: handler}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("serve", zap.Error(err))
		}
	}()
	s.logger.Info("mcp server listening", zap.String("addr", ln.Addr().String()))
	return nil
}

// Addr returns the listener address, useful for tests with port 0.
func (s *Server) Addr() net.Addr {
	if s.ln != nil {
		return s.ln.Addr()
	}
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) emit(evt telemetry.Event) {
	if err := s.events.Emit(evt); err != nil {
		s.logger.Warn("telemetry", zap.Error(err))
	}
}
