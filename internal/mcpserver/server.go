package mcpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/mark3labs/mcp-go/server"
	"github.com/mark3labs/stepwise/internal/logger"
	"github.com/mark3labs/stepwise/internal/wizard"
)

// Recorder persists navigation outcomes. *journal.Store satisfies it.
type Recorder interface {
	RecordTransition(ctx context.Context, wizardName, runID string, t wizard.Transition, snap wizard.Snapshot) error
	RecordReset(ctx context.Context, wizardName, runID string, snap wizard.Snapshot) error
}

// Server manages an embedded MCP HTTP server that exposes navigation tools
// over a live wizard.
type Server struct {
	state      *wizard.State
	wizardName string
	recorder   Recorder
	runID      string

	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
	stdServer  *http.Server // Standard HTTP server that uses the listener
	listenPort int
	port       int
	mu         sync.Mutex
}

// Option configures a Server.
type Option func(*Server)

// WithRecorder records every navigation handled by the server under runID.
func WithRecorder(rec Recorder, runID string) Option {
	return func(s *Server) {
		s.recorder = rec
		s.runID = runID
	}
}

// WithPort listens on a fixed port instead of a random one.
func WithPort(port int) Option {
	return func(s *Server) { s.listenPort = port }
}

// New creates a new MCP server instance for the given wizard.
// The server is not started until Start() is called.
func New(st *wizard.State, wizardName string, opts ...Option) *Server {
	s := &Server{
		state:      st,
		wizardName: wizardName,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start starts the MCP HTTP server on 127.0.0.1.
// Returns the port number or an error if startup fails.
func (s *Server) Start(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer != nil {
		return 0, fmt.Errorf("server already started")
	}

	s.mcpServer = server.NewMCPServer(
		"stepwise-wizard",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	s.registerTools()

	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", s.listenPort))
	if err != nil {
		return 0, fmt.Errorf("failed to listen: %w", err)
	}
	s.port = listener.Addr().(*net.TCPAddr).Port

	// Stateless mode; the listener is passed directly to avoid a TOCTOU race
	mux := http.NewServeMux()
	mcpHandler := server.NewStreamableHTTPServer(
		s.mcpServer,
		server.WithStateLess(true),
	)
	mux.Handle("/mcp", mcpHandler)

	s.stdServer = &http.Server{
		Handler: mux,
	}
	s.httpServer = mcpHandler

	logger.Debug("Starting MCP server on port %d", s.port)

	stdServer := s.stdServer
	go func() {
		if err := stdServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("MCP server error: %v", err)
		}
	}()

	logger.Info("MCP server for %s ready on port %d", s.wizardName, s.port)
	return s.port, nil
}

// Stop stops the MCP HTTP server and cleans up resources.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer == nil {
		return nil // Already stopped
	}

	logger.Debug("Stopping MCP server")
	if err := s.stdServer.Shutdown(context.Background()); err != nil {
		logger.Warn("Error stopping MCP server: %v", err)
		return fmt.Errorf("failed to stop server: %w", err)
	}

	s.httpServer = nil
	s.stdServer = nil
	s.mcpServer = nil
	logger.Debug("MCP server stopped")
	return nil
}

// URL returns the HTTP URL for the MCP server endpoint.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("http://localhost:%d/mcp", s.port)
}
