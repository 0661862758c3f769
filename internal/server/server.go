// Package server exposes the dispatcher as an MCP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mj1618/computer-mcp/internal/dispatch"
)

// Transports accepted by Serve.
const (
	TransportStdio          = "stdio"
	TransportStreamableHTTP = "streamable-http"
)

const instructions = `computer-mcp drives the local mouse and keyboard and reports what is on screen.
Mouse clicks apply at the current cursor position: move first with mouse_move.
Every tool result carries the observations enabled with set_config; by default a screenshot is attached.`

// Server wraps the MCP server around a Dispatcher.
type Server struct {
	dispatcher *dispatch.Dispatcher
	mcp        *mcpserver.MCPServer
	logger     *slog.Logger
}

// New creates a Server with every tool registered.
func New(d *dispatch.Dispatcher, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		dispatcher: d,
		logger:     logger,
		mcp: mcpserver.NewMCPServer(
			"computer-mcp",
			version,
			mcpserver.WithToolCapabilities(false),
			mcpserver.WithRecovery(),
			mcpserver.WithInstructions(instructions),
		),
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	for _, def := range toolDefinitions() {
		s.mcp.AddTool(def.tool, s.handle(def.name))
	}
}

// Serve runs the transport until ctx is cancelled or the transport fails.
func (s *Server) Serve(ctx context.Context, transport string, port int) error {
	switch transport {
	case TransportStdio:
		stdio := mcpserver.NewStdioServer(s.mcp)
		stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))
		s.logger.Info("serving MCP", "transport", transport)
		err := stdio.Listen(ctx, os.Stdin, os.Stdout)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil

	case TransportStreamableHTTP:
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		addr := fmt.Sprintf(":%d", port)
		errCh := make(chan error, 1)
		go func() {
			errCh <- httpServer.Start(addr)
		}()
		s.logger.Info("serving MCP", "transport", transport, "addr", addr)

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutting down MCP HTTP server: %w", err)
			}
			return nil
		}

	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", transport)
	}
}
