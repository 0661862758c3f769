package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mj1618/computer-mcp/internal/config"
	"github.com/mj1618/computer-mcp/internal/observe"
	"github.com/mj1618/computer-mcp/internal/server"
	"github.com/mj1618/computer-mcp/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start a Model Context Protocol (MCP) server exposing the mouse, keyboard,
screenshot and set_config tools.

Supported transports:
  stdio             Standard I/O (default, for local MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Every flag can also be set through a COMPUTER_MCP_* environment variable,
e.g. COMPUTER_MCP_CACHE_TTL=1s for --cache-ttl.

Examples:
  computer-mcp serve
  computer-mcp serve --transport streamable-http --port 8080
  computer-mcp serve --observe-file observe.yaml --metrics-addr :9090`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	config.RegisterFlags(serveCmd.Flags())
}

func runServe(cmd *cobra.Command, args []string) error {
	settings, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	logger, err := config.NewLogger(os.Stderr, settings.LogLevel, settings.LogFormat)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	initial := observe.DefaultConfig()
	if settings.ObserveFile != "" {
		opts, err := observe.LoadPreset(settings.ObserveFile)
		if err != nil {
			return err
		}
		initial = opts.Apply(initial)
	}

	s := newSession(initial, settings.Assembler, logger)
	defer func() {
		if err := s.Close(); err != nil {
			logger.Warn("stopping listeners", "error", err)
		}
	}()
	caps := s.assembler.Capabilities()
	logger.Info("platform backend ready",
		"backend", caps.Backend,
		"input", caps.Input,
		"screenshot", caps.Screenshot,
		"input_monitor", caps.InputMonitor,
		"focused_app", caps.FocusedApp,
		"accessibility", caps.Accessibility)
	for name, reason := range caps.Reasons {
		logger.Warn("capability unavailable", "capability", name, "reason", reason)
	}

	if settings.ObserveFile != "" {
		pw, err := observe.NewPresetWatcher(settings.ObserveFile, s.state, logger)
		if err != nil {
			return err
		}
		go pw.Run(ctx)
	}

	if settings.MetricsAddr != "" {
		metricsSrv := &http.Server{
			Addr:              settings.MetricsAddr,
			Handler:           s.metrics.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("serving metrics", "addr", settings.MetricsAddr)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsSrv.Shutdown(shutdownCtx)
		}()
	}

	srv := server.New(s.dispatcher, version.Version, logger)
	if err := srv.Serve(ctx, settings.Transport, settings.Port); err != nil {
		return fmt.Errorf("MCP server: %w", err)
	}
	return nil
}
