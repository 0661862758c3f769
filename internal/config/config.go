// Package config loads serve settings from flags and COMPUTER_MCP_*
// environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mj1618/computer-mcp/internal/observe"
	"github.com/mj1618/computer-mcp/internal/server"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "COMPUTER_MCP"

// Flag and setting keys.
const (
	KeyTransport         = "transport"
	KeyPort              = "port"
	KeyCacheTTL          = "cache-ttl"
	KeyCollectTimeout    = "collect-timeout"
	KeyTreeDepth         = "tree-depth"
	KeyTreeBreadth       = "tree-breadth"
	KeyScreenshotMaxSide = "screenshot-max-side"
	KeyAnnotateCursor    = "annotate-cursor"
	KeyObserveFile       = "observe-file"
	KeyMetricsAddr       = "metrics-addr"
	KeyLogLevel          = "log-level"
	KeyLogFormat         = "log-format"
)

// Settings holds the serve configuration.
type Settings struct {
	Transport   string
	Port        int
	ObserveFile string
	MetricsAddr string
	LogLevel    slog.Level
	LogFormat   string
	Assembler   observe.AssemblerOptions
}

// RegisterFlags adds the serve flags with their defaults to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	defaults := observe.DefaultAssemblerOptions()
	fs.String(KeyTransport, server.TransportStdio, "Transport: stdio, streamable-http")
	fs.Int(KeyPort, 8080, "HTTP port for streamable-http transport")
	fs.Duration(KeyCacheTTL, defaults.CacheTTL, "Focused app and accessibility tree cache TTL (0 to disable)")
	fs.Duration(KeyCollectTimeout, defaults.CollectTimeout, "Deadline for each on-demand observation")
	fs.Int(KeyTreeDepth, defaults.TreeDepth, "Maximum accessibility tree depth (0 for unlimited)")
	fs.Int(KeyTreeBreadth, defaults.TreeBreadth, "Maximum children per accessibility node (0 for unlimited)")
	fs.Int(KeyScreenshotMaxSide, 0, "Downscale screenshots so the longer side is at most this many pixels (0 keeps full size)")
	fs.Bool(KeyAnnotateCursor, false, "Draw the cursor position onto screenshots when the mouse is tracked")
	fs.String(KeyObserveFile, "", "YAML preset applied at startup and reloaded when it changes")
	fs.String(KeyMetricsAddr, "", "Serve Prometheus metrics on this address, e.g. :9090")
	fs.String(KeyLogLevel, "info", "Log level: trace, debug, info, warn, error")
	fs.String(KeyLogFormat, LogFormatText, "Log format: text, json")
}

// Load resolves settings from fs, falling back to COMPUTER_MCP_* variables
// (COMPUTER_MCP_CACHE_TTL for --cache-ttl) and then to flag defaults. A flag
// set on the command line wins over the environment.
func Load(fs *pflag.FlagSet) (*Settings, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}

	level, err := ParseLogLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return nil, err
	}

	s := &Settings{
		Transport:   strings.ToLower(strings.TrimSpace(v.GetString(KeyTransport))),
		Port:        v.GetInt(KeyPort),
		ObserveFile: v.GetString(KeyObserveFile),
		MetricsAddr: v.GetString(KeyMetricsAddr),
		LogLevel:    level,
		LogFormat:   strings.ToLower(strings.TrimSpace(v.GetString(KeyLogFormat))),
		Assembler: observe.AssemblerOptions{
			CollectTimeout:    v.GetDuration(KeyCollectTimeout),
			CacheTTL:          v.GetDuration(KeyCacheTTL),
			TreeDepth:         v.GetInt(KeyTreeDepth),
			TreeBreadth:       v.GetInt(KeyTreeBreadth),
			ScreenshotMaxSide: v.GetInt(KeyScreenshotMaxSide),
			AnnotateCursor:    v.GetBool(KeyAnnotateCursor),
		},
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate reports the first invalid setting.
func (s *Settings) Validate() error {
	switch s.Transport {
	case server.TransportStdio, server.TransportStreamableHTTP:
	default:
		return fmt.Errorf("invalid transport: %s (must be 'stdio' or 'streamable-http')", s.Transport)
	}
	if s.Transport == server.TransportStreamableHTTP && (s.Port <= 0 || s.Port > 65535) {
		return fmt.Errorf("invalid port: %d (must be 1-65535)", s.Port)
	}
	switch s.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", s.LogFormat)
	}
	if s.Assembler.CollectTimeout <= 0 {
		return fmt.Errorf("invalid collect timeout: %s (must be positive)", s.Assembler.CollectTimeout)
	}
	if s.Assembler.CacheTTL < 0 {
		return fmt.Errorf("invalid cache TTL: %s (must not be negative)", s.Assembler.CacheTTL)
	}
	if s.Assembler.TreeDepth < 0 || s.Assembler.TreeBreadth < 0 {
		return fmt.Errorf("invalid tree limits: depth %d, breadth %d (must not be negative)", s.Assembler.TreeDepth, s.Assembler.TreeBreadth)
	}
	if s.Assembler.ScreenshotMaxSide < 0 {
		return fmt.Errorf("invalid screenshot max side: %d (must not be negative)", s.Assembler.ScreenshotMaxSide)
	}
	return nil
}
