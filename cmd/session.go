package cmd

import (
	"log/slog"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/pflag"

	"github.com/mj1618/computer-mcp/internal/config"
	"github.com/mj1618/computer-mcp/internal/dispatch"
	"github.com/mj1618/computer-mcp/internal/metrics"
	"github.com/mj1618/computer-mcp/internal/observe"
	"github.com/mj1618/computer-mcp/internal/platform"
)

// session wires the platform backend, listeners, assembler and dispatcher
// for one process.
type session struct {
	provider   *platform.Provider
	metrics    *metrics.Metrics
	state      *observe.State
	assembler  *observe.Assembler
	dispatcher *dispatch.Dispatcher
}

// newSession never fails: without a backend every action and observation
// reports itself unavailable.
func newSession(initial observe.Config, opts observe.AssemblerOptions, logger *slog.Logger) *session {
	provider, err := platform.NewProvider()
	if err != nil {
		logger.Warn("no platform backend; actions and observations are unavailable", "error", err)
	}
	var monitor platform.InputMonitor
	if provider != nil {
		monitor = provider.InputMonitor
	}

	m := metrics.New()
	state := observe.NewState(initial, observe.NewListeners(monitor, m, logger), logger)
	asm := observe.NewAssembler(state, provider, opts, m, logger)
	return &session{
		provider:   provider,
		metrics:    m,
		state:      state,
		assembler:  asm,
		dispatcher: dispatch.New(state, asm, provider, m, logger),
	}
}

// Close stops the listeners, then releases the backend's native handles.
func (s *session) Close() error {
	var result *multierror.Error
	if err := s.state.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := s.provider.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// cliLogger logs warnings and errors to stderr for the one-shot commands.
func cliLogger() *slog.Logger {
	logger, _ := config.NewLogger(os.Stderr, slog.LevelWarn, config.LogFormatText)
	return logger
}

// Observation flags shared by snapshot, observe and do.
var observationFlags = []struct {
	flag  string
	key   string
	usage string
}{
	{"screen", observe.KeyScreen, "Capture a screenshot"},
	{"mouse-position", observe.KeyMousePosition, "Track the cursor position"},
	{"mouse-buttons", observe.KeyMouseButtonStates, "Track pressed mouse buttons"},
	{"keyboard", observe.KeyKeyboardKeyStates, "Track pressed keys"},
	{"focused-app", observe.KeyFocusedApp, "Report the focused application"},
	{"tree", observe.KeyAccessibilityTree, "Read the accessibility tree"},
}

func addObservationFlags(fs *pflag.FlagSet) {
	for _, f := range observationFlags {
		fs.Bool(f.flag, false, f.usage)
	}
	fs.String("preset", "", "YAML file of observe_* settings applied before the flags above")
}

// observationConfig starts from the default configuration, applies the
// preset file, then every observation flag set on the command line.
func observationConfig(fs *pflag.FlagSet) (observe.Config, error) {
	cfg := observe.DefaultConfig()
	if path, _ := fs.GetString("preset"); path != "" {
		opts, err := observe.LoadPreset(path)
		if err != nil {
			return cfg, err
		}
		cfg = opts.Apply(cfg)
	}
	changed := make(map[string]any)
	for _, f := range observationFlags {
		if fs.Changed(f.flag) {
			v, _ := fs.GetBool(f.flag)
			changed[f.key] = v
		}
	}
	opts, err := observe.ParseOptions(changed)
	if err != nil {
		return cfg, err
	}
	return opts.Apply(cfg), nil
}
