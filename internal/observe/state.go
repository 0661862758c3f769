package observe

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/mj1618/computer-mcp/internal/platform"
)

// State is the single live observation configuration of a server process
// together with the listeners it controls.
type State struct {
	current   atomic.Pointer[Config]
	updateMu  sync.Mutex
	closed    bool
	listeners *Listeners
	logger    *slog.Logger
}

// NewState publishes initial and starts the listeners it enables.
func NewState(initial Config, listeners *Listeners, logger *slog.Logger) *State {
	if logger == nil {
		logger = slog.Default()
	}
	s := &State{listeners: listeners, logger: logger}
	s.updateMu.Lock()
	defer s.updateMu.Unlock()
	s.startTracked(initial)
	s.current.Store(&initial)
	return s
}

// Config returns the current configuration. It never blocks on an update in
// progress.
func (s *State) Config() Config {
	return *s.current.Load()
}

// Listeners returns the listener registry.
func (s *State) Listeners() *Listeners {
	return s.listeners
}

// Update applies opts and returns the resulting configuration. Newly enabled
// listeners are started before the new configuration is published and newly
// disabled ones are stopped after, so once Update returns the running
// listeners match the configuration. After Close, Update only publishes the
// configuration and starts nothing.
func (s *State) Update(opts Options) Config {
	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	next := opts.Apply(*s.current.Load())
	if s.closed {
		s.current.Store(&next)
		return next
	}
	s.startTracked(next)
	s.current.Store(&next)
	for _, dev := range platform.Devices {
		if next.Tracks(dev) {
			continue
		}
		if err := s.listeners.Stop(dev); err != nil {
			s.logger.Warn("listener stop failed", "device", dev.String(), "error", err)
		}
	}
	s.logger.Debug("observation config updated", "config", next)
	return next
}

func (s *State) startTracked(cfg Config) {
	for _, dev := range platform.Devices {
		if !cfg.Tracks(dev) || s.listeners.Running(dev) {
			continue
		}
		if err := s.listeners.Start(dev); err != nil {
			s.logger.Warn("listener start failed", "device", dev.String(), "error", err)
		}
	}
}

// EnsureListener starts the listener for dev if the current configuration
// still tracks it. It reports whether the listener is running afterwards.
func (s *State) EnsureListener(dev platform.Device) bool {
	if s.listeners.Running(dev) {
		return true
	}
	s.updateMu.Lock()
	defer s.updateMu.Unlock()
	if s.closed || !s.current.Load().Tracks(dev) {
		return false
	}
	if err := s.listeners.Start(dev); err != nil {
		s.logger.Warn("listener start failed", "device", dev.String(), "error", err)
		return false
	}
	return true
}

// Close stops all listeners. No listener is started afterwards.
func (s *State) Close() error {
	s.updateMu.Lock()
	defer s.updateMu.Unlock()
	s.closed = true
	return s.listeners.StopAll()
}
