package observe

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/mj1618/computer-mcp/internal/metrics"
	"github.com/mj1618/computer-mcp/internal/platform"
)

// levelTrace matches config.LevelTrace.
const levelTrace = slog.Level(-8)

// MouseReading is a copy of the mouse listener cell.
type MouseReading struct {
	// HasData is false until the listener has seen its first event.
	HasData     bool
	HasPosition bool
	X, Y        int
	Pressed     []string
}

// KeyboardReading is a copy of the keyboard listener cell.
type KeyboardReading struct {
	HasData bool
	Pressed []string
}

// cell holds the latest value delivered by one listener run. A new cell is
// created on every start so a restarted listener never reports stale data.
type cell struct {
	mu      sync.Mutex
	seen    bool
	hasPos  bool
	x, y    int
	buttons map[string]bool
	keys    map[string]bool
}

func newCell() *cell {
	return &cell{buttons: map[string]bool{}, keys: map[string]bool{}}
}

func (c *cell) apply(ev platform.InputEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = true
	switch ev.Type {
	case platform.EventMouseMove:
		c.hasPos = true
		c.x, c.y = ev.X, ev.Y
	case platform.EventMouseButton:
		setPressed(c.buttons, ev.Button.String(), ev.Pressed)
	case platform.EventKey:
		setPressed(c.keys, ev.Key, ev.Pressed)
	}
}

func setPressed(m map[string]bool, name string, pressed bool) {
	if name == "" {
		return
	}
	if pressed {
		m[name] = true
	} else {
		delete(m, name)
	}
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (c *cell) mouse() MouseReading {
	c.mu.Lock()
	defer c.mu.Unlock()
	return MouseReading{
		HasData:     c.seen,
		HasPosition: c.hasPos,
		X:           c.x,
		Y:           c.y,
		Pressed:     sortedKeys(c.buttons),
	}
}

func (c *cell) keyboard() KeyboardReading {
	c.mu.Lock()
	defer c.mu.Unlock()
	return KeyboardReading{HasData: c.seen, Pressed: sortedKeys(c.keys)}
}

type listener struct {
	stop func() error
	cell *cell
}

// Listeners manages one background subscriber per device.
type Listeners struct {
	monitor platform.InputMonitor
	metrics *metrics.Metrics
	logger  *slog.Logger

	// lifecycle serializes Start and Stop and is held across monitor calls.
	// Readers never take it.
	lifecycle sync.Mutex

	mu     sync.Mutex
	active map[platform.Device]*listener
}

// NewListeners creates a registry over monitor. A nil monitor makes every
// Start fail with platform.ErrUnavailable.
func NewListeners(monitor platform.InputMonitor, m *metrics.Metrics, logger *slog.Logger) *Listeners {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listeners{
		monitor: monitor,
		metrics: m,
		logger:  logger,
		active:  map[platform.Device]*listener{},
	}
}

func (l *Listeners) get(dev platform.Device) *listener {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active[dev]
}

// Running reports whether the listener for dev is registered.
func (l *Listeners) Running(dev platform.Device) bool {
	return l.get(dev) != nil
}

// Start registers the listener for dev. Starting a running listener is a
// no-op.
func (l *Listeners) Start(dev platform.Device) error {
	l.lifecycle.Lock()
	defer l.lifecycle.Unlock()

	if l.get(dev) != nil {
		return nil
	}
	if l.monitor == nil {
		return fmt.Errorf("%s listener: %w", dev, platform.ErrUnavailable)
	}
	c := newCell()
	stop, err := l.monitor.Watch(dev, l.traced(dev, c.apply))
	if err != nil {
		return fmt.Errorf("starting %s listener: %w", dev, err)
	}

	l.mu.Lock()
	l.active[dev] = &listener{stop: stop, cell: c}
	l.mu.Unlock()

	l.metrics.ListenerRunning(dev.String(), true)
	l.logger.Debug("listener started", "device", dev.String())
	return nil
}

// traced logs every native event at trace level before passing it on.
func (l *Listeners) traced(dev platform.Device, fn func(platform.InputEvent)) func(platform.InputEvent) {
	ctx := context.Background()
	if !l.logger.Enabled(ctx, levelTrace) {
		return fn
	}
	return func(ev platform.InputEvent) {
		l.logger.Log(ctx, levelTrace, "input event", "device", dev.String(),
			"type", ev.Type.String(), "x", ev.X, "y", ev.Y,
			"button", ev.Button.String(), "key", ev.Key, "pressed", ev.Pressed)
		fn(ev)
	}
}

// Stop deregisters the listener for dev and releases its native resources.
// Stopping a stopped listener is a no-op.
func (l *Listeners) Stop(dev platform.Device) error {
	l.lifecycle.Lock()
	defer l.lifecycle.Unlock()

	l.mu.Lock()
	ln := l.active[dev]
	delete(l.active, dev)
	l.mu.Unlock()

	if ln == nil {
		return nil
	}
	l.metrics.ListenerRunning(dev.String(), false)
	l.logger.Debug("listener stopped", "device", dev.String())
	if ln.stop == nil {
		return nil
	}
	if err := ln.stop(); err != nil {
		return fmt.Errorf("stopping %s listener: %w", dev, err)
	}
	return nil
}

// Mouse returns the last mouse state, or a reading without data when the
// listener is stopped or has not seen an event.
func (l *Listeners) Mouse() MouseReading {
	ln := l.get(platform.DeviceMouse)
	if ln == nil {
		return MouseReading{}
	}
	return ln.cell.mouse()
}

// Keyboard returns the last keyboard state.
func (l *Listeners) Keyboard() KeyboardReading {
	ln := l.get(platform.DeviceKeyboard)
	if ln == nil {
		return KeyboardReading{}
	}
	return ln.cell.keyboard()
}

// StopAll stops every running listener and returns the first error.
func (l *Listeners) StopAll() error {
	var first error
	for _, dev := range platform.Devices {
		if err := l.Stop(dev); err != nil && first == nil {
			first = err
		}
	}
	return first
}
