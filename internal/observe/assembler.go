package observe

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/mj1618/computer-mcp/internal/metrics"
	"github.com/mj1618/computer-mcp/internal/model"
	"github.com/mj1618/computer-mcp/internal/platform"
	"github.com/mj1618/computer-mcp/internal/screen"
)

// Defaults for AssemblerOptions.
const (
	DefaultCollectTimeout = 3 * time.Second
	DefaultCacheTTL       = 500 * time.Millisecond
	DefaultTreeDepth      = 5
	DefaultTreeBreadth    = 50
)

// AssemblerOptions tunes on-demand collection.
type AssemblerOptions struct {
	CollectTimeout    time.Duration
	CacheTTL          time.Duration
	TreeDepth         int
	TreeBreadth       int
	ScreenshotMaxSide int
	AnnotateCursor    bool
}

// DefaultAssemblerOptions returns the options used when no flags are given.
func DefaultAssemblerOptions() AssemblerOptions {
	return AssemblerOptions{
		CollectTimeout: DefaultCollectTimeout,
		CacheTTL:       DefaultCacheTTL,
		TreeDepth:      DefaultTreeDepth,
		TreeBreadth:    DefaultTreeBreadth,
	}
}

// Assembler builds a Snapshot of the enabled observation kinds.
type Assembler struct {
	state    *State
	provider *platform.Provider
	opts     AssemblerOptions
	cache    *resultCache
	metrics  *metrics.Metrics
	logger   *slog.Logger
	caps     func() platform.Capabilities
}

// NewAssembler creates an Assembler reading listeners from state and calling
// collaborators from provider. Capabilities are probed once, on first use.
func NewAssembler(state *State, provider *platform.Provider, opts AssemblerOptions, m *metrics.Metrics, logger *slog.Logger) *Assembler {
	if provider == nil {
		provider = &platform.Provider{Name: "none"}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{
		state:    state,
		provider: provider,
		opts:     opts,
		cache:    newResultCache(opts.CacheTTL),
		metrics:  m,
		logger:   logger,
		caps: sync.OnceValue(func() platform.Capabilities {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return platform.Probe(ctx, provider)
		}),
	}
}

// Capabilities returns the cached probe result.
func (a *Assembler) Capabilities() platform.Capabilities {
	return a.caps()
}

// Invalidate drops cached focused-app and tree results. Called after every
// input action.
func (a *Assembler) Invalidate() {
	a.cache.invalidate()
}

// snapshotBuilder collects results from concurrent collectors.
type snapshotBuilder struct {
	mu   sync.Mutex
	snap Snapshot
	errs *multierror.Error
}

func (b *snapshotBuilder) set(fn func(o *Observations)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(&b.snap.Observations)
}

func (b *snapshotBuilder) fail(kind string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.snap.Observations.CollectionErrors == nil {
		b.snap.Observations.CollectionErrors = map[string]string{}
	}
	b.snap.Observations.CollectionErrors[kind] = err.Error()
	b.errs = multierror.Append(b.errs, fmt.Errorf("%s: %w", kind, err))
}

// Assemble collects every kind enabled in cfg. It never fails: a kind that
// cannot be collected is omitted and its error recorded in
// CollectionErrors.
func (a *Assembler) Assemble(ctx context.Context, cfg Config) Snapshot {
	b := &snapshotBuilder{}

	var cursor *image.Point
	if cfg.ObserveMousePosition || cfg.ObserveMouseButtonStates {
		r := a.readMouse()
		if cfg.ObserveMousePosition {
			pos := &MousePosition{Status: StatusNoData}
			if r.HasPosition {
				x, y := r.X, r.Y
				pos = &MousePosition{Status: StatusOK, X: &x, Y: &y}
				cursor = &image.Point{X: x, Y: y}
			}
			b.set(func(o *Observations) { o.MousePosition = pos })
		}
		if cfg.ObserveMouseButtonStates {
			set := pressedSet(r.HasData, r.Pressed)
			b.set(func(o *Observations) { o.MouseButtonStates = set })
		}
	}
	if cfg.ObserveKeyboardKeyStates {
		r := a.readKeyboard()
		set := pressedSet(r.HasData, r.Pressed)
		b.set(func(o *Observations) { o.KeyboardKeyStates = set })
	}

	var g errgroup.Group
	if cfg.ObserveScreen {
		g.Go(func() error {
			info, png, err := a.screenshot(ctx, cursor)
			if err != nil {
				b.fail(KindScreenshot, err)
				return nil
			}
			b.set(func(o *Observations) { o.Screenshot = info })
			b.mu.Lock()
			b.snap.PNG = png
			b.mu.Unlock()
			return nil
		})
	}
	if cfg.ObserveFocusedApp {
		g.Go(func() error {
			app, err := a.focusedApp(ctx)
			if err != nil {
				b.fail(KindFocusedApp, err)
				return nil
			}
			b.set(func(o *Observations) { o.FocusedApp = app })
			return nil
		})
	}
	if cfg.ObserveAccessibilityTree {
		g.Go(func() error {
			tree, err := a.tree(ctx)
			if err != nil {
				b.fail(KindAccessibilityTree, err)
				return nil
			}
			b.set(func(o *Observations) { o.AccessibilityTree = tree })
			return nil
		})
	}
	_ = g.Wait()

	if b.errs != nil {
		b.snap.Err = b.errs.ErrorOrNil()
		for kind := range b.snap.Observations.CollectionErrors {
			a.metrics.ObservationFailed(kind)
		}
		a.logger.Warn("observation collection incomplete", "error", b.snap.Err)
	}
	return b.snap
}

func pressedSet(hasData bool, pressed []string) *PressedSet {
	if !hasData {
		return &PressedSet{Status: StatusNoData, Pressed: []string{}}
	}
	if pressed == nil {
		pressed = []string{}
	}
	return &PressedSet{Status: StatusOK, Pressed: pressed}
}

func (a *Assembler) readMouse() MouseReading {
	l := a.state.Listeners()
	if !l.Running(platform.DeviceMouse) {
		a.state.EnsureListener(platform.DeviceMouse)
		return MouseReading{}
	}
	return l.Mouse()
}

func (a *Assembler) readKeyboard() KeyboardReading {
	l := a.state.Listeners()
	if !l.Running(platform.DeviceKeyboard) {
		a.state.EnsureListener(platform.DeviceKeyboard)
		return KeyboardReading{}
	}
	return l.Keyboard()
}

// CaptureScreen takes a screenshot with the configured post-processing. It
// is the action of the screenshot tool.
func (a *Assembler) CaptureScreen(ctx context.Context) (*ScreenshotInfo, []byte, error) {
	var cursor *image.Point
	if a.opts.AnnotateCursor {
		if r := a.state.Listeners().Mouse(); r.HasPosition {
			cursor = &image.Point{X: r.X, Y: r.Y}
		}
	}
	return a.screenshot(ctx, cursor)
}

func (a *Assembler) screenshot(ctx context.Context, cursor *image.Point) (*ScreenshotInfo, []byte, error) {
	s := a.provider.Screenshotter
	if caps := a.Capabilities(); !caps.Screenshot || s == nil {
		return nil, nil, unavailable(caps, "screenshot")
	}
	capture, err := collect(ctx, a.opts.CollectTimeout, s.Capture)
	if err != nil {
		return nil, nil, err
	}
	if capture == nil || len(capture.PNG) == 0 {
		return nil, nil, errors.New("screenshot returned no image data")
	}

	opts := screen.Options{MaxSide: a.opts.ScreenshotMaxSide}
	if a.opts.AnnotateCursor {
		opts.Cursor = cursor
	}
	img, err := screen.Process(capture.PNG, capture.Width, capture.Height, opts)
	if err != nil {
		return nil, nil, err
	}
	info := &ScreenshotInfo{
		Width:     img.Width,
		Height:    img.Height,
		Format:    "png",
		SizeBytes: len(img.PNG),
	}
	if img.Scale != 1 {
		info.Scale = img.Scale
	}
	return info, img.PNG, nil
}

func (a *Assembler) focusedApp(ctx context.Context) (*model.FocusedApp, error) {
	caps := a.Capabilities()
	if !caps.FocusedApp || a.provider.FocusTracker == nil {
		return nil, unavailable(caps, "focused_app")
	}
	return cached(a.cache, KindFocusedApp, func() (*model.FocusedApp, error) {
		return collect(ctx, a.opts.CollectTimeout, a.provider.FocusTracker.FocusedApp)
	})
}

func (a *Assembler) tree(ctx context.Context) (*model.Node, error) {
	caps := a.Capabilities()
	if !caps.Accessibility || a.provider.Accessibility == nil {
		return nil, unavailable(caps, "accessibility")
	}
	depth, breadth := a.opts.TreeDepth, a.opts.TreeBreadth
	return cached(a.cache, KindAccessibilityTree, func() (*model.Node, error) {
		root, err := collect(ctx, a.opts.CollectTimeout, func(ctx context.Context) (*model.Node, error) {
			return a.provider.Accessibility.Walk(ctx, depth, breadth)
		})
		if err != nil {
			return nil, err
		}
		if root == nil {
			return nil, errors.New("accessibility walker returned no tree")
		}
		pruned := model.Prune(root, depth, breadth)
		a.logger.Debug("accessibility tree collected",
			"nodes", model.CountNodes(pruned),
			"depth", model.Depth(pruned),
			"walked_nodes", model.CountNodes(root))
		return pruned, nil
	})
}

func unavailable(caps platform.Capabilities, capability string) error {
	if reason := caps.Reasons[capability]; reason != "" {
		return fmt.Errorf("%w: %s", platform.ErrUnavailable, reason)
	}
	return platform.ErrUnavailable
}
