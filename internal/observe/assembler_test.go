package observe

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mj1618/computer-mcp/internal/model"
	"github.com/mj1618/computer-mcp/internal/platform"
)

func TestAssembleDefaultConfigScreenshotOnly(t *testing.T) {
	f := newFixture(t, DefaultConfig(), DefaultAssemblerOptions())
	snap := f.snapshot()

	o := snap.Observations
	if o.Screenshot == nil {
		t.Fatal("expected screenshot")
	}
	if o.Screenshot.Width != 64 || o.Screenshot.Height != 48 || o.Screenshot.Format != "png" {
		t.Errorf("screenshot info: got %+v", o.Screenshot)
	}
	if o.Screenshot.SizeBytes != len(snap.PNG) || len(snap.PNG) == 0 {
		t.Errorf("size_bytes %d does not match PNG length %d", o.Screenshot.SizeBytes, len(snap.PNG))
	}
	if o.MousePosition != nil || o.MouseButtonStates != nil || o.KeyboardKeyStates != nil ||
		o.FocusedApp != nil || o.AccessibilityTree != nil || o.CollectionErrors != nil {
		t.Errorf("unexpected observations: %+v", o)
	}
	if snap.Err != nil {
		t.Errorf("unexpected error: %v", snap.Err)
	}
}

func TestAssembleEmptyConfig(t *testing.T) {
	f := newFixture(t, Config{}, DefaultAssemblerOptions())
	snap := f.snapshot()
	if !snap.Observations.IsEmpty() || snap.PNG != nil {
		t.Errorf("expected empty snapshot, got %+v", snap.Observations)
	}
	if f.screen.calls.Load() != 0 {
		t.Error("screenshotter should not be called when observe_screen is off")
	}
}

func TestAssembleMousePositionNoDataThenValue(t *testing.T) {
	f := newFixture(t, Config{}, DefaultAssemblerOptions())
	f.state.Update(Options{ObserveMousePosition: Bool(true)})

	pos := f.snapshot().Observations.MousePosition
	if pos == nil || pos.Status != StatusNoData || pos.X != nil {
		t.Fatalf("got %+v, want no_data", pos)
	}

	f.monitor.emit(platform.DeviceMouse, platform.InputEvent{Type: platform.EventMouseMove, X: 300, Y: 200})
	pos = f.snapshot().Observations.MousePosition
	if pos == nil || pos.Status != StatusOK || pos.X == nil || *pos.X != 300 || *pos.Y != 200 {
		t.Errorf("got %+v, want ok (300,200)", pos)
	}
}

func TestAssembleButtonAndKeyStates(t *testing.T) {
	f := newFixture(t, Config{ObserveMouseButtonStates: true, ObserveKeyboardKeyStates: true}, DefaultAssemblerOptions())

	o := f.snapshot().Observations
	if o.MouseButtonStates == nil || o.MouseButtonStates.Status != StatusNoData {
		t.Errorf("buttons: got %+v, want no_data", o.MouseButtonStates)
	}
	if o.KeyboardKeyStates == nil || o.KeyboardKeyStates.Status != StatusNoData {
		t.Errorf("keys: got %+v, want no_data", o.KeyboardKeyStates)
	}
	if o.MousePosition != nil {
		t.Error("mouse_position should be absent when only button states are enabled")
	}

	f.monitor.emit(platform.DeviceMouse, platform.InputEvent{Type: platform.EventMouseButton, Button: platform.MouseMiddle, Pressed: true})
	f.monitor.emit(platform.DeviceKeyboard, platform.InputEvent{Type: platform.EventKey, Key: "ctrl", Pressed: true})
	o = f.snapshot().Observations
	if got := o.MouseButtonStates; got.Status != StatusOK || len(got.Pressed) != 1 || got.Pressed[0] != "middle" {
		t.Errorf("buttons: got %+v", got)
	}
	if got := o.KeyboardKeyStates; got.Status != StatusOK || len(got.Pressed) != 1 || got.Pressed[0] != "ctrl" {
		t.Errorf("keys: got %+v", got)
	}
}

func TestAssembleDisableRemovesKind(t *testing.T) {
	f := newFixture(t, Config{ObserveScreen: true, ObserveMousePosition: true, ObserveKeyboardKeyStates: true}, DefaultAssemblerOptions())
	f.monitor.emit(platform.DeviceKeyboard, platform.InputEvent{Type: platform.EventKey, Key: "a", Pressed: true})

	f.state.Update(Options{ObserveMousePosition: Bool(false)})
	o := f.snapshot().Observations
	if o.MousePosition != nil {
		t.Error("mouse_position should be absent after disabling")
	}
	if o.KeyboardKeyStates == nil || o.KeyboardKeyStates.Status != StatusOK {
		t.Errorf("keyboard state should be unaffected, got %+v", o.KeyboardKeyStates)
	}
	if o.Screenshot == nil {
		t.Error("screenshot should be unaffected")
	}
	if f.state.Listeners().Running(platform.DeviceMouse) {
		t.Error("mouse listener should be stopped")
	}
}

func TestAssembleFailingWalker(t *testing.T) {
	f := newFixture(t, Config{ObserveScreen: true, ObserveFocusedApp: true, ObserveAccessibilityTree: true}, DefaultAssemblerOptions())
	f.walker.err = errWalk

	snap := f.snapshot()
	o := snap.Observations
	if o.AccessibilityTree != nil {
		t.Error("accessibility_tree should be omitted")
	}
	if o.Screenshot == nil || o.FocusedApp == nil {
		t.Errorf("other kinds should be present: %+v", o)
	}
	if msg := o.CollectionErrors[KindAccessibilityTree]; !strings.Contains(msg, "not reachable") {
		t.Errorf("collection error: got %q", msg)
	}
	if !errors.Is(snap.Err, errWalk) {
		t.Errorf("snapshot error should wrap the walker error, got %v", snap.Err)
	}
}

func TestAssembleTimeout(t *testing.T) {
	opts := DefaultAssemblerOptions()
	opts.CollectTimeout = 30 * time.Millisecond
	f := newFixture(t, Config{ObserveScreen: true, ObserveAccessibilityTree: true}, opts)
	f.walker.hang = make(chan struct{})
	t.Cleanup(func() { close(f.walker.hang) })

	start := time.Now()
	snap := f.snapshot()
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("assembly took %v, should be bounded by the collect timeout", elapsed)
	}
	if snap.Observations.AccessibilityTree != nil {
		t.Error("timed-out tree should be omitted")
	}
	if !errors.Is(snap.Err, ErrTimeout) {
		t.Errorf("got %v, want ErrTimeout", snap.Err)
	}
	if snap.Observations.Screenshot == nil {
		t.Error("screenshot should still be attached")
	}
}

func TestAssembleUnavailableCollaborator(t *testing.T) {
	st := NewState(Config{ObserveFocusedApp: true}, NewListeners(nil, nil, nil), nil)
	a := NewAssembler(st, &platform.Provider{Name: "bare"}, DefaultAssemblerOptions(), nil, nil)

	snap := a.Assemble(context.Background(), st.Config())
	if snap.Observations.FocusedApp != nil {
		t.Error("focused_app should be omitted")
	}
	if !errors.Is(snap.Err, platform.ErrUnavailable) {
		t.Errorf("got %v, want ErrUnavailable", snap.Err)
	}
	if msg := snap.Observations.CollectionErrors[KindFocusedApp]; !strings.Contains(msg, "not implemented") {
		t.Errorf("collection error: got %q", msg)
	}
}

func TestAssembleTreeIsPruned(t *testing.T) {
	opts := DefaultAssemblerOptions()
	opts.TreeDepth = 2
	opts.TreeBreadth = 1
	f := newFixture(t, Config{ObserveAccessibilityTree: true}, opts)
	f.walker.root = &model.Node{Role: "app", Children: []model.Node{
		{Role: "window", Children: []model.Node{{Role: "button"}}},
		{Role: "window"},
	}}

	tree := f.snapshot().Observations.AccessibilityTree
	if tree == nil {
		t.Fatal("expected tree")
	}
	if d := model.Depth(tree); d != 2 {
		t.Errorf("depth: got %d, want 2", d)
	}
	if len(tree.Children) != 1 || tree.Truncated != 1 {
		t.Errorf("breadth: got %d children, truncated %d", len(tree.Children), tree.Truncated)
	}
}

func TestAssembleTreeLogsSize(t *testing.T) {
	opts := DefaultAssemblerOptions()
	opts.TreeBreadth = 1
	f := newFixture(t, Config{ObserveAccessibilityTree: true}, opts)
	f.walker.root = &model.Node{Role: "app", Children: []model.Node{
		{Role: "window", Children: []model.Node{{Role: "button"}}},
		{Role: "window"},
	}}
	var buf bytes.Buffer
	f.assembler.logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	f.snapshot()
	line := buf.String()
	for _, want := range []string{"accessibility tree collected", "nodes=3", "depth=3", "walked_nodes=4"} {
		if !strings.Contains(line, want) {
			t.Errorf("log %q does not contain %q", line, want)
		}
	}
}

func TestAssembleCacheAndInvalidate(t *testing.T) {
	opts := DefaultAssemblerOptions()
	opts.CacheTTL = time.Minute
	f := newFixture(t, Config{ObserveFocusedApp: true}, opts)

	f.snapshot()
	f.snapshot()
	if got := f.tracker.calls.Load(); got != 1 {
		t.Errorf("calls with warm cache: got %d, want 1", got)
	}
	f.assembler.Invalidate()
	f.snapshot()
	if got := f.tracker.calls.Load(); got != 2 {
		t.Errorf("calls after invalidate: got %d, want 2", got)
	}
}

func TestAssembleCacheDisabled(t *testing.T) {
	opts := DefaultAssemblerOptions()
	opts.CacheTTL = 0
	f := newFixture(t, Config{ObserveFocusedApp: true}, opts)
	f.snapshot()
	f.snapshot()
	if got := f.tracker.calls.Load(); got != 2 {
		t.Errorf("got %d calls, want 2", got)
	}
}

func TestAssembleStartsListenerOnDemand(t *testing.T) {
	f := newFixture(t, Config{}, DefaultAssemblerOptions())
	f.monitor.setFail(platform.DeviceMouse, errors.New("device busy"))
	f.state.Update(Options{ObserveMousePosition: Bool(true)})
	f.monitor.setFail(platform.DeviceMouse, nil)

	pos := f.snapshot().Observations.MousePosition
	if pos == nil || pos.Status != StatusNoData {
		t.Errorf("got %+v, want no_data", pos)
	}
	if !f.state.Listeners().Running(platform.DeviceMouse) {
		t.Error("listener should be started on demand")
	}
}

func TestAssembleStaleConfigDoesNotRestartListener(t *testing.T) {
	f := newFixture(t, Config{ObserveMousePosition: true}, DefaultAssemblerOptions())
	stale := f.state.Config()
	f.state.Update(Options{ObserveMousePosition: Bool(false)})

	f.assembler.Assemble(context.Background(), stale)
	if f.state.Listeners().Running(platform.DeviceMouse) {
		t.Error("a stale config must not restart a disabled listener")
	}
}

func TestAssembleAfterDisableNeverReportsKind(t *testing.T) {
	f := newFixture(t, Config{ObserveKeyboardKeyStates: true}, DefaultAssemblerOptions())

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					f.snapshot()
				}
			}
		}()
	}
	f.state.Update(Options{ObserveKeyboardKeyStates: Bool(false)})
	for i := 0; i < 20; i++ {
		if o := f.snapshot().Observations; o.KeyboardKeyStates != nil {
			t.Fatal("keyboard_key_states reported after disable returned")
		}
	}
	close(stop)
	wg.Wait()
}

func TestAssembleAnnotatedScreenshot(t *testing.T) {
	opts := DefaultAssemblerOptions()
	opts.AnnotateCursor = true
	opts.ScreenshotMaxSide = 32
	f := newFixture(t, Config{ObserveScreen: true, ObserveMousePosition: true}, opts)
	f.monitor.emit(platform.DeviceMouse, platform.InputEvent{Type: platform.EventMouseMove, X: 10, Y: 10})

	snap := f.snapshot()
	info := snap.Observations.Screenshot
	if info == nil {
		t.Fatal("expected screenshot")
	}
	if info.Width != 32 || info.Height != 24 {
		t.Errorf("got %dx%d, want 32x24", info.Width, info.Height)
	}
	if info.Scale != 0.5 {
		t.Errorf("scale: got %v, want 0.5", info.Scale)
	}
}

func TestCaptureScreen(t *testing.T) {
	f := newFixture(t, Config{}, DefaultAssemblerOptions())
	info, png, err := f.assembler.CaptureScreen(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if info.Width != 64 || len(png) == 0 {
		t.Errorf("got %+v with %d bytes", info, len(png))
	}
	if info.Scale != 0 {
		t.Errorf("unscaled capture should omit scale, got %v", info.Scale)
	}

	f.screen.err = errors.New("import: unable to open X server")
	if _, _, err := f.assembler.CaptureScreen(context.Background()); err == nil {
		t.Error("expected capture error")
	}
}
