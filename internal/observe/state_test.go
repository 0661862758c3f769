package observe

import (
	"errors"
	"sync"
	"testing"

	"github.com/mj1618/computer-mcp/internal/platform"
)

func assertListenersMatch(t *testing.T, s *State) {
	t.Helper()
	cfg := s.Config()
	for _, dev := range platform.Devices {
		if got, want := s.Listeners().Running(dev), cfg.Tracks(dev); got != want {
			t.Errorf("%s listener running: got %v, want %v (config %+v)", dev, got, want, cfg)
		}
	}
}

func TestStateUpdateStartsAndStopsListeners(t *testing.T) {
	f := newFixture(t, DefaultConfig(), DefaultAssemblerOptions())
	steps := []Options{
		{ObserveMousePosition: Bool(true)},
		{ObserveKeyboardKeyStates: Bool(true)},
		{ObserveMousePosition: Bool(false)},
		{ObserveMouseButtonStates: Bool(true)},
		{ObserveMouseButtonStates: Bool(false), ObserveKeyboardKeyStates: Bool(false)},
		{ObserveFocusedApp: Bool(true)},
	}
	for i, opts := range steps {
		f.state.Update(opts)
		assertListenersMatch(t, f.state)
		if t.Failed() {
			t.Fatalf("mismatch after step %d", i)
		}
	}
	if w, s := f.monitor.counts(platform.DeviceMouse); w != 2 || s != 2 {
		t.Errorf("mouse watches/stops: got %d/%d, want 2/2", w, s)
	}
}

func TestStateEmptyUpdateReturnsPrior(t *testing.T) {
	f := newFixture(t, Config{ObserveScreen: true, ObserveAccessibilityTree: true}, DefaultAssemblerOptions())
	prior := f.state.Config()
	if got := f.state.Update(Options{}); got != prior {
		t.Errorf("got %+v, want %+v", got, prior)
	}
}

func TestStateUpdateReturnsFullConfig(t *testing.T) {
	f := newFixture(t, DefaultConfig(), DefaultAssemblerOptions())
	got := f.state.Update(Options{ObserveFocusedApp: Bool(true)})
	want := Config{ObserveScreen: true, ObserveFocusedApp: true}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if f.state.Config() != want {
		t.Errorf("Config(): got %+v, want %+v", f.state.Config(), want)
	}
}

func TestStateInitialConfigStartsListeners(t *testing.T) {
	f := newFixture(t, Config{ObserveKeyboardKeyStates: true}, DefaultAssemblerOptions())
	if !f.state.Listeners().Running(platform.DeviceKeyboard) {
		t.Error("keyboard listener should be running")
	}
	if f.state.Listeners().Running(platform.DeviceMouse) {
		t.Error("mouse listener should not be running")
	}
}

func TestStateStartFailureLeavesListenerStopped(t *testing.T) {
	f := newFixture(t, DefaultConfig(), DefaultAssemblerOptions())
	f.monitor.setFail(platform.DeviceMouse, errors.New("no X display"))

	cfg := f.state.Update(Options{ObserveMousePosition: Bool(true)})
	if !cfg.ObserveMousePosition {
		t.Error("update should still apply when the listener fails to start")
	}
	if f.state.Listeners().Running(platform.DeviceMouse) {
		t.Error("listener should not be running after a failed start")
	}

	f.monitor.setFail(platform.DeviceMouse, nil)
	if !f.state.EnsureListener(platform.DeviceMouse) {
		t.Error("EnsureListener should start the listener once the monitor recovers")
	}
}

func TestStateEnsureListenerRespectsConfig(t *testing.T) {
	f := newFixture(t, DefaultConfig(), DefaultAssemblerOptions())
	if f.state.EnsureListener(platform.DeviceKeyboard) {
		t.Error("EnsureListener should not start a listener the config does not enable")
	}
	if f.state.Listeners().Running(platform.DeviceKeyboard) {
		t.Error("keyboard listener should not be running")
	}
}

func TestStateClose(t *testing.T) {
	f := newFixture(t, Config{ObserveMousePosition: true, ObserveKeyboardKeyStates: true}, DefaultAssemblerOptions())
	if err := f.state.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	for _, dev := range platform.Devices {
		if f.state.Listeners().Running(dev) {
			t.Errorf("%s listener still running after Close", dev)
		}
	}
}

func TestStateUpdateAfterCloseStartsNothing(t *testing.T) {
	f := newFixture(t, DefaultConfig(), DefaultAssemblerOptions())
	if err := f.state.Close(); err != nil {
		t.Fatal(err)
	}

	cfg := f.state.Update(Options{ObserveMousePosition: Bool(true), ObserveKeyboardKeyStates: Bool(true)})
	if !cfg.ObserveMousePosition || !f.state.Config().ObserveKeyboardKeyStates {
		t.Errorf("config not published after Close: %+v", f.state.Config())
	}
	if f.state.EnsureListener(platform.DeviceMouse) {
		t.Error("EnsureListener started a listener after Close")
	}
	for _, dev := range platform.Devices {
		if f.state.Listeners().Running(dev) {
			t.Errorf("%s listener started after Close", dev)
		}
		if n, _ := f.monitor.counts(dev); n != 0 {
			t.Errorf("%s: monitor watched %d times after Close", dev, n)
		}
	}
}

func TestStateConcurrentUpdates(t *testing.T) {
	f := newFixture(t, DefaultConfig(), DefaultAssemblerOptions())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				on := (i+j)%2 == 0
				f.state.Update(Options{ObserveMousePosition: Bool(on), ObserveKeyboardKeyStates: Bool(!on)})
				_ = f.state.Config()
				f.monitor.emit(platform.DeviceMouse, platform.InputEvent{Type: platform.EventMouseMove, X: j, Y: i})
				_ = f.state.Listeners().Mouse()
			}
		}(i)
	}
	wg.Wait()
	assertListenersMatch(t, f.state)
}
