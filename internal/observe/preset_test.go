package observe

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mj1618/computer-mcp/internal/platform"
)

func TestLoadPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "observe.yaml")
	content := "observe_screen: false\nobserve_focused_app: true\nunknown_key: 3\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	opts, err := LoadPreset(path)
	if err != nil {
		t.Fatal(err)
	}
	got := opts.Apply(DefaultConfig())
	want := Config{ObserveFocusedApp: true}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestLoadPresetErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadPreset(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("observe_screen: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPreset(bad); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestPresetWatcherAppliesChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "observe.yaml")
	if err := os.WriteFile(path, []byte("observe_screen: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	f := newFixture(t, DefaultConfig(), DefaultAssemblerOptions())

	pw, err := NewPresetWatcher(path, f.state, nil)
	if err != nil {
		t.Fatal(err)
	}
	pw.debounce = 10 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go pw.Run(ctx)

	if err := os.WriteFile(path, []byte("observe_keyboard_key_states: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if f.state.Config().ObserveKeyboardKeyStates {
			if !f.state.Config().ObserveScreen {
				t.Error("keys absent from the preset should be unchanged")
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("preset change was not applied")
}

func TestPresetReloadAfterCloseStartsNoListener(t *testing.T) {
	path := filepath.Join(t.TempDir(), "observe.yaml")
	if err := os.WriteFile(path, []byte("observe_mouse_position: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	f := newFixture(t, DefaultConfig(), DefaultAssemblerOptions())
	pw, err := NewPresetWatcher(path, f.state, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer pw.watcher.Close()

	if err := f.state.Close(); err != nil {
		t.Fatal(err)
	}
	// A debounced reload that was already in flight when the server shut down.
	pw.reload()

	if f.state.Listeners().Running(platform.DeviceMouse) {
		t.Error("reload after Close restarted the mouse listener")
	}
}
