package observe

import (
	"testing"

	"github.com/mj1618/computer-mcp/internal/platform"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	want := Config{ObserveScreen: true}
	if cfg != want {
		t.Errorf("got %+v, want %+v", cfg, want)
	}
}

func TestOptionsApply(t *testing.T) {
	base := Config{ObserveScreen: true, ObserveFocusedApp: true}
	got := Options{
		ObserveScreen:        Bool(false),
		ObserveMousePosition: Bool(true),
	}.Apply(base)
	want := Config{ObserveMousePosition: true, ObserveFocusedApp: true}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if empty := (Options{}).Apply(base); empty != base {
		t.Errorf("empty options changed config: got %+v, want %+v", empty, base)
	}
}

func TestParseOptions(t *testing.T) {
	o, err := ParseOptions(map[string]any{
		"observe_keyboard_key_states": true,
		"observe_screen":              false,
		"verbose":                     "ignored",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.ObserveKeyboardKeyStates == nil || !*o.ObserveKeyboardKeyStates {
		t.Error("observe_keyboard_key_states should be true")
	}
	if o.ObserveScreen == nil || *o.ObserveScreen {
		t.Error("observe_screen should be false")
	}
	if o.ObserveMousePosition != nil || o.ObserveFocusedApp != nil {
		t.Error("absent keys should stay nil")
	}
}

func TestParseOptionsRejectsNonBoolean(t *testing.T) {
	tests := []any{"true", 1, 0.0, []any{true}}
	for _, v := range tests {
		if _, err := ParseOptions(map[string]any{KeyScreen: v}); err == nil {
			t.Errorf("expected error for %#v", v)
		}
	}
}

func TestConfigTracks(t *testing.T) {
	tests := []struct {
		cfg      Config
		mouse    bool
		keyboard bool
	}{
		{Config{}, false, false},
		{Config{ObserveScreen: true, ObserveFocusedApp: true}, false, false},
		{Config{ObserveMousePosition: true}, true, false},
		{Config{ObserveMouseButtonStates: true}, true, false},
		{Config{ObserveKeyboardKeyStates: true}, false, true},
	}
	for _, tt := range tests {
		if got := tt.cfg.Tracks(platform.DeviceMouse); got != tt.mouse {
			t.Errorf("%+v mouse: got %v, want %v", tt.cfg, got, tt.mouse)
		}
		if got := tt.cfg.Tracks(platform.DeviceKeyboard); got != tt.keyboard {
			t.Errorf("%+v keyboard: got %v, want %v", tt.cfg, got, tt.keyboard)
		}
	}
}
