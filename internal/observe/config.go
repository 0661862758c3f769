// Package observe owns the observation configuration, the background state
// listeners and the snapshot assembler that attaches observations to every
// tool result.
package observe

import (
	"fmt"

	"github.com/mj1618/computer-mcp/internal/platform"
)

// Configuration keys, as accepted by set_config and preset files.
const (
	KeyScreen            = "observe_screen"
	KeyMousePosition     = "observe_mouse_position"
	KeyMouseButtonStates = "observe_mouse_button_states"
	KeyKeyboardKeyStates = "observe_keyboard_key_states"
	KeyFocusedApp        = "observe_focused_app"
	KeyAccessibilityTree = "observe_accessibility_tree"
)

// Keys lists the configuration keys in display order.
var Keys = []string{
	KeyScreen,
	KeyMousePosition,
	KeyMouseButtonStates,
	KeyKeyboardKeyStates,
	KeyFocusedApp,
	KeyAccessibilityTree,
}

// Config records which observation kinds are attached to tool results.
// A Config value is immutable once published by State.
type Config struct {
	ObserveScreen            bool `yaml:"observe_screen" json:"observe_screen"`
	ObserveMousePosition     bool `yaml:"observe_mouse_position" json:"observe_mouse_position"`
	ObserveMouseButtonStates bool `yaml:"observe_mouse_button_states" json:"observe_mouse_button_states"`
	ObserveKeyboardKeyStates bool `yaml:"observe_keyboard_key_states" json:"observe_keyboard_key_states"`
	ObserveFocusedApp        bool `yaml:"observe_focused_app" json:"observe_focused_app"`
	ObserveAccessibilityTree bool `yaml:"observe_accessibility_tree" json:"observe_accessibility_tree"`
}

// DefaultConfig returns the startup configuration: screenshots only.
func DefaultConfig() Config {
	return Config{ObserveScreen: true}
}

// Tracks reports whether c needs a running listener for dev.
func (c Config) Tracks(dev platform.Device) bool {
	switch dev {
	case platform.DeviceMouse:
		return c.ObserveMousePosition || c.ObserveMouseButtonStates
	case platform.DeviceKeyboard:
		return c.ObserveKeyboardKeyStates
	}
	return false
}

// Options is a partial Config update. Nil fields are left unchanged.
type Options struct {
	ObserveScreen            *bool `yaml:"observe_screen,omitempty" json:"observe_screen,omitempty"`
	ObserveMousePosition     *bool `yaml:"observe_mouse_position,omitempty" json:"observe_mouse_position,omitempty"`
	ObserveMouseButtonStates *bool `yaml:"observe_mouse_button_states,omitempty" json:"observe_mouse_button_states,omitempty"`
	ObserveKeyboardKeyStates *bool `yaml:"observe_keyboard_key_states,omitempty" json:"observe_keyboard_key_states,omitempty"`
	ObserveFocusedApp        *bool `yaml:"observe_focused_app,omitempty" json:"observe_focused_app,omitempty"`
	ObserveAccessibilityTree *bool `yaml:"observe_accessibility_tree,omitempty" json:"observe_accessibility_tree,omitempty"`
}

// Bool returns a pointer to b, for building Options.
func Bool(b bool) *bool { return &b }

// Apply returns c with every non-nil field of o applied.
func (o Options) Apply(c Config) Config {
	set := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	set(&c.ObserveScreen, o.ObserveScreen)
	set(&c.ObserveMousePosition, o.ObserveMousePosition)
	set(&c.ObserveMouseButtonStates, o.ObserveMouseButtonStates)
	set(&c.ObserveKeyboardKeyStates, o.ObserveKeyboardKeyStates)
	set(&c.ObserveFocusedApp, o.ObserveFocusedApp)
	set(&c.ObserveAccessibilityTree, o.ObserveAccessibilityTree)
	return c
}

// field returns the Options slot for a configuration key.
func (o *Options) field(key string) **bool {
	switch key {
	case KeyScreen:
		return &o.ObserveScreen
	case KeyMousePosition:
		return &o.ObserveMousePosition
	case KeyMouseButtonStates:
		return &o.ObserveMouseButtonStates
	case KeyKeyboardKeyStates:
		return &o.ObserveKeyboardKeyStates
	case KeyFocusedApp:
		return &o.ObserveFocusedApp
	case KeyAccessibilityTree:
		return &o.ObserveAccessibilityTree
	}
	return nil
}

// ParseOptions extracts configuration keys from tool arguments. Unknown keys
// are ignored; a known key holding a non-boolean value is an error.
func ParseOptions(args map[string]any) (Options, error) {
	var o Options
	for _, key := range Keys {
		v, ok := args[key]
		if !ok || v == nil {
			continue
		}
		b, ok := v.(bool)
		if !ok {
			return Options{}, fmt.Errorf("%s must be a boolean, got %T", key, v)
		}
		*o.field(key) = Bool(b)
	}
	return o, nil
}
