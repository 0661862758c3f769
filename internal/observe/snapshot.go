package observe

import (
	"github.com/mj1618/computer-mcp/internal/model"
)

// Observation kind names, as they appear in tool results.
const (
	KindScreenshot        = "screenshot"
	KindMousePosition     = "mouse_position"
	KindMouseButtonStates = "mouse_button_states"
	KindKeyboardKeyStates = "keyboard_key_states"
	KindFocusedApp        = "focused_app"
	KindAccessibilityTree = "accessibility_tree"
)

// Status values for listener-backed observations.
const (
	StatusOK     = "ok"
	StatusNoData = "no_data"
)

// ScreenshotInfo describes the screenshot attached beside the observations.
type ScreenshotInfo struct {
	Width     int    `yaml:"width" json:"width"`
	Height    int    `yaml:"height" json:"height"`
	Format    string `yaml:"format" json:"format"`
	SizeBytes int    `yaml:"size_bytes" json:"size_bytes"`
	// Scale is the ratio of image to screen pixels, set only when the image
	// was downscaled. Divide image coordinates by it to get screen ones.
	Scale float64 `yaml:"scale,omitempty" json:"scale,omitempty"`
}

// MousePosition is the last known cursor position.
type MousePosition struct {
	Status string `yaml:"status" json:"status"`
	X      *int   `yaml:"x,omitempty" json:"x,omitempty"`
	Y      *int   `yaml:"y,omitempty" json:"y,omitempty"`
}

// PressedSet lists the buttons or keys currently held down.
type PressedSet struct {
	Status  string   `yaml:"status" json:"status"`
	Pressed []string `yaml:"pressed" json:"pressed"`
}

// Observations holds one optional field per enabled kind. A nil field means
// the kind was disabled or could not be collected; see CollectionErrors.
type Observations struct {
	Screenshot        *ScreenshotInfo   `yaml:"screenshot,omitempty" json:"screenshot,omitempty"`
	MousePosition     *MousePosition    `yaml:"mouse_position,omitempty" json:"mouse_position,omitempty"`
	MouseButtonStates *PressedSet       `yaml:"mouse_button_states,omitempty" json:"mouse_button_states,omitempty"`
	KeyboardKeyStates *PressedSet       `yaml:"keyboard_key_states,omitempty" json:"keyboard_key_states,omitempty"`
	FocusedApp        *model.FocusedApp `yaml:"focused_app,omitempty" json:"focused_app,omitempty"`
	AccessibilityTree *model.Node       `yaml:"accessibility_tree,omitempty" json:"accessibility_tree,omitempty"`
	CollectionErrors  map[string]string `yaml:"collection_errors,omitempty" json:"collection_errors,omitempty"`
}

// IsEmpty reports whether no observation and no error was recorded.
func (o Observations) IsEmpty() bool {
	return o.Screenshot == nil && o.MousePosition == nil && o.MouseButtonStates == nil &&
		o.KeyboardKeyStates == nil && o.FocusedApp == nil && o.AccessibilityTree == nil &&
		len(o.CollectionErrors) == 0
}

// Snapshot is the result of one assembly.
type Snapshot struct {
	Observations Observations
	// PNG holds the screenshot bytes when Observations.Screenshot is set.
	PNG []byte
	// Err aggregates collection failures; nil when every enabled kind was
	// collected.
	Err error
}
