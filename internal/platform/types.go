package platform

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// MouseButton represents a mouse button.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

func (b MouseButton) String() string {
	switch b {
	case MouseRight:
		return "right"
	case MouseMiddle:
		return "middle"
	default:
		return "left"
	}
}

// ParseMouseButton converts a tool argument to MouseButton.
func ParseMouseButton(s string) (MouseButton, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return MouseLeft, nil
	case "right":
		return MouseRight, nil
	case "middle":
		return MouseMiddle, nil
	default:
		return MouseLeft, fmt.Errorf("unknown mouse button: %q (expected left, middle, or right)", s)
	}
}

// Key is a normalized key: either a named special key or a single character.
type Key struct {
	Name string // canonical special key name; empty for characters
	Char rune
}

// IsSpecial reports whether k is a named special key.
func (k Key) IsSpecial() bool { return k.Name != "" }

func (k Key) String() string {
	if k.Name != "" {
		return k.Name
	}
	return string(k.Char)
}

// keyAliases maps accepted spellings to canonical special key names.
var keyAliases = map[string]string{
	"ctrl": "ctrl", "control": "ctrl",
	"alt": "alt", "option": "alt", "opt": "alt",
	"shift": "shift",
	"cmd": "cmd", "command": "cmd", "win": "cmd", "windows": "cmd", "meta": "cmd", "super": "cmd",
	"space": "space",
	"enter": "enter", "return": "enter",
	"tab": "tab",
	"esc": "esc", "escape": "esc",
	"backspace": "backspace",
	"delete": "delete",
	"up": "up", "down": "down", "left": "left", "right": "right",
	"pageup": "pageup", "pagedown": "pagedown",
	"home": "home", "end": "end", "insert": "insert",
	"f1": "f1", "f2": "f2", "f3": "f3", "f4": "f4",
	"f5": "f5", "f6": "f6", "f7": "f7", "f8": "f8",
	"f9": "f9", "f10": "f10", "f11": "f11", "f12": "f12",
}

// KeyNames returns the canonical special key names, sorted.
func KeyNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, canonical := range keyAliases {
		if !seen[canonical] {
			seen[canonical] = true
			names = append(names, canonical)
		}
	}
	sort.Strings(names)
	return names
}

// ParseKey converts a tool argument to a Key. Names are case-insensitive;
// any other single character is accepted as-is (lowercased).
func ParseKey(s string) (Key, error) {
	if s == " " {
		return Key{Name: "space"}, nil
	}
	norm := strings.ToLower(strings.TrimSpace(s))
	if name, ok := keyAliases[norm]; ok {
		return Key{Name: name}, nil
	}
	if utf8.RuneCountInString(norm) == 1 {
		r, _ := utf8.DecodeRuneInString(norm)
		return Key{Char: r}, nil
	}
	return Key{}, fmt.Errorf("unknown key: %q (expected a single character or a named key such as ctrl, enter, f5)", s)
}

// Device is an input device whose state can be tracked by a listener.
type Device int

const (
	DeviceMouse Device = iota
	DeviceKeyboard
)

// Devices lists all trackable devices.
var Devices = []Device{DeviceMouse, DeviceKeyboard}

func (d Device) String() string {
	if d == DeviceKeyboard {
		return "keyboard"
	}
	return "mouse"
}

// EventType classifies an InputEvent.
type EventType int

const (
	EventMouseMove EventType = iota
	EventMouseButton
	EventKey
)

func (t EventType) String() string {
	switch t {
	case EventMouseMove:
		return "mouse_move"
	case EventMouseButton:
		return "mouse_button"
	case EventKey:
		return "key"
	}
	return "unknown"
}

// InputEvent is a single native input event.
type InputEvent struct {
	Type    EventType
	X, Y    int         // EventMouseMove
	Button  MouseButton // EventMouseButton
	Key     string      // EventKey, formatted key name
	Pressed bool        // EventMouseButton, EventKey
}
