package x11

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/mj1618/computer-mcp/internal/platform"
)

// keysyms maps canonical key names to X keysym names.
var keysyms = map[string]string{
	"ctrl":      "Control_L",
	"alt":       "Alt_L",
	"shift":     "Shift_L",
	"cmd":       "Super_L",
	"space":     "space",
	"enter":     "Return",
	"tab":       "Tab",
	"esc":       "Escape",
	"backspace": "BackSpace",
	"delete":    "Delete",
	"up":        "Up",
	"down":      "Down",
	"left":      "Left",
	"right":     "Right",
	"pageup":    "Prior",
	"pagedown":  "Next",
	"home":      "Home",
	"end":       "End",
	"insert":    "Insert",
	"f1":        "F1",
	"f2":        "F2",
	"f3":        "F3",
	"f4":        "F4",
	"f5":        "F5",
	"f6":        "F6",
	"f7":        "F7",
	"f8":        "F8",
	"f9":        "F9",
	"f10":       "F10",
	"f11":       "F11",
	"f12":       "F12",
}

// keysymNames maps X keysym names back to canonical key names, including
// right-hand modifiers and common punctuation.
var keysymNames = func() map[string]string {
	m := map[string]string{
		"Control_R":        "ctrl",
		"Alt_R":            "alt",
		"Meta_L":           "alt",
		"Meta_R":           "alt",
		"ISO_Level3_Shift": "alt",
		"Shift_R":          "shift",
		"Super_R":          "cmd",
		"Page_Up":          "pageup",
		"Page_Down":        "pagedown",
		"KP_Enter":         "enter",
		"comma":            ",",
		"period":           ".",
		"slash":            "/",
		"semicolon":        ";",
		"apostrophe":       "'",
		"minus":            "-",
		"equal":            "=",
		"bracketleft":      "[",
		"bracketright":     "]",
		"backslash":        "\\",
		"grave":            "`",
	}
	for name, sym := range keysyms {
		m[sym] = name
	}
	return m
}()

// Keysym returns the xdotool keysym for k. Letters and digits are passed
// through; other characters use the Unicode keysym form.
func Keysym(k platform.Key) (string, error) {
	if k.IsSpecial() {
		sym, ok := keysyms[k.Name]
		if !ok {
			return "", fmt.Errorf("no keysym for %q", k.Name)
		}
		return sym, nil
	}
	r := k.Char
	if r < 0x80 && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
		return string(r), nil
	}
	return fmt.Sprintf("U%04X", r), nil
}

// KeyName formats an X keysym name the way keyboard state is reported.
func KeyName(keysym string) string {
	if name, ok := keysymNames[keysym]; ok {
		return name
	}
	return strings.ToLower(keysym)
}
