package darwin

import (
	"testing"

	"github.com/mj1618/computer-mcp/internal/platform"
)

func TestKeyCodeCoversVocabulary(t *testing.T) {
	for _, name := range platform.KeyNames() {
		k, err := platform.ParseKey(name)
		if err != nil {
			t.Fatalf("ParseKey(%q): %v", name, err)
		}
		if _, ok := keyCode(k); !ok {
			t.Errorf("no virtual key code for %q", name)
		}
	}
}

func TestKeyCode(t *testing.T) {
	tests := []struct {
		in     string
		want   uint16
		wantOK bool
	}{
		{"a", 0x00, true},
		{"Return", 0x24, true},
		{"command", 0x37, true},
		{"/", 0x2C, true},
		{"é", 0, false},
	}
	for _, tt := range tests {
		k, err := platform.ParseKey(tt.in)
		if err != nil {
			t.Fatalf("ParseKey(%q): %v", tt.in, err)
		}
		got, ok := keyCode(k)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("keyCode(%q): got (%#x, %v), want (%#x, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestKeyNamesRightModifiers(t *testing.T) {
	for code, want := range map[uint16]string{0x36: "cmd", 0x37: "cmd", 0x3C: "shift", 0x3E: "ctrl", 0x24: "enter"} {
		if got := keyNames[code]; got != want {
			t.Errorf("keyNames[%#x]: got %q, want %q", code, got, want)
		}
	}
}
