package darwin

import "github.com/mj1618/computer-mcp/internal/platform"

// macOS virtual key codes from Carbon Events.h, keyed by canonical key name.
var keyCodes = map[string]uint16{
	"a": 0x00, "b": 0x0B, "c": 0x08, "d": 0x02, "e": 0x0E, "f": 0x03,
	"g": 0x05, "h": 0x04, "i": 0x22, "j": 0x26, "k": 0x28, "l": 0x25,
	"m": 0x2E, "n": 0x2D, "o": 0x1F, "p": 0x23, "q": 0x0C, "r": 0x0F,
	"s": 0x01, "t": 0x11, "u": 0x20, "v": 0x09, "w": 0x0D, "x": 0x07,
	"y": 0x10, "z": 0x06,
	"0": 0x1D, "1": 0x12, "2": 0x13, "3": 0x14, "4": 0x15,
	"5": 0x17, "6": 0x16, "7": 0x1A, "8": 0x1C, "9": 0x19,
	"-": 0x1B, "=": 0x18, "[": 0x21, "]": 0x1E, "\\": 0x2A,
	";": 0x29, "'": 0x27, ",": 0x2B, ".": 0x2F, "/": 0x2C, "`": 0x32,
	"enter": 0x24, "tab": 0x30, "space": 0x31, "backspace": 0x33,
	"esc": 0x35, "delete": 0x75, "insert": 0x72,
	"up": 0x7E, "down": 0x7D, "left": 0x7B, "right": 0x7C,
	"home": 0x73, "end": 0x77, "pageup": 0x74, "pagedown": 0x79,
	"f1": 0x7A, "f2": 0x78, "f3": 0x63, "f4": 0x76, "f5": 0x60,
	"f6": 0x61, "f7": 0x62, "f8": 0x64, "f9": 0x65, "f10": 0x6D,
	"f11": 0x67, "f12": 0x6F,
	"cmd": 0x37, "shift": 0x38, "alt": 0x3A, "ctrl": 0x3B,
}

// Right-hand modifiers report under the same name as the left ones.
var rightModifiers = map[uint16]string{
	0x36: "cmd",
	0x3C: "shift",
	0x3D: "alt",
	0x3E: "ctrl",
}

// keyNames maps every polled virtual key code back to its key name.
var keyNames = func() map[uint16]string {
	names := make(map[uint16]string, len(keyCodes)+len(rightModifiers))
	for name, code := range keyCodes {
		names[code] = name
	}
	for code, name := range rightModifiers {
		names[code] = name
	}
	return names
}()

// keyCode returns the virtual key code for k. Characters without a fixed
// code on the US layout report false and are sent as Unicode instead.
func keyCode(k platform.Key) (uint16, bool) {
	code, ok := keyCodes[k.String()]
	return code, ok
}
