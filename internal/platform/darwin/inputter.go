//go:build darwin && cgo

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework CoreGraphics -framework ApplicationServices -framework Foundation
#include <CoreGraphics/CoreGraphics.h>

static CGPoint cg_cursor(void) {
    CGEventRef ev = CGEventCreate(NULL);
    CGPoint p = CGPointZero;
    if (ev) {
        p = CGEventGetLocation(ev);
        CFRelease(ev);
    }
    return p;
}

static CGMouseButton cg_button(int button) {
    switch (button) {
        case 1:  return kCGMouseButtonRight;
        case 2:  return kCGMouseButtonCenter;
        default: return kCGMouseButtonLeft;
    }
}

static CGEventType cg_button_event(int button, int down) {
    switch (button) {
        case 1:  return down ? kCGEventRightMouseDown : kCGEventRightMouseUp;
        case 2:  return down ? kCGEventOtherMouseDown : kCGEventOtherMouseUp;
        default: return down ? kCGEventLeftMouseDown : kCGEventLeftMouseUp;
    }
}

// Press or release button at the current cursor position.
// button: 0=left, 1=right, 2=middle
static int cg_mouse(int button, int down, int clickState) {
    CGEventRef ev = CGEventCreateMouseEvent(NULL, cg_button_event(button, down), cg_cursor(), cg_button(button));
    if (!ev) return -1;
    CGEventSetIntegerValueField(ev, kCGMouseEventClickState, clickState);
    CGEventPost(kCGHIDEventTap, ev);
    CFRelease(ev);
    return 0;
}

// Click count times at the current cursor position, raising the click
// state on each pair so the target sees a double or triple click.
static int cg_click(int button, int count) {
    for (int i = 1; i <= count; i++) {
        if (cg_mouse(button, 1, i) != 0) return -1;
        if (cg_mouse(button, 0, i) != 0) return -1;
    }
    return 0;
}

// Move the cursor. A held left button turns the move into a drag event so
// the target tracks the selection.
static int cg_move(double x, double y) {
    CGEventType type = kCGEventMouseMoved;
    CGMouseButton button = kCGMouseButtonLeft;
    if (CGEventSourceButtonState(kCGEventSourceStateCombinedSessionState, kCGMouseButtonLeft)) {
        type = kCGEventLeftMouseDragged;
    } else if (CGEventSourceButtonState(kCGEventSourceStateCombinedSessionState, kCGMouseButtonRight)) {
        type = kCGEventRightMouseDragged;
        button = kCGMouseButtonRight;
    }
    CGEventRef ev = CGEventCreateMouseEvent(NULL, type, CGPointMake(x, y), button);
    if (!ev) return -1;
    CGEventPost(kCGHIDEventTap, ev);
    CFRelease(ev);
    return 0;
}

static int cg_key(CGKeyCode code, int down, CGEventFlags flags) {
    CGEventRef ev = CGEventCreateKeyboardEvent(NULL, code, down);
    if (!ev) return -1;
    CGEventSetFlags(ev, flags);
    CGEventPost(kCGHIDEventTap, ev);
    CFRelease(ev);
    return 0;
}

// Send UTF-16 units as a key event carrying a Unicode string.
static int cg_unicode(const UniChar *units, int n, int down, CGEventFlags flags) {
    CGEventRef ev = CGEventCreateKeyboardEvent(NULL, 0, down);
    if (!ev) return -1;
    CGEventKeyboardSetUnicodeString(ev, n, units);
    CGEventSetFlags(ev, flags);
    CGEventPost(kCGHIDEventTap, ev);
    CFRelease(ev);
    return 0;
}
*/
import "C"

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode/utf16"
	"unsafe"

	"github.com/mj1618/computer-mcp/internal/platform"
)

// typeDelay spaces out typed characters so slow targets keep up.
const typeDelay = 12 * time.Millisecond

var modifierFlags = map[string]C.CGEventFlags{
	"cmd":   C.kCGEventFlagMaskCommand,
	"shift": C.kCGEventFlagMaskShift,
	"ctrl":  C.kCGEventFlagMaskControl,
	"alt":   C.kCGEventFlagMaskAlternate,
}

// Inputter implements platform.Inputter with CoreGraphics events. Modifier
// keys held through KeyDown are applied as flags to later key events.
type Inputter struct {
	mu    sync.Mutex
	flags C.CGEventFlags
}

// NewInputter creates a CoreGraphics inputter.
func NewInputter() *Inputter {
	return &Inputter{}
}

// Check verifies that the process may post events.
func (inp *Inputter) Check(ctx context.Context) error {
	return checkAccessibility()
}

func cButton(b platform.MouseButton) C.int {
	switch b {
	case platform.MouseRight:
		return 1
	case platform.MouseMiddle:
		return 2
	}
	return 0
}

func (inp *Inputter) Press(ctx context.Context, button platform.MouseButton) error {
	if C.cg_mouse(cButton(button), 1, 1) != 0 {
		return fmt.Errorf("failed to press %s button", button)
	}
	return nil
}

func (inp *Inputter) Release(ctx context.Context, button platform.MouseButton) error {
	if C.cg_mouse(cButton(button), 0, 1) != 0 {
		return fmt.Errorf("failed to release %s button", button)
	}
	return nil
}

func (inp *Inputter) Click(ctx context.Context, button platform.MouseButton, count int) error {
	if count < 1 {
		count = 1
	}
	if C.cg_click(cButton(button), C.int(count)) != 0 {
		return fmt.Errorf("failed to click %s button", button)
	}
	return nil
}

func (inp *Inputter) Move(ctx context.Context, x, y int) error {
	if C.cg_move(C.double(x), C.double(y)) != 0 {
		return fmt.Errorf("failed to move mouse to (%d, %d)", x, y)
	}
	return nil
}

func (inp *Inputter) TypeText(ctx context.Context, text string) error {
	flags := inp.currentFlags()
	for _, r := range text {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := sendUnicode(r, true, flags); err != nil {
			return err
		}
		if err := sendUnicode(r, false, flags); err != nil {
			return err
		}
		time.Sleep(typeDelay)
	}
	return nil
}

func (inp *Inputter) KeyDown(ctx context.Context, key platform.Key) error {
	return inp.key(key, true)
}

func (inp *Inputter) KeyUp(ctx context.Context, key platform.Key) error {
	if err := inp.key(key, false); err != nil {
		return fmt.Errorf("releasing %s: %w", key, err)
	}
	return nil
}

func (inp *Inputter) key(key platform.Key, down bool) error {
	flags := inp.updateFlags(key.String(), down)
	if code, ok := keyCode(key); ok {
		if C.cg_key(C.CGKeyCode(code), boolInt(down), flags) != 0 {
			return fmt.Errorf("failed to send key %s", key)
		}
		return nil
	}
	return sendUnicode(key.Char, down, flags)
}

// updateFlags records a modifier transition and returns the flags to send
// with the event.
func (inp *Inputter) updateFlags(name string, down bool) C.CGEventFlags {
	inp.mu.Lock()
	defer inp.mu.Unlock()
	if mask, ok := modifierFlags[name]; ok {
		if down {
			inp.flags |= mask
		} else {
			inp.flags &^= mask
		}
	}
	return inp.flags
}

func (inp *Inputter) currentFlags() C.CGEventFlags {
	inp.mu.Lock()
	defer inp.mu.Unlock()
	return inp.flags
}

func sendUnicode(r rune, down bool, flags C.CGEventFlags) error {
	units := utf16.Encode([]rune{r})
	if C.cg_unicode((*C.UniChar)(unsafe.Pointer(&units[0])), C.int(len(units)), boolInt(down), flags) != 0 {
		return fmt.Errorf("failed to send character %q", r)
	}
	return nil
}

func boolInt(b bool) C.int {
	if b {
		return 1
	}
	return 0
}
