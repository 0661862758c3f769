package platform

import (
	"context"

	"github.com/mj1618/computer-mcp/internal/model"
)

// Inputter injects mouse and keyboard input. Mouse actions apply at the
// current cursor position. Cancelling ctx abandons an injection that has not
// completed yet.
type Inputter interface {
	Press(ctx context.Context, button MouseButton) error
	Release(ctx context.Context, button MouseButton) error
	Click(ctx context.Context, button MouseButton, count int) error
	Move(ctx context.Context, x, y int) error
	TypeText(ctx context.Context, text string) error
	KeyDown(ctx context.Context, key Key) error
	KeyUp(ctx context.Context, key Key) error
}

// Capture is a full-screen screenshot encoded as PNG.
type Capture struct {
	Width  int
	Height int
	PNG    []byte
}

// Screenshotter captures the primary display.
type Screenshotter interface {
	Capture(ctx context.Context) (*Capture, error)
}

// FocusTracker reports the application owning the focused window.
type FocusTracker interface {
	FocusedApp(ctx context.Context) (*model.FocusedApp, error)
}

// AccessibilityWalker reads the accessibility tree rooted at the focused
// window or the desktop, depending on the platform.
type AccessibilityWalker interface {
	// Walk returns at most depth levels and breadth children per node.
	Walk(ctx context.Context, depth, breadth int) (*model.Node, error)
}

// InputMonitor delivers native input events for a device.
type InputMonitor interface {
	// Watch registers fn for events from dev. fn runs on a monitor-owned
	// goroutine until the returned stop function is called.
	Watch(dev Device, fn func(InputEvent)) (stop func() error, err error)
}

// Checker is implemented by collaborators that can verify their native
// dependencies without side effects.
type Checker interface {
	Check(ctx context.Context) error
}
