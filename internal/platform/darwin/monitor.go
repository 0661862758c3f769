//go:build darwin && cgo

package darwin

/*
#cgo LDFLAGS: -framework CoreGraphics
#include <CoreGraphics/CoreGraphics.h>

static void cg_location(double *x, double *y) {
    CGEventRef ev = CGEventCreate(NULL);
    CGPoint p = CGPointZero;
    if (ev) {
        p = CGEventGetLocation(ev);
        CFRelease(ev);
    }
    *x = p.x;
    *y = p.y;
}

static int cg_button_down(int button) {
    return CGEventSourceButtonState(kCGEventSourceStateCombinedSessionState, (CGMouseButton)button);
}

static int cg_key_down(int code) {
    return CGEventSourceKeyState(kCGEventSourceStateCombinedSessionState, (CGKeyCode)code);
}
*/
import "C"

import (
	"context"
	"math"
	"sync"

	"github.com/mj1618/computer-mcp/internal/platform"
)

// Monitor implements platform.InputMonitor by polling the combined session
// state. Polling sees input from every application without an event tap.
type Monitor struct{}

// NewMonitor creates a polling monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// Check verifies the input monitoring permission.
func (m *Monitor) Check(ctx context.Context) error {
	return checkInputMonitoring()
}

func (m *Monitor) Watch(dev platform.Device, fn func(platform.InputEvent)) (func() error, error) {
	if err := checkInputMonitoring(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		poll(ctx, dev, sessionState{}, pollInterval, fn)
	}()

	var once sync.Once
	return func() error {
		once.Do(func() {
			cancel()
			wg.Wait()
		})
		return nil
	}, nil
}

// sessionState samples CoreGraphics. Buttons use CGMouseButton numbering.
type sessionState struct{}

func (sessionState) Cursor() (int, int) {
	var x, y C.double
	C.cg_location(&x, &y)
	return int(math.Round(float64(x))), int(math.Round(float64(y)))
}

func (sessionState) ButtonDown(b platform.MouseButton) bool {
	n := 0
	switch b {
	case platform.MouseRight:
		n = 1
	case platform.MouseMiddle:
		n = 2
	}
	return C.cg_button_down(C.int(n)) != 0
}

func (sessionState) KeyDown(code uint16) bool {
	return C.cg_key_down(C.int(code)) != 0
}
