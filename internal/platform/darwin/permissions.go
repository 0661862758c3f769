//go:build darwin && cgo

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices -framework CoreGraphics -framework Foundation
#include <ApplicationServices/ApplicationServices.h>
#include <CoreGraphics/CoreGraphics.h>

static int is_trusted() {
    return AXIsProcessTrusted();
}

static int can_record_screen() {
    if (@available(macOS 10.15, *)) {
        return CGPreflightScreenCaptureAccess();
    }
    return 1;
}

static int can_listen_events() {
    if (@available(macOS 10.15, *)) {
        return CGPreflightListenEventAccess();
    }
    return 1;
}
*/
import "C"

import (
	"fmt"

	"github.com/mj1618/computer-mcp/internal/platform"
)

// checkAccessibility fails unless the process is trusted for accessibility.
// Input injection, input monitoring and System Events queries all need it.
func checkAccessibility() error {
	if C.is_trusted() == 0 {
		return fmt.Errorf("accessibility permission required "+
			"(System Settings > Privacy & Security > Accessibility, then restart the host app): %w",
			platform.ErrUnavailable)
	}
	return nil
}

func checkScreenRecording() error {
	if C.can_record_screen() == 0 {
		return fmt.Errorf("screen recording permission required "+
			"(System Settings > Privacy & Security > Screen Recording, then restart the host app): %w",
			platform.ErrUnavailable)
	}
	return nil
}

func checkInputMonitoring() error {
	if C.can_listen_events() == 0 {
		return fmt.Errorf("input monitoring permission required "+
			"(System Settings > Privacy & Security > Input Monitoring, then restart the host app): %w",
			platform.ErrUnavailable)
	}
	return nil
}
