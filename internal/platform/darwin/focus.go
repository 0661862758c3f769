//go:build darwin && cgo

package darwin

import (
	"context"
	"fmt"

	"github.com/mj1618/computer-mcp/internal/model"
	"github.com/mj1618/computer-mcp/internal/platform"
)

const focusScript = `tell application "System Events"
	set p to first application process whose frontmost is true
	set n to name of p
	set i to unix id of p
	set t to ""
	try
		set t to name of front window of p
	end try
end tell
return n & tab & (i as text) & tab & t`

// FocusTracker asks System Events for the frontmost application.
type FocusTracker struct {
	run platform.Runner
}

// NewFocusTracker creates an osascript focus tracker.
func NewFocusTracker(run platform.Runner) *FocusTracker {
	return &FocusTracker{run: run}
}

// Check verifies osascript and the accessibility permission System Events
// needs to read window titles.
func (f *FocusTracker) Check(ctx context.Context) error {
	if err := platform.RequireCommands("osascript"); err != nil {
		return err
	}
	return checkAccessibility()
}

func (f *FocusTracker) FocusedApp(ctx context.Context) (*model.FocusedApp, error) {
	out, err := f.run(ctx, "osascript", "-e", focusScript)
	if err != nil {
		return nil, fmt.Errorf("querying frontmost application: %w", err)
	}
	return parseFocus(string(out))
}
