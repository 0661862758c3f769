//go:build linux

package x11

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mj1618/computer-mcp/internal/model"
	"github.com/mj1618/computer-mcp/internal/platform"
)

// FocusTracker reads the active window through xdotool and the owning
// process name from /proc.
type FocusTracker struct {
	run      platform.Runner
	readFile func(string) ([]byte, error)
}

// NewFocusTracker creates an xdotool focus tracker.
func NewFocusTracker(run platform.Runner) *FocusTracker {
	return &FocusTracker{run: run, readFile: os.ReadFile}
}

// Check verifies that xdotool and a display are available.
func (f *FocusTracker) Check(ctx context.Context) error {
	return checkTools("xdotool")
}

func (f *FocusTracker) FocusedApp(ctx context.Context) (*model.FocusedApp, error) {
	out, err := f.run(ctx, "xdotool", "getactivewindow")
	if err != nil {
		return nil, fmt.Errorf("getting active window: %w", err)
	}
	window := strings.TrimSpace(string(out))
	if window == "" {
		return nil, fmt.Errorf("no active window")
	}

	app := &model.FocusedApp{}
	if out, err := f.run(ctx, "xdotool", "getwindowname", window); err == nil {
		app.Title = strings.TrimSpace(string(out))
	}
	// Windows without _NET_WM_PID have no pid; report the title alone.
	if out, err := f.run(ctx, "xdotool", "getwindowpid", window); err == nil {
		if pid, err := strconv.Atoi(strings.TrimSpace(string(out))); err == nil {
			app.PID = pid
			if comm, err := f.readFile(fmt.Sprintf("/proc/%d/comm", pid)); err == nil {
				app.Name = strings.TrimSpace(string(comm))
			}
		}
	}
	if app.Name == "" {
		app.Name = app.Title
	}
	return app, nil
}
