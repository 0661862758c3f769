//go:build linux

package x11

import (
	"fmt"
	"os"

	"github.com/mj1618/computer-mcp/internal/platform"
)

func init() {
	platform.NewProviderFunc = func() (*platform.Provider, error) {
		run := platform.RunCommand
		return &platform.Provider{
			Name:          "x11",
			Inputter:      NewInputter(run),
			Screenshotter: NewScreenshotter(run),
			FocusTracker:  NewFocusTracker(run),
			Accessibility: NewATSPIWalker(),
			InputMonitor:  NewMonitor(run),
		}, nil
	}
}

// checkDisplay fails when no X display is configured.
func checkDisplay() error {
	if os.Getenv("DISPLAY") == "" {
		return fmt.Errorf("DISPLAY is not set: %w", platform.ErrUnavailable)
	}
	return nil
}

func checkTools(names ...string) error {
	if err := checkDisplay(); err != nil {
		return err
	}
	return platform.RequireCommands(names...)
}
