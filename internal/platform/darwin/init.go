//go:build darwin && cgo

package darwin

import "github.com/mj1618/computer-mcp/internal/platform"

func init() {
	platform.NewProviderFunc = func() (*platform.Provider, error) {
		run := platform.RunCommand
		return &platform.Provider{
			Name:          "darwin",
			Inputter:      NewInputter(),
			Screenshotter: NewScreenshotter(run),
			FocusTracker:  NewFocusTracker(run),
			Accessibility: NewWalker(run),
			InputMonitor:  NewMonitor(),
		}, nil
	}
}
