//go:build darwin && cgo

package darwin

import (
	"context"
	"fmt"
	"os"

	"github.com/mj1618/computer-mcp/internal/platform"
	"github.com/mj1618/computer-mcp/internal/screen"
)

// Screenshotter captures the main display with screencapture.
type Screenshotter struct {
	run platform.Runner
}

// NewScreenshotter creates a screencapture-based screenshotter.
func NewScreenshotter(run platform.Runner) *Screenshotter {
	return &Screenshotter{run: run}
}

// Check verifies the screen recording permission and the screencapture binary.
func (s *Screenshotter) Check(ctx context.Context) error {
	if err := platform.RequireCommands("screencapture"); err != nil {
		return err
	}
	return checkScreenRecording()
}

func (s *Screenshotter) Capture(ctx context.Context) (*platform.Capture, error) {
	f, err := os.CreateTemp("", "computer-mcp-*.png")
	if err != nil {
		return nil, fmt.Errorf("creating screenshot file: %w", err)
	}
	path := f.Name()
	f.Close()
	defer os.Remove(path)

	// -x silences the shutter sound; -m limits capture to the main display.
	if _, err := s.run(ctx, "screencapture", "-x", "-m", "-t", "png", path); err != nil {
		return nil, fmt.Errorf("capturing screen: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading screenshot: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("screencapture produced an empty image")
	}
	w, h, err := screen.Dimensions(data)
	if err != nil {
		return nil, err
	}
	return &platform.Capture{Width: w, Height: h, PNG: data}, nil
}
