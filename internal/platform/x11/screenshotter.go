//go:build linux

package x11

import (
	"context"
	"errors"

	"github.com/mj1618/computer-mcp/internal/platform"
	"github.com/mj1618/computer-mcp/internal/screen"
)

// Screenshotter captures the X root window with ImageMagick's import.
type Screenshotter struct {
	run platform.Runner
}

// NewScreenshotter creates an import-based screenshotter.
func NewScreenshotter(run platform.Runner) *Screenshotter {
	return &Screenshotter{run: run}
}

// Check verifies that import and a display are available.
func (s *Screenshotter) Check(ctx context.Context) error {
	return checkTools("import")
}

func (s *Screenshotter) Capture(ctx context.Context) (*platform.Capture, error) {
	data, err := s.run(ctx, "import", "-silent", "-window", "root", "png:-")
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("import produced no image data")
	}
	w, h, err := screen.Dimensions(data)
	if err != nil {
		return nil, err
	}
	return &platform.Capture{Width: w, Height: h, PNG: data}, nil
}
