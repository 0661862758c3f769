// Package screen post-processes screenshots: downscaling to a maximum side
// and marking the cursor position.
package screen

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png" // registers the decoder for Dimensions

	"github.com/disintegration/imaging"
)

// Options controls Process. The zero value leaves the image untouched.
type Options struct {
	// MaxSide caps the longer image side in pixels; 0 disables scaling.
	MaxSide int
	// Cursor, when set, is marked on the image. It is in capture pixels.
	Cursor *image.Point
}

// Image is a processed screenshot.
type Image struct {
	Width  int
	Height int
	PNG    []byte
	// Scale is the ratio of output to capture pixels (1 when unscaled).
	Scale float64
}

func (o Options) needsWork(width, height int) bool {
	if o.Cursor != nil {
		return true
	}
	return o.MaxSide > 0 && (width > o.MaxSide || height > o.MaxSide)
}

// Process applies opts to a PNG capture of width x height pixels. The input
// is returned as-is when there is nothing to do.
func Process(png []byte, width, height int, opts Options) (*Image, error) {
	if !opts.needsWork(width, height) {
		return &Image{Width: width, Height: height, PNG: png, Scale: 1}, nil
	}

	img, err := imaging.Decode(bytes.NewReader(png))
	if err != nil {
		return nil, fmt.Errorf("decoding screenshot: %w", err)
	}
	origW := img.Bounds().Dx()

	if opts.MaxSide > 0 {
		img = imaging.Fit(img, opts.MaxSide, opts.MaxSide, imaging.Lanczos)
	}

	scale := 1.0
	if origW > 0 {
		scale = float64(img.Bounds().Dx()) / float64(origW)
	}

	if opts.Cursor != nil {
		img = MarkCursor(img, *opts.Cursor, scale)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encoding screenshot: %w", err)
	}
	b := img.Bounds()
	return &Image{Width: b.Dx(), Height: b.Dy(), PNG: buf.Bytes(), Scale: scale}, nil
}

// Dimensions reads the width and height from a PNG header without decoding
// pixel data.
func Dimensions(png []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(png))
	if err != nil {
		return 0, 0, fmt.Errorf("reading image header: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
