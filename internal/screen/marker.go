package screen

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const markerArm = 12

var (
	markerColor  = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	textColor    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	outlineColor = color.RGBA{R: 0, G: 0, B: 0, A: 200}
)

// ToRGBA converts any image to RGBA.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return rgba
}

// MarkCursor draws a crosshair at p, converted to image pixels by scale, and
// labels it with the unscaled screen coordinates.
func MarkCursor(img image.Image, p image.Point, scale float64) *image.RGBA {
	rgba := ToRGBA(img)
	b := rgba.Bounds()
	cx := b.Min.X + int(float64(p.X)*scale)
	cy := b.Min.Y + int(float64(p.Y)*scale)

	drawLabel(rgba, fmt.Sprintf("(%d,%d)", p.X, p.Y), cx+markerArm+4, cy-markerArm)
	for d := -markerArm; d <= markerArm; d++ {
		for w := -1; w <= 1; w++ {
			setIn(rgba, cx+d, cy+w, markerColor)
			setIn(rgba, cx+w, cy+d, markerColor)
		}
	}
	return rgba
}

func setIn(img *image.RGBA, x, y int, c color.Color) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.Set(x, y, c)
	}
}

// drawLabel draws outlined text with its baseline at (x, y+13).
func drawLabel(img *image.RGBA, text string, x, y int) {
	// basicfont.Face7x13 glyphs are 7px wide.
	if limit := img.Bounds().Max.X - len(text)*7 - 1; x > limit {
		x = limit
	}
	y += 13
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			drawString(img, text, x+dx, y+dy, outlineColor)
		}
	}
	drawString(img, text, x, y, textColor)
}

func drawString(img *image.RGBA, text string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
