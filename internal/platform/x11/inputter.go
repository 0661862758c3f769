//go:build linux

package x11

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mj1618/computer-mcp/internal/platform"
)

// xdotool button numbers.
var buttonNumbers = map[platform.MouseButton]string{
	platform.MouseLeft:   "1",
	platform.MouseMiddle: "2",
	platform.MouseRight:  "3",
}

// multiClickDelayMs keeps repeated clicks inside the double-click interval.
const multiClickDelayMs = "60"

// Inputter implements platform.Inputter with xdotool.
type Inputter struct {
	run platform.Runner
}

// NewInputter creates an xdotool inputter.
func NewInputter(run platform.Runner) *Inputter {
	return &Inputter{run: run}
}

// Check verifies that xdotool and a display are available.
func (in *Inputter) Check(ctx context.Context) error {
	return checkTools("xdotool")
}

func (in *Inputter) xdotool(ctx context.Context, args ...string) error {
	_, err := in.run(ctx, "xdotool", args...)
	return err
}

func (in *Inputter) Press(ctx context.Context, button platform.MouseButton) error {
	return in.xdotool(ctx, "mousedown", buttonNumbers[button])
}

func (in *Inputter) Release(ctx context.Context, button platform.MouseButton) error {
	return in.xdotool(ctx, "mouseup", buttonNumbers[button])
}

func (in *Inputter) Click(ctx context.Context, button platform.MouseButton, count int) error {
	if count < 1 {
		count = 1
	}
	return in.xdotool(ctx, "click", "--repeat", strconv.Itoa(count), "--delay", multiClickDelayMs, buttonNumbers[button])
}

func (in *Inputter) Move(ctx context.Context, x, y int) error {
	return in.xdotool(ctx, "mousemove", strconv.Itoa(x), strconv.Itoa(y))
}

func (in *Inputter) TypeText(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	return in.xdotool(ctx, "type", "--delay", "12", "--", text)
}

func (in *Inputter) KeyDown(ctx context.Context, k platform.Key) error {
	sym, err := Keysym(k)
	if err != nil {
		return err
	}
	return in.xdotool(ctx, "keydown", sym)
}

func (in *Inputter) KeyUp(ctx context.Context, k platform.Key) error {
	sym, err := Keysym(k)
	if err != nil {
		return err
	}
	if err := in.xdotool(ctx, "keyup", sym); err != nil {
		return fmt.Errorf("releasing %s: %w", k, err)
	}
	return nil
}
