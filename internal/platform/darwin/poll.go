package darwin

import (
	"context"
	"sort"
	"time"

	"github.com/mj1618/computer-mcp/internal/platform"
)

// pollInterval is how often input state is sampled.
const pollInterval = 30 * time.Millisecond

// sampler reads the live input state of the session.
type sampler interface {
	Cursor() (x, y int)
	ButtonDown(b platform.MouseButton) bool
	KeyDown(code uint16) bool
}

var polledButtons = []platform.MouseButton{platform.MouseLeft, platform.MouseMiddle, platform.MouseRight}

// poll samples s every interval and calls fn for each change relevant to dev
// until ctx is done. Buttons and keys already held on the first sample are
// reported as presses.
func poll(ctx context.Context, dev platform.Device, s sampler, interval time.Duration, fn func(platform.InputEvent)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var (
		lastX, lastY int
		seen         bool
		buttons      = make(map[platform.MouseButton]bool)
		keys         = make(map[string]bool)
	)
	for {
		switch dev {
		case platform.DeviceMouse:
			if x, y := s.Cursor(); !seen || x != lastX || y != lastY {
				lastX, lastY, seen = x, y, true
				fn(platform.InputEvent{Type: platform.EventMouseMove, X: x, Y: y})
			}
			for _, b := range polledButtons {
				down := s.ButtonDown(b)
				if down != buttons[b] {
					buttons[b] = down
					fn(platform.InputEvent{Type: platform.EventMouseButton, Button: b, Pressed: down})
				}
			}
		case platform.DeviceKeyboard:
			diffKeys(keys, sampleKeys(s), fn)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func sampleKeys(s sampler) map[string]bool {
	held := make(map[string]bool)
	for code, name := range keyNames {
		if s.KeyDown(code) {
			held[name] = true
		}
	}
	return held
}

// diffKeys emits releases then presses, each in name order, and updates prev
// to match cur.
func diffKeys(prev, cur map[string]bool, fn func(platform.InputEvent)) {
	var released, pressed []string
	for name := range prev {
		if !cur[name] {
			released = append(released, name)
		}
	}
	for name := range cur {
		if !prev[name] {
			pressed = append(pressed, name)
		}
	}
	sort.Strings(released)
	sort.Strings(pressed)
	for _, name := range released {
		delete(prev, name)
		fn(platform.InputEvent{Type: platform.EventKey, Key: name})
	}
	for _, name := range pressed {
		prev[name] = true
		fn(platform.InputEvent{Type: platform.EventKey, Key: name, Pressed: true})
	}
}
