//go:build linux

package x11

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mj1618/computer-mcp/internal/platform"
)

// positionPollInterval is how often the cursor position is sampled.
const positionPollInterval = 50 * time.Millisecond

// Monitor implements platform.InputMonitor. Buttons and keys come from the
// raw XI2 events printed by `xinput test-xi2 --root`; the cursor position is
// polled with `xdotool getmouselocation`.
type Monitor struct {
	run platform.Runner
}

// NewMonitor creates an xinput-based monitor.
func NewMonitor(run platform.Runner) *Monitor {
	return &Monitor{run: run}
}

// Check verifies that xinput, xdotool and a display are available.
func (m *Monitor) Check(ctx context.Context) error {
	return checkTools("xinput", "xdotool")
}

// Watch starts the native listeners for dev. The returned stop function
// terminates them and waits for their goroutines to exit.
func (m *Monitor) Watch(dev platform.Device, fn func(platform.InputEvent)) (func() error, error) {
	if err := checkDisplay(); err != nil {
		return nil, err
	}

	var keymap map[int]string
	if dev == platform.DeviceKeyboard {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		out, err := m.run(ctx, "xmodmap", "-pke")
		cancel()
		if err != nil {
			return nil, fmt.Errorf("reading keymap: %w", err)
		}
		keymap = ParseKeymap(string(out))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(ctx, "xinput", "test-xi2", "--root")
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("starting xinput: %w", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ParseXI2(stdout, func(ev XI2Event) {
			if out, ok := ev.translate(dev, keymap); ok {
				fn(out)
			}
		})
	}()

	if dev == platform.DeviceMouse {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.pollPosition(ctx, fn)
		}()
	}

	var once sync.Once
	return func() error {
		once.Do(func() {
			cancel()
			wg.Wait()
			_ = cmd.Wait()
		})
		return nil
	}, nil
}

func (m *Monitor) pollPosition(ctx context.Context, fn func(platform.InputEvent)) {
	ticker := time.NewTicker(positionPollInterval)
	defer ticker.Stop()
	lastX, lastY, seen := 0, 0, false
	for {
		out, err := m.run(ctx, "xdotool", "getmouselocation", "--shell")
		if err == nil {
			if x, y, ok := ParseMouseLocation(string(out)); ok && (!seen || x != lastX || y != lastY) {
				lastX, lastY, seen = x, y, true
				fn(platform.InputEvent{Type: platform.EventMouseMove, X: x, Y: y})
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// XI2Event is one event block from `xinput test-xi2`.
type XI2Event struct {
	Type   int
	Name   string
	Detail int
}

// Raw XI2 event types. Raw events are delivered regardless of which window
// has focus.
const (
	xiRawKeyPress      = 13
	xiRawKeyRelease    = 14
	xiRawButtonPress   = 15
	xiRawButtonRelease = 16
)

// X button numbers beyond 3 are scroll wheel clicks and are ignored.
var xButtons = map[int]platform.MouseButton{
	1: platform.MouseLeft,
	2: platform.MouseMiddle,
	3: platform.MouseRight,
}

func (ev XI2Event) translate(dev platform.Device, keymap map[int]string) (platform.InputEvent, bool) {
	switch ev.Type {
	case xiRawButtonPress, xiRawButtonRelease:
		if dev != platform.DeviceMouse {
			return platform.InputEvent{}, false
		}
		b, ok := xButtons[ev.Detail]
		if !ok {
			return platform.InputEvent{}, false
		}
		return platform.InputEvent{
			Type:    platform.EventMouseButton,
			Button:  b,
			Pressed: ev.Type == xiRawButtonPress,
		}, true
	case xiRawKeyPress, xiRawKeyRelease:
		if dev != platform.DeviceKeyboard {
			return platform.InputEvent{}, false
		}
		name, ok := keymap[ev.Detail]
		if !ok {
			name = "keycode_" + strconv.Itoa(ev.Detail)
		}
		return platform.InputEvent{
			Type:    platform.EventKey,
			Key:     name,
			Pressed: ev.Type == xiRawKeyPress,
		}, true
	}
	return platform.InputEvent{}, false
}

var eventHeader = regexp.MustCompile(`^EVENT type (\d+) \(([A-Za-z]+)\)`)

// ParseXI2 reads `xinput test-xi2` output and calls fn once per event with a
// detail line. It returns when r is exhausted.
func ParseXI2(r io.Reader, fn func(XI2Event)) {
	scanner := bufio.NewScanner(r)
	var cur *XI2Event
	for scanner.Scan() {
		line := scanner.Text()
		if m := eventHeader.FindStringSubmatch(line); m != nil {
			t, _ := strconv.Atoi(m[1])
			cur = &XI2Event{Type: t, Name: m[2]}
			continue
		}
		if cur == nil {
			continue
		}
		field, value, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok || field != "detail" {
			continue
		}
		if d, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			cur.Detail = d
			fn(*cur)
		}
		cur = nil
	}
}

// ParseKeymap reads `xmodmap -pke` output into keycode -> key name, using
// the first keysym of each keycode.
func ParseKeymap(out string) map[int]string {
	keymap := make(map[int]string)
	for _, line := range strings.Split(out, "\n") {
		lhs, rhs, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		fields := strings.Fields(lhs)
		if len(fields) != 2 || fields[0] != "keycode" {
			continue
		}
		code, err := strconv.Atoi(fields[1])
		if err != nil {
			continue
		}
		syms := strings.Fields(rhs)
		if len(syms) == 0 || syms[0] == "NoSymbol" {
			continue
		}
		keymap[code] = KeyName(syms[0])
	}
	return keymap
}

// ParseMouseLocation reads `xdotool getmouselocation --shell` output.
func ParseMouseLocation(out string) (x, y int, ok bool) {
	var hasX, hasY bool
	for _, line := range strings.Split(out, "\n") {
		k, v, found := strings.Cut(strings.TrimSpace(line), "=")
		if !found {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			continue
		}
		switch k {
		case "X":
			x, hasX = n, true
		case "Y":
			y, hasY = n, true
		}
	}
	return x, y, hasX && hasY
}
