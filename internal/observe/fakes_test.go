package observe

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/mj1618/computer-mcp/internal/model"
	"github.com/mj1618/computer-mcp/internal/platform"
)

// fakeMonitor delivers events synchronously through emit.
type fakeMonitor struct {
	mu      sync.Mutex
	fns     map[platform.Device]func(platform.InputEvent)
	watches map[platform.Device]int
	stops   map[platform.Device]int
	fail    map[platform.Device]error
}

func newFakeMonitor() *fakeMonitor {
	return &fakeMonitor{
		fns:     map[platform.Device]func(platform.InputEvent){},
		watches: map[platform.Device]int{},
		stops:   map[platform.Device]int{},
		fail:    map[platform.Device]error{},
	}
}

func (m *fakeMonitor) Watch(dev platform.Device, fn func(platform.InputEvent)) (func() error, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail[dev]; err != nil {
		return nil, err
	}
	m.watches[dev]++
	m.fns[dev] = fn
	return func() error {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.stops[dev]++
		delete(m.fns, dev)
		return nil
	}, nil
}

func (m *fakeMonitor) setFail(dev platform.Device, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.fail, dev)
		return
	}
	m.fail[dev] = err
}

func (m *fakeMonitor) emit(dev platform.Device, ev platform.InputEvent) {
	m.mu.Lock()
	fn := m.fns[dev]
	m.mu.Unlock()
	if fn != nil {
		fn(ev)
	}
}

func (m *fakeMonitor) counts(dev platform.Device) (watches, stops int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.watches[dev], m.stops[dev]
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

type fakeScreenshotter struct {
	png   []byte
	calls atomic.Int32
	err   error
}

func (s *fakeScreenshotter) Capture(ctx context.Context) (*platform.Capture, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return &platform.Capture{Width: 64, Height: 48, PNG: s.png}, nil
}

type fakeTracker struct {
	calls atomic.Int32
}

func (f *fakeTracker) FocusedApp(ctx context.Context) (*model.FocusedApp, error) {
	f.calls.Add(1)
	return &model.FocusedApp{Name: "firefox", PID: 4242, Title: "Mozilla Firefox"}, nil
}

type fakeWalker struct {
	root *model.Node
	err  error
	// hang, when non-nil, blocks Walk until closed, ignoring ctx.
	hang chan struct{}
}

func (w *fakeWalker) Walk(ctx context.Context, depth, breadth int) (*model.Node, error) {
	if w.hang != nil {
		<-w.hang
	}
	if w.err != nil {
		return nil, w.err
	}
	return w.root, nil
}

var errWalk = errors.New("at-spi registry not reachable")

type fixture struct {
	state     *State
	assembler *Assembler
	monitor   *fakeMonitor
	screen    *fakeScreenshotter
	tracker   *fakeTracker
	walker    *fakeWalker
}

func newFixture(t *testing.T, initial Config, opts AssemblerOptions) *fixture {
	t.Helper()
	f := &fixture{
		monitor: newFakeMonitor(),
		screen:  &fakeScreenshotter{png: testPNG(t, 64, 48)},
		tracker: &fakeTracker{},
		walker: &fakeWalker{root: &model.Node{Role: "app", Name: "firefox", Children: []model.Node{
			{Role: "window", Name: "Mozilla Firefox"},
		}}},
	}
	provider := &platform.Provider{
		Name:          "fake",
		Screenshotter: f.screen,
		FocusTracker:  f.tracker,
		Accessibility: f.walker,
		InputMonitor:  f.monitor,
	}
	f.state = NewState(initial, NewListeners(f.monitor, nil, nil), nil)
	f.assembler = NewAssembler(f.state, provider, opts, nil, nil)
	t.Cleanup(func() { f.state.Close() })
	return f
}

func (f *fixture) snapshot() Snapshot {
	return f.assembler.Assemble(context.Background(), f.state.Config())
}
