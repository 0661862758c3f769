//go:build linux

package x11

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/mj1618/computer-mcp/internal/model"
	"github.com/mj1618/computer-mcp/internal/platform"
)

const (
	atspiRegistry   = "org.a11y.atspi.Registry"
	atspiRootPath   = dbus.ObjectPath("/org/a11y/atspi/accessible/root")
	atspiNullPath   = dbus.ObjectPath("/org/a11y/atspi/null")
	ifaceAccessible = "org.a11y.atspi.Accessible"
	ifaceComponent  = "org.a11y.atspi.Component"
	// coordTypeScreen asks GetExtents for screen coordinates.
	coordTypeScreen = uint32(0)
)

// accessible is one node of an accessibility tree. It is implemented over
// D-Bus for AT-SPI and by fakes in tests.
type accessible interface {
	Name(ctx context.Context) (string, error)
	Role(ctx context.Context) (string, error)
	Extents(ctx context.Context) (*model.Bounds, error)
	Children(ctx context.Context) ([]accessible, error)
}

// walk converts acc into a Node, reading at most depth levels (the root is
// level 1) and breadth children per node. Unreadable attributes are left
// empty; only cancellation aborts the walk.
func walk(ctx context.Context, acc accessible, level, depth, breadth int) (model.Node, error) {
	if err := ctx.Err(); err != nil {
		return model.Node{}, err
	}
	var n model.Node
	n.Name, _ = acc.Name(ctx)
	if role, err := acc.Role(ctx); err == nil {
		n.Role = model.MapRole(role)
		if n.Role == "other" && role != "" {
			n.Properties = map[string]string{"native_role": role}
		}
	} else {
		n.Role = "other"
	}
	if level > 1 {
		if b, err := acc.Extents(ctx); err == nil && b != nil && (b.Width > 0 || b.Height > 0) {
			n.Bounds = b
		}
	}

	children, err := acc.Children(ctx)
	if err != nil || len(children) == 0 {
		return n, ctx.Err()
	}
	if depth > 0 && level >= depth {
		n.Truncated = len(children)
		return n, nil
	}
	if breadth > 0 && len(children) > breadth {
		n.Truncated = len(children) - breadth
		children = children[:breadth]
	}
	for _, child := range children {
		c, err := walk(ctx, child, level+1, depth, breadth)
		if err != nil {
			return n, err
		}
		n.Children = append(n.Children, c)
	}
	return n, nil
}

// ATSPIWalker reads the desktop accessibility tree from the AT-SPI registry.
type ATSPIWalker struct {
	mu   sync.Mutex
	conn *dbus.Conn
}

// NewATSPIWalker creates a walker. The accessibility bus is connected on
// first use.
func NewATSPIWalker() *ATSPIWalker {
	return &ATSPIWalker{}
}

// Check connects to the accessibility bus and pings the registry.
func (w *ATSPIWalker) Check(ctx context.Context) error {
	conn, err := w.connect(ctx)
	if err != nil {
		return err
	}
	root := &dbusAccessible{conn: conn, dest: atspiRegistry, path: atspiRootPath}
	if _, err := root.Role(ctx); err != nil {
		return fmt.Errorf("AT-SPI registry not responding: %w", platform.ErrUnavailable)
	}
	return nil
}

// Walk returns the desktop tree: the desktop root, its applications and
// their windows, limited by depth and breadth.
func (w *ATSPIWalker) Walk(ctx context.Context, depth, breadth int) (*model.Node, error) {
	conn, err := w.connect(ctx)
	if err != nil {
		return nil, err
	}
	root := &dbusAccessible{conn: conn, dest: atspiRegistry, path: atspiRootPath}
	n, err := walk(ctx, root, 1, depth, breadth)
	if err != nil {
		return nil, fmt.Errorf("walking AT-SPI tree: %w", err)
	}
	return &n, nil
}

func (w *ATSPIWalker) connect(ctx context.Context) (*dbus.Conn, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn != nil && w.conn.Connected() {
		return w.conn, nil
	}

	session, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("session bus: %v: %w", err, platform.ErrUnavailable)
	}
	var addr string
	err = session.Object("org.a11y.Bus", "/org/a11y/bus").
		CallWithContext(ctx, "org.a11y.Bus.GetAddress", 0).Store(&addr)
	if err != nil {
		return nil, fmt.Errorf("accessibility bus address: %v: %w", err, platform.ErrUnavailable)
	}
	conn, err := dbus.Connect(addr, dbus.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("connecting to accessibility bus: %v: %w", err, platform.ErrUnavailable)
	}
	w.conn = conn
	return conn, nil
}

// Close releases the accessibility bus connection.
func (w *ATSPIWalker) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn == nil {
		return nil
	}
	err := w.conn.Close()
	w.conn = nil
	return err
}

type dbusAccessible struct {
	conn *dbus.Conn
	dest string
	path dbus.ObjectPath
}

func (a *dbusAccessible) obj() dbus.BusObject {
	return a.conn.Object(a.dest, a.path)
}

func (a *dbusAccessible) Name(ctx context.Context) (string, error) {
	var v dbus.Variant
	err := a.obj().CallWithContext(ctx, "org.freedesktop.DBus.Properties.Get", 0, ifaceAccessible, "Name").Store(&v)
	if err != nil {
		return "", err
	}
	s, _ := v.Value().(string)
	return strings.TrimSpace(s), nil
}

func (a *dbusAccessible) Role(ctx context.Context) (string, error) {
	var role string
	err := a.obj().CallWithContext(ctx, ifaceAccessible+".GetRoleName", 0).Store(&role)
	return role, err
}

func (a *dbusAccessible) Extents(ctx context.Context) (*model.Bounds, error) {
	var ext struct {
		X, Y, Width, Height int32
	}
	err := a.obj().CallWithContext(ctx, ifaceComponent+".GetExtents", 0, coordTypeScreen).Store(&ext)
	if err != nil {
		return nil, err
	}
	return &model.Bounds{X: int(ext.X), Y: int(ext.Y), Width: int(ext.Width), Height: int(ext.Height)}, nil
}

func (a *dbusAccessible) Children(ctx context.Context) ([]accessible, error) {
	var refs []struct {
		Name string
		Path dbus.ObjectPath
	}
	err := a.obj().CallWithContext(ctx, ifaceAccessible+".GetChildren", 0).Store(&refs)
	if err != nil {
		return nil, err
	}
	out := make([]accessible, 0, len(refs))
	for _, r := range refs {
		if r.Path == atspiNullPath || r.Name == "" {
			continue
		}
		out = append(out, &dbusAccessible{conn: a.conn, dest: r.Name, path: r.Path})
	}
	return out, nil
}
