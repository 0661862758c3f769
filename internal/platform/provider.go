package platform

import (
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/hashicorp/go-multierror"
)

// Provider bundles all platform backends for the current OS. Any field may be
// nil when the backend has no implementation for it.
type Provider struct {
	Name          string
	Inputter      Inputter
	Screenshotter Screenshotter
	FocusTracker  FocusTracker
	Accessibility AccessibilityWalker
	InputMonitor  InputMonitor
}

// ErrUnsupported is returned on unsupported platforms.
var ErrUnsupported = fmt.Errorf("computer-mcp is not supported on %s/%s; supported: linux (X11), darwin", runtime.GOOS, runtime.GOARCH)

// ErrUnavailable marks a collaborator whose native dependency is missing,
// uninitialized or denied.
var ErrUnavailable = errors.New("not available on this system")

// NewProviderFunc is set by platform-specific packages via init().
// See internal/platform/x11/init.go and internal/platform/darwin/init.go.
var NewProviderFunc func() (*Provider, error)

// NewProvider returns a Provider for the current OS.
func NewProvider() (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	return NewProviderFunc()
}

// Close releases collaborators that hold native resources, such as the
// AT-SPI bus connection. It is safe on a nil Provider.
func (p *Provider) Close() error {
	if p == nil {
		return nil
	}
	var result *multierror.Error
	for _, c := range []any{p.Inputter, p.Screenshotter, p.FocusTracker, p.Accessibility, p.InputMonitor} {
		if closer, ok := c.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}
	return result.ErrorOrNil()
}
