package platform

import (
	"context"
	"fmt"
)

// Capabilities records which collaborators are usable in this process.
type Capabilities struct {
	Backend       string            `yaml:"backend"               json:"backend"`
	Input         bool              `yaml:"input"                 json:"input"`
	InputMonitor  bool              `yaml:"input_monitor"         json:"input_monitor"`
	Screenshot    bool              `yaml:"screenshot"            json:"screenshot"`
	FocusedApp    bool              `yaml:"focused_app"           json:"focused_app"`
	Accessibility bool              `yaml:"accessibility"         json:"accessibility"`
	Reasons       map[string]string `yaml:"unavailable,omitempty" json:"unavailable,omitempty"`
}

// Probe checks each collaborator of p. A missing collaborator, a failed
// Check, or a panic during Check all mark the capability unavailable.
func Probe(ctx context.Context, p *Provider) Capabilities {
	caps := Capabilities{Reasons: make(map[string]string)}
	if p == nil {
		caps.Backend = "none"
		caps.Reasons["backend"] = ErrUnsupported.Error()
		return caps
	}
	caps.Backend = p.Name

	caps.Input = probeOne(ctx, caps.Reasons, "input", p.Inputter)
	caps.InputMonitor = probeOne(ctx, caps.Reasons, "input_monitor", p.InputMonitor)
	caps.Screenshot = probeOne(ctx, caps.Reasons, "screenshot", p.Screenshotter)
	caps.FocusedApp = probeOne(ctx, caps.Reasons, "focused_app", p.FocusTracker)
	caps.Accessibility = probeOne(ctx, caps.Reasons, "accessibility", p.Accessibility)
	if len(caps.Reasons) == 0 {
		caps.Reasons = nil
	}
	return caps
}

func probeOne(ctx context.Context, reasons map[string]string, name string, collaborator any) (ok bool) {
	if collaborator == nil {
		reasons[name] = "not implemented by this backend"
		return false
	}
	checker, isChecker := collaborator.(Checker)
	if !isChecker {
		return true
	}
	defer func() {
		if r := recover(); r != nil {
			reasons[name] = fmt.Sprintf("check panicked: %v", r)
			ok = false
		}
	}()
	if err := checker.Check(ctx); err != nil {
		reasons[name] = err.Error()
		return false
	}
	return true
}
