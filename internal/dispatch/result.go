package dispatch

import (
	"encoding/json"
	"errors"

	"github.com/mj1618/computer-mcp/internal/observe"
)

// ErrorKind classifies a failed tool call.
type ErrorKind string

const (
	// ErrorKindInvalidArgument means the call was rejected before any action
	// ran.
	ErrorKindInvalidArgument ErrorKind = "invalid_argument"
	// ErrorKindActionFailure means the action's collaborator returned an
	// error. Observations are still attached.
	ErrorKindActionFailure ErrorKind = "action_failure"
)

// ErrInvalidArgument marks validation failures.
var ErrInvalidArgument = errors.New("invalid argument")

// Result is the envelope returned for every tool call.
type Result struct {
	Success   bool
	Action    string
	Error     string
	ErrorKind ErrorKind
	// Fields holds action-specific values, flattened into the top level.
	Fields       map[string]any
	Observations *observe.Observations
	// Image is the PNG attachment, if a screenshot was taken.
	Image []byte
}

// Map returns the metadata object sent to clients. Action fields never
// override the envelope keys.
func (r *Result) Map() map[string]any {
	m := make(map[string]any, len(r.Fields)+4)
	for k, v := range r.Fields {
		m[k] = v
	}
	m["success"] = r.Success
	m["action"] = r.Action
	if r.Error != "" {
		m["error"] = r.Error
		m["error_kind"] = string(r.ErrorKind)
	}
	if r.Observations != nil && !r.Observations.IsEmpty() {
		m["observations"] = r.Observations
	}
	return m
}

// MarshalJSON encodes the metadata object. The image is not included.
func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Map())
}

// MarshalYAML implements yaml.Marshaler.
func (r *Result) MarshalYAML() (any, error) {
	return r.Map(), nil
}

func (r *Result) outcome() string {
	if r.Success {
		return "ok"
	}
	return string(r.ErrorKind)
}
