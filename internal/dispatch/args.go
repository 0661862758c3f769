package dispatch

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/mj1618/computer-mcp/internal/platform"
)

// invalidArg wraps ErrInvalidArgument with a message.
func invalidArg(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, a...))
}

// buttonArg reads the optional "button" argument, defaulting to left.
func buttonArg(args map[string]any) (platform.MouseButton, error) {
	v, ok := args["button"]
	if !ok || v == nil {
		return platform.MouseLeft, nil
	}
	s, ok := v.(string)
	if !ok {
		return platform.MouseLeft, invalidArg("button must be a string, got %T", v)
	}
	b, err := platform.ParseMouseButton(s)
	if err != nil {
		return platform.MouseLeft, invalidArg("%v", err)
	}
	return b, nil
}

// requiredString reads a required string argument. Empty strings are allowed.
func requiredString(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return "", invalidArg("%s is required", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", invalidArg("%s must be a string, got %T", key, v)
	}
	return s, nil
}

// keyArg reads and normalizes the required "key" argument.
func keyArg(args map[string]any) (platform.Key, string, error) {
	s, err := requiredString(args, "key")
	if err != nil {
		return platform.Key{}, "", err
	}
	k, err := platform.ParseKey(s)
	if err != nil {
		return platform.Key{}, "", invalidArg("%v", err)
	}
	return k, s, nil
}

// number converts a decoded JSON or YAML number to float64.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// coordArg reads a required finite coordinate, rounded to the nearest pixel.
func coordArg(args map[string]any, key string) (int, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return 0, invalidArg("%s is required", key)
	}
	f, ok := number(v)
	if !ok {
		return 0, invalidArg("%s must be a number, got %T", key, v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, invalidArg("%s must be finite", key)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, invalidArg("%s is out of range", key)
	}
	return int(math.Round(f)), nil
}

// point is a screen coordinate as it appears in tool arguments and results.
type point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// pointArg reads a required {x, y} object.
func pointArg(args map[string]any, key string) (point, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return point{}, invalidArg("%s is required", key)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return point{}, invalidArg("%s must be an object with x and y, got %T", key, v)
	}
	x, err := coordArg(m, "x")
	if err != nil {
		return point{}, fmt.Errorf("%s: %w", key, err)
	}
	y, err := coordArg(m, "y")
	if err != nil {
		return point{}, fmt.Errorf("%s: %w", key, err)
	}
	return point{X: x, Y: y}, nil
}
