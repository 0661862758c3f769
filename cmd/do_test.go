package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mj1618/computer-mcp/internal/dispatch"
)

func TestParseSteps(t *testing.T) {
	steps, err := parseSteps([]byte(`
- mouse_move: { x: 10, y: 20 }
- drag: { start: { x: 1, y: 2 }, end: { x: 3, y: 4 } }
- click: {}
`))
	if err != nil {
		t.Fatal(err)
	}
	if len(steps) != 3 {
		t.Fatalf("got %d steps, want 3", len(steps))
	}
	if steps[0].Tool != "mouse_move" || steps[0].Args["x"] != 10 {
		t.Errorf("step 1: got %+v", steps[0])
	}
	start, ok := steps[1].Args["start"].(map[string]any)
	if !ok || start["y"] != 2 {
		t.Errorf("step 2 start: got %#v", steps[1].Args["start"])
	}
	if steps[2].Tool != "click" {
		t.Errorf("step 3: got %+v", steps[2])
	}
}

func TestParseStepsErrors(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "no steps provided on stdin"},
		{"[]", "no steps provided"},
		{"- {click: {}, type: {text: a}}", "expected exactly one tool name"},
		{"not: [a list", "failed to parse"},
	}
	for _, tt := range tests {
		_, err := parseSteps([]byte(tt.in))
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("parseSteps(%q): got %v, want error containing %q", tt.in, err, tt.want)
		}
	}
}

type fakeDispatcher struct {
	calls []string
	fail  map[string]bool
	image []byte
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, name string, args map[string]any) *dispatch.Result {
	f.calls = append(f.calls, name)
	res := &dispatch.Result{Action: name, Success: !f.fail[name], Image: f.image}
	if !res.Success {
		res.Error = name + " failed"
		res.ErrorKind = dispatch.ErrorKindActionFailure
	}
	return res
}

func TestRunSteps(t *testing.T) {
	steps := []Step{{Tool: "mouse_move"}, {Tool: "click"}, {Tool: "type"}}

	tests := []struct {
		name        string
		stopOnError bool
		wantCalls   int
		wantDone    int
	}{
		{"stop on error", true, 2, 1},
		{"continue", false, 3, 2},
	}
	for _, tt := range tests {
		d := &fakeDispatcher{fail: map[string]bool{"click": true}}
		got := runSteps(context.Background(), d, steps, tt.stopOnError, "")
		if got.OK {
			t.Errorf("%s: expected failure", tt.name)
		}
		if len(d.calls) != tt.wantCalls || len(got.Results) != tt.wantCalls {
			t.Errorf("%s: got %d calls and %d results, want %d", tt.name, len(d.calls), len(got.Results), tt.wantCalls)
		}
		if got.Completed != tt.wantDone {
			t.Errorf("%s: completed %d, want %d", tt.name, got.Completed, tt.wantDone)
		}
		if got.Error != "step 2 (click): click failed" {
			t.Errorf("%s: error %q", tt.name, got.Error)
		}
		if got.Results[1]["step"] != 2 || got.Results[1]["success"] != false {
			t.Errorf("%s: step 2 result %v", tt.name, got.Results[1])
		}
	}
}

func TestRunStepsSavesScreenshots(t *testing.T) {
	dir := t.TempDir()
	d := &fakeDispatcher{image: []byte("png")}
	got := runSteps(context.Background(), d, []Step{{Tool: "screenshot"}}, true, dir)
	if !got.OK || got.Completed != 1 {
		t.Fatalf("got %+v", got)
	}
	path := filepath.Join(dir, "step-1.png")
	if got.Results[0]["screenshot_file"] != path {
		t.Errorf("screenshot_file: got %v, want %s", got.Results[0]["screenshot_file"], path)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "png" {
		t.Errorf("saved screenshot: %q, %v", data, err)
	}
}

func TestRunStepsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := &fakeDispatcher{}
	got := runSteps(ctx, d, []Step{{Tool: "click"}}, true, "")
	if got.OK || len(d.calls) != 0 {
		t.Errorf("got %+v after %d calls", got, len(d.calls))
	}
}
