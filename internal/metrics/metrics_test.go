package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestToolCall(t *testing.T) {
	m := New()
	m.ToolCall("click", "ok", 10*time.Millisecond)
	m.ToolCall("click", "ok", 20*time.Millisecond)
	m.ToolCall("click", "action_failure", time.Millisecond)

	if got := testutil.ToFloat64(m.toolCalls.WithLabelValues("click", "ok")); got != 2 {
		t.Errorf("ok calls: got %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.toolCalls.WithLabelValues("click", "action_failure")); got != 1 {
		t.Errorf("failed calls: got %v, want 1", got)
	}
}

func TestObservationFailed(t *testing.T) {
	m := New()
	m.ObservationFailed("accessibility_tree")
	if got := testutil.ToFloat64(m.observationFailures.WithLabelValues("accessibility_tree")); got != 1 {
		t.Errorf("got %v, want 1", got)
	}
}

func TestListenerRunning(t *testing.T) {
	m := New()
	m.ListenerRunning("mouse", true)
	if got := testutil.ToFloat64(m.listenersRunning.WithLabelValues("mouse")); got != 1 {
		t.Errorf("running: got %v, want 1", got)
	}
	m.ListenerRunning("mouse", false)
	if got := testutil.ToFloat64(m.listenersRunning.WithLabelValues("mouse")); got != 0 {
		t.Errorf("stopped: got %v, want 0", got)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ToolCall("click", "ok", time.Millisecond)
	m.ObservationFailed("screenshot")
	m.ListenerRunning("keyboard", true)
	if m.Registry() != nil {
		t.Error("nil metrics should have nil registry")
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.ToolCall("type", "ok", time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 200 {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "computer_mcp_tool_calls_total") {
		t.Error("exposition should contain computer_mcp_tool_calls_total")
	}
}
