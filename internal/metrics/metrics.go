// Package metrics exposes Prometheus metrics for tool calls, observation
// collection and listener liveness. All methods are safe on a nil *Metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "computer_mcp"

// Metrics holds the collectors registered on a private registry.
type Metrics struct {
	registry            *prometheus.Registry
	toolCalls           *prometheus.CounterVec
	toolDuration        *prometheus.HistogramVec
	observationFailures *prometheus.CounterVec
	listenersRunning    *prometheus.GaugeVec
}

// New creates a Metrics with its own registry, including Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Tool invocations by tool and outcome (ok, invalid_argument, action_failure).",
		}, []string{"tool", "outcome"}),
		toolDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_call_duration_seconds",
			Help:      "Tool invocation latency including observation collection.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"tool"}),
		observationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "observation_failures_total",
			Help:      "Observation kinds omitted from a snapshot because collection failed or timed out.",
		}, []string{"kind"}),
		listenersRunning: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "listeners_running",
			Help:      "1 when the state listener for the device is running.",
		}, []string{"device"}),
	}
	m.registry.MustRegister(
		m.toolCalls,
		m.toolDuration,
		m.observationFailures,
		m.listenersRunning,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ToolCall records one tool invocation.
func (m *Metrics) ToolCall(tool, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.toolCalls.WithLabelValues(tool, outcome).Inc()
	m.toolDuration.WithLabelValues(tool).Observe(d.Seconds())
}

// ObservationFailed records a failed or timed-out observation kind.
func (m *Metrics) ObservationFailed(kind string) {
	if m == nil {
		return
	}
	m.observationFailures.WithLabelValues(kind).Inc()
}

// ListenerRunning sets the liveness gauge for a device.
func (m *Metrics) ListenerRunning(device string, running bool) {
	if m == nil {
		return
	}
	v := 0.0
	if running {
		v = 1
	}
	m.listenersRunning.WithLabelValues(device).Set(v)
}
