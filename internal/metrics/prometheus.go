// Package metrics exposes Prometheus collectors for conversation runs and
// tool calls, and the message shape helpers used by telemetry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "datagen"

// Run outcomes.
const (
	OutcomeOK     = "ok"
	OutcomeError  = "error"
	OutcomeBudget = "step_budget"
	OutcomePanic  = "panic"
)

var (
	Registry = prometheus.NewRegistry()

	ToolExecTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tool_exec_total",
		Help:      "Tool invocations by tool and status.",
	}, []string{"tool", "status"})

	ToolExecDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "tool_exec_duration_seconds",
		Help:      "Tool execution latency.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
	}, []string{"tool"})

	RunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "runs_total",
		Help:      "Conversation runs by outcome.",
	}, []string{"outcome"})

	RunSteps = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "run_steps",
		Help:      "Model round trips per conversation run.",
		Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 34, 50},
	})
)

func init() {
	Registry.MustRegister(
		ToolExecTotal,
		ToolExecDuration,
		RunsTotal,
		RunSteps,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// ObserveTool records one tool call. status is "ok", "error" or "unknown".
func ObserveTool(tool, status string, elapsed time.Duration) {
	ToolExecTotal.WithLabelValues(tool, status).Inc()
	ToolExecDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// ObserveRun records the end of a conversation run.
func ObserveRun(outcome string, steps int) {
	RunsTotal.WithLabelValues(outcome).Inc()
	if steps > 0 {
		RunSteps.Observe(float64(steps))
	}
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
