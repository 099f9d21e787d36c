package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RunsTotal counts matching runs by trigger type.
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recon_runs_total",
		Help: "Matching runs executed, by trigger type.",
	}, []string{"trigger"})

	// RunDuration observes end-to-end matching run latency.
	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "recon_run_duration_seconds",
		Help:    "End-to-end duration of a matching run.",
		Buckets: prometheus.DefBuckets,
	})

	// BreaksDetected counts break candidates emitted by runs, by type.
	BreaksDetected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recon_breaks_detected_total",
		Help: "Break candidates detected, by break type.",
	}, []string{"type"})

	// BreakTransitions counts applied workflow transitions by target
	// status. Rejected transition attempts are not counted.
	BreakTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recon_break_transitions_total",
		Help: "Applied break status transitions, by target status.",
	}, []string{"target"})
)
