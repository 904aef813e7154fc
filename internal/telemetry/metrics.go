package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Registry = prometheus.NewRegistry()

	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "epidemicsim",
			Name:      "runs_total",
			Help:      "Completed simulation runs.",
		},
		[]string{"protocol", "outcome"},
	)

	InfectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "epidemicsim",
			Name:      "infections_total",
			Help:      "Nodes infected across all runs.",
		},
		[]string{"protocol"},
	)

	RoundsPerRun = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "epidemicsim",
			Name:      "rounds_per_run",
			Help:      "Rounds executed per run.",
			// Covers 1 .. ~4096 rounds.
			Buckets: prometheus.ExponentialBuckets(1, 2, 13),
		},
		[]string{"protocol"},
	)

	startTime = time.Now()
	uptime    = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: "epidemicsim",
			Name:      "uptime_seconds",
			Help:      "Process uptime in seconds.",
		},
		func() float64 { return time.Since(startTime).Seconds() },
	)
)

func init() {
	Registry.MustRegister(RunsTotal, InfectionsTotal, RoundsPerRun, uptime)
}

// MetricsHandler exposes /metrics. Mount it with
// mux.Handle("/metrics", telemetry.MetricsHandler()).
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
