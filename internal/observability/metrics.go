package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the job.
type Metrics struct {
	RunsTotal        prometheus.Counter
	RunDuration      prometheus.Histogram
	LastRunTimestamp prometheus.Gauge
	RunInProgress    prometheus.Gauge

	// Fetcher metrics.
	FetchRequests *prometheus.CounterVec // labels: outcome={success,error}
	FetchDuration prometheus.Histogram

	// Transform metrics.
	SkippedEntries prometheus.Counter

	// Sink metrics.
	StoreWrites *prometheus.CounterVec // labels: sink={mongo,kafka}, outcome={success,error}
}

// NewMetrics creates and registers all job metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RunsTotal,
		m.RunDuration,
		m.LastRunTimestamp,
		m.RunInProgress,
		m.FetchRequests,
		m.FetchDuration,
		m.SkippedEntries,
		m.StoreWrites,
	)
	return m
}

// NewMetricsForTesting creates Metrics that are not registered anywhere, so
// multiple tests can each build their own without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "upper_winds",
			Name:      "runs_total",
			Help:      "Total completed passes over the configured airport codes.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "upper_winds",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete pass over the configured airport codes.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		}),
		LastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "upper_winds",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last pass finished.",
		}),
		RunInProgress: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "upper_winds",
			Name:      "run_in_progress",
			Help:      "1 while a pass is running, 0 otherwise.",
		}),
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "upper_winds",
			Name:      "fetch_requests_total",
			Help:      "NAV CANADA forecast requests by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "upper_winds",
			Name:      "fetch_duration_seconds",
			Help:      "NAV CANADA forecast request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SkippedEntries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "upper_winds",
			Name:      "skipped_entries_total",
			Help:      "Forecast entries dropped as malformed during transform.",
		}),
		StoreWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "upper_winds",
			Name:      "store_writes_total",
			Help:      "Record writes by sink and outcome.",
		}, []string{"sink", "outcome"}),
	}
}
