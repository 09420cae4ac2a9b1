package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// update pipeline.
type Metrics struct {
	RunsTotal   prometheus.Counter
	RunDuration prometheus.Histogram

	StationsUpdated prometheus.Counter
	StationErrors   prometheus.Counter
	SnapshotRows    prometheus.Histogram

	ForecastAvailable      prometheus.Gauge
	BulletinDecodeFailures prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RunsTotal,
		m.RunDuration,
		m.StationsUpdated,
		m.StationErrors,
		m.SnapshotRows,
		m.ForecastAvailable,
		m.BulletinDecodeFailures,
	)
	return m
}

// NewMetricsForTesting creates Metrics without touching the default registry,
// avoiding "already registered" panics across tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mareas",
			Name:      "runs_total",
			Help:      "Total update runs executed.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mareas",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete update run across all stations.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		StationsUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mareas",
			Name:      "stations_updated_total",
			Help:      "Stations whose snapshot was refreshed successfully.",
		}),
		StationErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mareas",
			Name:      "station_errors_total",
			Help:      "Per-station processing failures (the run continues).",
		}),
		SnapshotRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mareas",
			Name:      "snapshot_rows",
			Help:      "Merged rows per persisted station snapshot.",
			Buckets:   []float64{10, 25, 50, 75, 100, 150, 200},
		}),
		ForecastAvailable: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mareas",
			Name:      "forecast_available",
			Help:      "1 when the last run parsed at least one forecast observation.",
		}),
		BulletinDecodeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mareas",
			Name:      "bulletin_decode_failures_total",
			Help:      "Runs whose bulletin could not be fetched or decoded.",
		}),
	}
}
