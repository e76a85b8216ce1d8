package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "focos_report"

// Load error kinds used as the "kind" label of LoadErrors.
const (
	ErrKindNotFound = "not_found"
	ErrKindLoad     = "load"
	ErrKindParse    = "parse"
	ErrKindRender   = "render"
	ErrKindPublish  = "publish"
)

// Metrics holds the Prometheus counters, histograms, and gauges for report runs.
type Metrics struct {
	RecordsLoaded     prometheus.Counter
	LoadErrors        *prometheus.CounterVec // labels: kind
	ChartsRendered    prometheus.Counter
	DashboardsWritten prometheus.Counter

	LoadDuration   prometheus.Histogram
	RenderDuration prometheus.Histogram

	LastSuccess prometheus.Gauge
}

func newMetrics() *Metrics {
	return &Metrics{
		RecordsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_loaded_total",
			Help:      "Total detections loaded from input files.",
		}),
		LoadErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "load_errors_total",
			Help:      "Failed report runs by failure kind.",
		}, []string{"kind"}),
		ChartsRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "charts_rendered_total",
			Help:      "Total chart panels rendered.",
		}),
		DashboardsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dashboards_written_total",
			Help:      "Total dashboards published.",
		}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Time to read and parse an input file.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time to build and publish a dashboard.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last published dashboard.",
		}),
	}
}

// NewMetrics creates and registers all report metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RecordsLoaded,
		m.LoadErrors,
		m.ChartsRendered,
		m.DashboardsWritten,
		m.LoadDuration,
		m.RenderDuration,
		m.LastSuccess,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
