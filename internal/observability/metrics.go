package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "treehealth"

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	// View metrics.
	ViewRequests *prometheus.CounterVec   // labels: view={options,bar,map,summary,...}, outcome={success,error}
	ViewDuration *prometheus.HistogramVec // labels: view
	FilteredRows prometheus.Histogram
	DatasetRows  prometheus.Gauge

	// Basemap metrics.
	BasemapCache      *prometheus.CounterVec // labels: result={hit,miss}
	MapboxAPIDuration prometheus.Histogram
	MapboxRequests    *prometheus.CounterVec // labels: outcome={success,error}
	BasemapEnabled    prometheus.Gauge
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates all dashboard metrics and registers them with reg.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(
		m.ViewRequests,
		m.ViewDuration,
		m.FilteredRows,
		m.DatasetRows,
		m.BasemapCache,
		m.MapboxAPIDuration,
		m.MapboxRequests,
		m.BasemapEnabled,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ViewRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_requests_total",
			Help:      "View computations by view and outcome.",
		}, []string{"view", "outcome"}),
		ViewDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "view_duration_seconds",
			Help:      "Time spent filtering and rendering one view.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"view"}),
		FilteredRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "filtered_rows",
			Help:      "Rows left after applying a selection.",
			Buckets:   prometheus.ExponentialBuckets(1, 10, 7),
		}),
		DatasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Rows in the loaded tree table.",
		}),
		BasemapCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "basemap_cache_total",
			Help:      "Static basemap cache lookups by result.",
		}, []string{"result"}),
		MapboxAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "mapbox_api_duration_seconds",
			Help:      "Mapbox Static Images API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		MapboxRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mapbox_requests_total",
			Help:      "Mapbox Static Images API requests by outcome.",
		}, []string{"outcome"}),
		BasemapEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "basemap_enabled",
			Help:      "1 when the static basemap composite is enabled, 0 otherwise.",
		}),
	}
}
