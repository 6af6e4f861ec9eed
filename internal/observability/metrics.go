package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "skywatch"

// Metrics holds the Prometheus counters, histograms, and gauges for the fusion pipeline.
type Metrics struct {
	MessagesConsumed prometheus.Counter
	EventsExtracted  prometheus.Counter
	EventsPublished  prometheus.Counter
	PublishErrors    prometheus.Counter
	PipelineRunning  prometheus.Gauge

	// Refresh cycle metrics.
	SourceErrors    *prometheus.CounterVec // labels: source
	BatchSize       prometheus.Histogram
	RefreshDuration prometheus.Histogram
	CanonicalEvents prometheus.Gauge
	AlarmRegions    prometheus.Gauge

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec   // labels: provider, outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec   // labels: result={hit,miss}
	GeocodeAPIDuration *prometheus.HistogramVec // labels: provider
	GeocodeEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_consumed_total",
			Help:      "Total raw messages fed into the fusion core.",
		}),
		EventsExtracted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_extracted_total",
			Help:      "Total candidate events before deduplication.",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Total canonical events written to the sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Total failed attempts to publish canonical events.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the refresh loop is active, 0 when shut down.",
		}),
		SourceErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_errors_total",
			Help:      "Failed source fetches by source.",
		}, []string{"source"}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of messages per source batch.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a complete fetch-fuse-publish cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 20},
		}),
		CanonicalEvents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "canonical_events",
			Help:      "Events in the most recent snapshot.",
		}),
		AlarmRegions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "alarm_regions",
			Help:      "Regions currently under alarm, forced ones included.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Geocoding requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      "Geocoding API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"provider"}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "geocode_enabled",
			Help:      "1 when the external geocoder fallback is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.MessagesConsumed,
		m.EventsExtracted,
		m.EventsPublished,
		m.PublishErrors,
		m.PipelineRunning,
		m.SourceErrors,
		m.BatchSize,
		m.RefreshDuration,
		m.CanonicalEvents,
		m.AlarmRegions,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		MessagesConsumed:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "messages_consumed_total"}),
		EventsExtracted:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "events_extracted_total"}),
		EventsPublished:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "events_published_total"}),
		PublishErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "publish_errors_total"}),
		PipelineRunning:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "pipeline_running"}),
		SourceErrors:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "source_errors_total"}, []string{"source"}),
		BatchSize:          prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "batch_size"}),
		RefreshDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "refresh_duration_seconds"}),
		CanonicalEvents:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "canonical_events"}),
		AlarmRegions:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "alarm_regions"}),
		GeocodeRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "geocode_requests_total"}, []string{"provider", "outcome"}),
		GeocodeCache:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "geocode_cache_total"}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: "geocode_api_duration_seconds"}, []string{"provider"}),
		GeocodeEnabled:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "geocode_enabled"}),
	}
}
