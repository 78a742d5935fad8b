package salesbase

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics implements the Metrics interface using Prometheus
type PrometheusMetrics struct {
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
	registry   *prometheus.Registry
}

// NewPrometheusMetrics creates a new Prometheus metrics instance
// If registry is nil, uses the default Prometheus registry
func NewPrometheusMetrics(registry *prometheus.Registry) *PrometheusMetrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer.(*prometheus.Registry)
	}

	pm := &PrometheusMetrics{
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
		registry:   registry,
	}

	pm.registerDefaultMetrics()
	return pm
}

// registerDefaultMetrics registers all standard salesbase metrics
func (p *PrometheusMetrics) registerDefaultMetrics() {
	// Store operation counts
	storeOps := map[string][2]string{
		MetricInsertSuccess: {"insert_success_total", "Total number of successful document inserts"},
		MetricInsertError:   {"insert_errors_total", "Total number of failed document inserts"},
		MetricFindSuccess:   {"find_success_total", "Total number of successful document reads"},
		MetricFindError:     {"find_errors_total", "Total number of failed document reads"},
		MetricUpdateSuccess: {"update_success_total", "Total number of successful document updates"},
		MetricUpdateError:   {"update_errors_total", "Total number of failed document updates"},
		MetricDeleteSuccess: {"delete_success_total", "Total number of successful document deletes"},
		MetricDeleteError:   {"delete_errors_total", "Total number of failed document deletes"},
	}
	for metric, nameHelp := range storeOps {
		p.counters[metric] = promauto.With(p.registry).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "salesbase",
				Subsystem: "store",
				Name:      nameHelp[0],
				Help:      nameHelp[1],
			},
			[]string{},
		)
	}

	p.counters[MetricIngestRows] = promauto.With(p.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salesbase",
			Subsystem: "ingest",
			Name:      "rows_total",
			Help:      "Total number of rows ingested",
		},
		[]string{},
	)

	p.counters[MetricIngestErrors] = promauto.With(p.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salesbase",
			Subsystem: "ingest",
			Name:      "errors_total",
			Help:      "Total number of aborted ingestion batches",
		},
		[]string{},
	)

	p.counters[MetricPipelineRuns] = promauto.With(p.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salesbase",
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline executions",
		},
		[]string{},
	)

	p.counters[MetricPipelineErrors] = promauto.With(p.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salesbase",
			Subsystem: "pipeline",
			Name:      "errors_total",
			Help:      "Total number of failed pipeline executions",
		},
		[]string{},
	)

	// Timing histograms
	storeDurations := map[string][2]string{
		MetricInsertDuration: {"insert_duration_seconds", "Document insert duration in seconds"},
		MetricFindDuration:   {"find_duration_seconds", "Document read duration in seconds"},
		MetricUpdateDuration: {"update_duration_seconds", "Document update duration in seconds"},
		MetricDeleteDuration: {"delete_duration_seconds", "Document delete duration in seconds"},
	}
	for metric, nameHelp := range storeDurations {
		p.histograms[metric] = promauto.With(p.registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "salesbase",
				Subsystem: "store",
				Name:      nameHelp[0],
				Help:      nameHelp[1],
				Buckets:   prometheus.DefBuckets,
			},
			[]string{},
		)
	}

	p.histograms[MetricPipelineDuration] = promauto.With(p.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "salesbase",
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Pipeline execution duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{},
	)

	p.histograms[MetricIngestDuration] = promauto.With(p.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "salesbase",
			Subsystem: "ingest",
			Name:      "duration_seconds",
			Help:      "CSV ingestion duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{},
	)

	// Result counts
	p.histograms[MetricPipelineResults] = promauto.With(p.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "salesbase",
			Subsystem: "pipeline",
			Name:      "results",
			Help:      "Number of result documents produced by pipeline runs",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000, 10000},
		},
		[]string{},
	)
}

// Increment increments a Prometheus counter
func (p *PrometheusMetrics) Increment(name string, tags ...string) {
	counter, ok := p.counters[name]
	if !ok {
		// Create dynamic counter if it doesn't exist
		counter = promauto.With(p.registry).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "salesbase",
				Name:      name,
				Help:      "Dynamic counter: " + name,
			},
			p.extractLabels(tags),
		)
		p.counters[name] = counter
	}

	labels := p.extractLabelValues(tags)
	counter.With(labels).Inc()
}

// Gauge sets a Prometheus gauge value
func (p *PrometheusMetrics) Gauge(name string, value float64, tags ...string) {
	gauge, ok := p.gauges[name]
	if !ok {
		// Create dynamic gauge if it doesn't exist
		gauge = promauto.With(p.registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "salesbase",
				Name:      name,
				Help:      "Dynamic gauge: " + name,
			},
			p.extractLabels(tags),
		)
		p.gauges[name] = gauge
	}

	labels := p.extractLabelValues(tags)
	gauge.With(labels).Set(value)
}

// Histogram records a value in a Prometheus histogram
func (p *PrometheusMetrics) Histogram(name string, value float64, tags ...string) {
	histogram, ok := p.histograms[name]
	if !ok {
		// Create dynamic histogram if it doesn't exist
		histogram = promauto.With(p.registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "salesbase",
				Name:      name,
				Help:      "Dynamic histogram: " + name,
				Buckets:   prometheus.DefBuckets,
			},
			p.extractLabels(tags),
		)
		p.histograms[name] = histogram
	}

	labels := p.extractLabelValues(tags)
	histogram.With(labels).Observe(value)
}

// Timing records a duration in a Prometheus histogram
func (p *PrometheusMetrics) Timing(name string, duration time.Duration, tags ...string) {
	p.Histogram(name, duration.Seconds(), tags...)
}

// extractLabels extracts label names from tags (every even index)
func (p *PrometheusMetrics) extractLabels(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}

	labels := make([]string, 0, len(tags)/2)
	for i := 0; i < len(tags); i += 2 {
		labels = append(labels, tags[i])
	}
	return labels
}

// extractLabelValues creates a label map from tags (key-value pairs)
func (p *PrometheusMetrics) extractLabelValues(tags []string) prometheus.Labels {
	if len(tags) == 0 {
		return prometheus.Labels{}
	}

	labels := make(prometheus.Labels)
	for i := 0; i < len(tags)-1; i += 2 {
		labels[tags[i]] = tags[i+1]
	}
	return labels
}

// GetRegistry returns the underlying Prometheus registry
func (p *PrometheusMetrics) GetRegistry() *prometheus.Registry {
	return p.registry
}
