// Package metrics provides Prometheus metrics for the Acumen inference engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the inference engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Extraction metrics
	extractions        *prometheus.CounterVec
	extractionErrors   prometheus.Counter
	extractionLatency  prometheus.Histogram
	vectorCacheHits    prometheus.Counter
	vectorCacheMisses  prometheus.Counter

	// Training metrics
	trainings        *prometheus.CounterVec
	trainingErrors   *prometheus.CounterVec
	trainingLatency  *prometheus.HistogramVec
	trainingExamples *prometheus.GaugeVec

	// Serving metrics
	predictions       *prometheus.CounterVec
	predictionErrors  *prometheus.CounterVec
	predictionLatency *prometheus.HistogramVec
	activeModelAge    *prometheus.GaugeVec

	// Aggregation metrics
	aggregations      prometheus.Counter
	aggregationErrors prometheus.Counter

	// Batch metrics
	batchItems    *prometheus.CounterVec
	batchDuration prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "acumen",
		subsystem:        "inference",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.extractions = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "extractions_total",
			Help:      "Total number of feature extractions by mode",
		},
		[]string{"mode"},
	)

	m.extractionErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "extraction_errors_total",
		Help:      "Total number of failed feature extractions",
	})

	m.extractionLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "extraction_latency_milliseconds",
		Help:      "Histogram of feature extraction latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.vectorCacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "vector_cache_hits_total",
		Help:      "Total number of feature vector cache hits",
	})

	m.vectorCacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "vector_cache_misses_total",
		Help:      "Total number of feature vector cache misses",
	})

	m.trainings = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "trainings_total",
			Help:      "Total number of completed training runs by model role",
		},
		[]string{"role"},
	)

	m.trainingErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "training_errors_total",
			Help:      "Total number of failed training runs by model role",
		},
		[]string{"role"},
	)

	m.trainingLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "training_latency_milliseconds",
			Help:      "Training run duration in milliseconds by model role",
			Buckets:   m.histogramBuckets,
		},
		[]string{"role"},
	)

	m.trainingExamples = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "training_examples",
			Help:      "Number of examples used in the most recent training run by role",
		},
		[]string{"role"},
	)

	m.predictions = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "predictions_total",
			Help:      "Total number of served predictions by model role",
		},
		[]string{"role"},
	)

	m.predictionErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "prediction_errors_total",
			Help:      "Total number of failed predictions by model role",
		},
		[]string{"role"},
	)

	m.predictionLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "prediction_latency_milliseconds",
			Help:      "Prediction latency in milliseconds by model role",
			Buckets:   m.histogramBuckets,
		},
		[]string{"role"},
	)

	m.activeModelAge = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "active_model_age_seconds",
			Help:      "Age of the active model artifact in seconds by role",
		},
		[]string{"role"},
	)

	m.aggregations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "aggregations_total",
		Help:      "Total number of performance aggregations",
	})

	m.aggregationErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "aggregation_errors_total",
		Help:      "Total number of failed performance aggregations",
	})

	m.batchItems = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "batch_items_total",
			Help:      "Total number of batch items by outcome",
		},
		[]string{"status"},
	)

	m.batchDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_duration_milliseconds",
		Help:      "Batch run wall-clock duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})
}

// Registry returns the registry backing the global manager, for exposition.
func Registry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers operating on the global manager.

// RecordExtraction increments the extraction counter for a mode.
func RecordExtraction(mode string) { globalManager.extractions.WithLabelValues(mode).Inc() }

// RecordExtractionError increments the extraction error counter.
func RecordExtractionError() { globalManager.extractionErrors.Inc() }

// RecordExtractionLatency observes extraction latency in milliseconds.
func RecordExtractionLatency(ms float64) { globalManager.extractionLatency.Observe(ms) }

// RecordVectorCacheHit increments the vector cache hit counter.
func RecordVectorCacheHit() { globalManager.vectorCacheHits.Inc() }

// RecordVectorCacheMiss increments the vector cache miss counter.
func RecordVectorCacheMiss() { globalManager.vectorCacheMisses.Inc() }

// RecordTraining increments the training counter for a role.
func RecordTraining(role string) { globalManager.trainings.WithLabelValues(role).Inc() }

// RecordTrainingError increments the training error counter for a role.
func RecordTrainingError(role string) { globalManager.trainingErrors.WithLabelValues(role).Inc() }

// RecordTrainingLatency observes training latency in milliseconds for a role.
func RecordTrainingLatency(role string, ms float64) {
	globalManager.trainingLatency.WithLabelValues(role).Observe(ms)
}

// UpdateTrainingExamples sets the example count gauge for a role.
func UpdateTrainingExamples(role string, n int) {
	globalManager.trainingExamples.WithLabelValues(role).Set(float64(n))
}

// RecordPrediction increments the prediction counter for a role.
func RecordPrediction(role string) { globalManager.predictions.WithLabelValues(role).Inc() }

// RecordPredictionError increments the prediction error counter for a role.
func RecordPredictionError(role string) { globalManager.predictionErrors.WithLabelValues(role).Inc() }

// RecordPredictionLatency observes prediction latency in milliseconds for a role.
func RecordPredictionLatency(role string, ms float64) {
	globalManager.predictionLatency.WithLabelValues(role).Observe(ms)
}

// UpdateActiveModelAge sets the active artifact age gauge for a role.
func UpdateActiveModelAge(role string, seconds float64) {
	globalManager.activeModelAge.WithLabelValues(role).Set(seconds)
}

// RecordAggregation increments the aggregation counter.
func RecordAggregation() { globalManager.aggregations.Inc() }

// RecordAggregationError increments the aggregation error counter.
func RecordAggregationError() { globalManager.aggregationErrors.Inc() }

// RecordBatchItem increments the batch item counter for an outcome.
func RecordBatchItem(status string) { globalManager.batchItems.WithLabelValues(status).Inc() }

// RecordBatchDuration observes batch duration in milliseconds.
func RecordBatchDuration(ms float64) { globalManager.batchDuration.Observe(ms) }
