// Package metrics provides Prometheus metrics for the rapidrun roster manager.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Store operation result labels.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Manager manages all Prometheus metrics for the roster.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Store
	recordsTotal    prometheus.Gauge
	storeOperations *prometheus.CounterVec

	// Race simulation
	selectionsTotal  prometheus.Counter
	raceDuration     prometheus.Histogram
	assignmentErrors prometheus.Counter

	// Persistence
	skippedLines       prometheus.Counter
	persistenceLatency *prometheus.HistogramVec
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
		namespace:        "rapidrun",
		subsystem:        "roster",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	return m.metricPrefix + n
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.recordsTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("records_total"),
		Help:        "Number of records currently held in the store",
		ConstLabels: labels,
	})

	m.storeOperations = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("store_operations_total"),
			Help:        "Store mutations by operation and result",
			ConstLabels: labels,
		},
		[]string{"operation", "result"},
	)

	m.selectionsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("selections_total"),
		Help:        "Number of final-round selection draws",
		ConstLabels: labels,
	})

	// Durations live in [0, 90]; one bucket per visualized marker.
	m.raceDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("race_duration_seconds"),
		Help:        "Simulated finish durations assigned to representatives",
		Buckets:     prometheus.LinearBuckets(10, 10, 9),
		ConstLabels: labels,
	})

	m.assignmentErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("assignment_errors_total"),
		Help:        "Representatives that could not be assigned a duration",
		ConstLabels: labels,
	})

	m.skippedLines = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("skipped_lines_total"),
		Help:        "Malformed data file lines skipped on load",
		ConstLabels: labels,
	})

	m.persistenceLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("persistence_latency_milliseconds"),
			Help:        "Data file load/save latency in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: labels,
		},
		[]string{"operation"},
	)
}

// SetRecordsTotal sets the number of records in the store.
func (m *Manager) SetRecordsTotal(count int) {
	if m.enabled {
		m.recordsTotal.Set(float64(count))
	}
}

// RecordStoreOperation counts a store mutation.
func (m *Manager) RecordStoreOperation(operation, result string) {
	if m.enabled {
		m.storeOperations.WithLabelValues(operation, result).Inc()
	}
}

// RecordSelection counts a selection draw.
func (m *Manager) RecordSelection() {
	if m.enabled {
		m.selectionsTotal.Inc()
	}
}

// RecordDuration observes an assigned duration in seconds.
func (m *Manager) RecordDuration(seconds int) {
	if m.enabled {
		m.raceDuration.Observe(float64(seconds))
	}
}

// RecordAssignmentError counts a failed duration assignment.
func (m *Manager) RecordAssignmentError() {
	if m.enabled {
		m.assignmentErrors.Inc()
	}
}

// RecordSkippedLines adds n skipped data file lines.
func (m *Manager) RecordSkippedLines(n int) {
	if m.enabled && n > 0 {
		m.skippedLines.Add(float64(n))
	}
}

// RecordPersistenceLatency observes a load or save latency.
func (m *Manager) RecordPersistenceLatency(operation string, latencyMs float64) {
	if m.enabled {
		m.persistenceLatency.WithLabelValues(operation).Observe(latencyMs)
	}
}

// Package-level helpers delegate to the global manager.

// UpdateRecordsTotal sets the number of records in the store.
func UpdateRecordsTotal(count int) { globalManager.SetRecordsTotal(count) }

// RecordStoreOperation counts a store mutation.
func RecordStoreOperation(operation, result string) {
	globalManager.RecordStoreOperation(operation, result)
}

// RecordSelection counts a selection draw.
func RecordSelection() { globalManager.RecordSelection() }

// RecordDuration observes an assigned duration in seconds.
func RecordDuration(seconds int) { globalManager.RecordDuration(seconds) }

// RecordAssignmentError counts a failed duration assignment.
func RecordAssignmentError() { globalManager.RecordAssignmentError() }

// RecordSkippedLines adds n skipped data file lines.
func RecordSkippedLines(n int) { globalManager.RecordSkippedLines(n) }

// RecordPersistenceLatency observes a load or save latency.
func RecordPersistenceLatency(operation string, latencyMs float64) {
	globalManager.RecordPersistenceLatency(operation, latencyMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile writes the gathered metrics in the text exposition format
// for node_exporter's textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if g == nil {
		g = customRegistry
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteTextfile, err)
	}
	return nil
}
