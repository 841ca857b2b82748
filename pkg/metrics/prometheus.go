// Package metrics provides Prometheus metrics for the tzolkin calculation engine.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics of the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Calculation metrics
	calculations       *prometheus.CounterVec
	calculationErrors  *prometheus.CounterVec
	calculationLatency *prometheus.HistogramVec

	// Resolver metrics
	resolverPath *prometheus.CounterVec
	lookupMisses *prometheus.CounterVec

	// Equivalent KIN quality
	equivalentWarnings prometheus.Counter

	// Table metrics
	tableRows        *prometheus.GaugeVec
	matrixDuplicates *prometheus.GaugeVec
	tableLoadLatency prometheus.Histogram

	// Audit metrics
	auditChecked    prometheus.Counter
	auditMismatches *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "tzolkin",
		subsystem:        "engine",
		histogramBuckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 50},
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
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one block per metric
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.calculations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("calculations_total"),
		Help:        "Total number of calculations by operation",
		ConstLabels: labels,
	}, []string{"operation"})

	m.calculationErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("calculation_errors_total"),
		Help:        "Total number of failed calculations by operation",
		ConstLabels: labels,
	}, []string{"operation"})

	m.calculationLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("calculation_latency_milliseconds"),
		Help:        "Histogram of calculation latency in milliseconds by operation",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"operation"})

	m.resolverPath = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("resolver_path_total"),
		Help:        "KIN resolutions by path (table or arithmetic)",
		ConstLabels: labels,
	}, []string{"path"})

	m.lookupMisses = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("lookup_misses_total"),
		Help:        "Table lookups that found no row, by table",
		ConstLabels: labels,
	}, []string{"table"})

	m.equivalentWarnings = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("equivalent_warnings_total"),
		Help:        "Missing lookups reported by equivalent KIN calculations",
		ConstLabels: labels,
	})

	m.tableRows = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("table_rows"),
		Help:        "Rows loaded per calendar table",
		ConstLabels: labels,
	}, []string{"table"})

	m.matrixDuplicates = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("matrix_duplicate_values"),
		Help:        "Values mapped to more than one position, per grid",
		ConstLabels: labels,
	}, []string{"grid"})

	m.tableLoadLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("table_load_latency_milliseconds"),
		Help:        "Time spent loading calendar tables in milliseconds",
		Buckets:     []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
		ConstLabels: labels,
	})

	m.auditChecked = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("audit_checks_total"),
		Help:        "Checks performed by data audits",
		ConstLabels: labels,
	})

	m.auditMismatches = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("audit_mismatches_total"),
		Help:        "Audit checks that failed, by check",
		ConstLabels: labels,
	}, []string{"check"})
}

// RecordCalculation counts one calculation and its latency.
func (m *Manager) RecordCalculation(op string, latencyMs float64, err error) {
	if !m.enabled {
		return
	}
	m.calculations.WithLabelValues(op).Inc()
	m.calculationLatency.WithLabelValues(op).Observe(latencyMs)
	if err != nil {
		m.calculationErrors.WithLabelValues(op).Inc()
	}
}

// RecordResolverPath counts a resolution served by path.
func (m *Manager) RecordResolverPath(path string) {
	if !m.enabled {
		return
	}
	m.resolverPath.WithLabelValues(path).Inc()
}

// RecordLookupMiss counts a lookup that found no row in table.
func (m *Manager) RecordLookupMiss(table string) {
	if !m.enabled {
		return
	}
	m.lookupMisses.WithLabelValues(table).Inc()
}

// RecordEquivalentWarnings adds n equivalent KIN warnings.
func (m *Manager) RecordEquivalentWarnings(n int) {
	if !m.enabled || n <= 0 {
		return
	}
	m.equivalentWarnings.Add(float64(n))
}

// UpdateTableRows sets the row gauge of every table in counts.
func (m *Manager) UpdateTableRows(counts map[string]int) {
	if !m.enabled {
		return
	}
	for table, n := range counts {
		m.tableRows.WithLabelValues(table).Set(float64(n))
	}
}

// UpdateMatrixDuplicates sets the duplicate value gauge of a grid.
func (m *Manager) UpdateMatrixDuplicates(grid string, n int) {
	if !m.enabled {
		return
	}
	m.matrixDuplicates.WithLabelValues(grid).Set(float64(n))
}

// RecordTableLoadLatency records how long a table load took.
func (m *Manager) RecordTableLoadLatency(latencyMs float64) {
	if !m.enabled {
		return
	}
	m.tableLoadLatency.Observe(latencyMs)
}

// RecordAudit counts audit checks and the mismatches of one check kind.
func (m *Manager) RecordAudit(check string, checked, mismatches int) {
	if !m.enabled {
		return
	}
	m.auditChecked.Add(float64(checked))
	m.auditMismatches.WithLabelValues(check).Add(float64(mismatches))
}

// RecordCalculation records on the global manager.
func RecordCalculation(op string, latencyMs float64, err error) {
	globalManager.RecordCalculation(op, latencyMs, err)
}

// RecordResolverPath records on the global manager.
func RecordResolverPath(path string) { globalManager.RecordResolverPath(path) }

// RecordLookupMiss records on the global manager.
func RecordLookupMiss(table string) { globalManager.RecordLookupMiss(table) }

// RecordEquivalentWarnings records on the global manager.
func RecordEquivalentWarnings(n int) { globalManager.RecordEquivalentWarnings(n) }

// UpdateTableRows records on the global manager.
func UpdateTableRows(counts map[string]int) { globalManager.UpdateTableRows(counts) }

// UpdateMatrixDuplicates records on the global manager.
func UpdateMatrixDuplicates(grid string, n int) { globalManager.UpdateMatrixDuplicates(grid, n) }

// RecordTableLoadLatency records on the global manager.
func RecordTableLoadLatency(latencyMs float64) { globalManager.RecordTableLoadLatency(latencyMs) }

// RecordAudit records on the global manager.
func RecordAudit(check string, checked, mismatches int) {
	globalManager.RecordAudit(check, checked, mismatches)
}

// Global returns the process-wide manager.
func Global() *Manager { return globalManager }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile writes the metrics of g in the text exposition format to
// path, for the node exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if g == nil {
		g = customRegistry
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteTextfile, err)
	}
	return nil
}
