// Package metrics provides Prometheus metrics for the drawscope service.
package metrics

import (
	"context"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
	bytesPerMB             = 1 << 20
	nanosPerMilli          = 1e6
)

// matchBuckets covers analyses from a handful of matches to whole-dataset scans.
var matchBuckets = prometheus.ExponentialBuckets(1, 4, 8)

// Manager manages all Prometheus metrics for the drawscope service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Analysis Metrics - what the service is for
	analyses        *prometheus.CounterVec
	analysisLatency prometheus.Histogram
	analysisMatches prometheus.Histogram
	predictions     *prometheus.CounterVec

	// Dataset Metrics - the loaded record store
	datasetRecords    prometheus.Gauge
	datasetSkipped    prometheus.Gauge
	datasetDuplicates prometheus.Gauge
	datasetLatestUnix prometheus.Gauge
	loadDuration      prometheus.Histogram
	loadErrors        prometheus.Counter
	loads             *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "drawscope",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string { return m.metricPrefix + n }

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.customLabels, Buckets: buckets,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.analyses = auto.NewCounterVec(m.counterOpts("analyses_total", "Total number of analyses by match mode and outcome"), []string{"mode", "outcome"})
	m.analysisLatency = auto.NewHistogram(m.histogramOpts("analysis_latency_milliseconds", "Histogram of analysis latency in milliseconds", m.histogramBuckets))
	m.analysisMatches = auto.NewHistogram(m.histogramOpts("analysis_matches", "Number of occurrences matched per analysis", matchBuckets))
	m.predictions = auto.NewCounterVec(m.counterOpts("group_predictions_total", "Group predictions by strategy (sequential, frequency, fallback)"), []string{"strategy"})

	m.datasetRecords = auto.NewGauge(m.gaugeOpts("dataset_records", "Number of draw days in the loaded store"))
	m.datasetSkipped = auto.NewGauge(m.gaugeOpts("dataset_skipped_records", "Entries skipped at load for an unparseable date"))
	m.datasetDuplicates = auto.NewGauge(m.gaugeOpts("dataset_duplicate_records", "Entries sharing a date with an earlier entry"))
	m.datasetLatestUnix = auto.NewGauge(m.gaugeOpts("dataset_latest_draw_unix", "Unix time of the most recent draw date"))
	m.loadDuration = auto.NewHistogram(m.histogramOpts("load_duration_milliseconds", "Time to load and index the dataset in milliseconds", m.histogramBuckets))
	m.loadErrors = auto.NewCounter(m.counterOpts("load_errors_total", "Total number of failed dataset loads"))
	m.loads = auto.NewCounterVec(m.counterOpts("loads_total", "Total number of dataset loads by source kind"), []string{"source"})

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets), []string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total", "Total errors by component and error type"), []string{"component", "error_type"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total", "Total errors by endpoint, method and error type"), []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutines", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_milliseconds", "Most recent GC pause in milliseconds", m.histogramBuckets))
}

// Enabled reports whether recording is on.
func (m *Manager) Enabled() bool { return m.enabled }

// RefreshInterval returns how often system gauges are refreshed.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

// Analysis Metrics Functions.

// RecordAnalysis counts one analysis. outcome is "ok" or an error kind.
func RecordAnalysis(mode, outcome string) {
	if !globalManager.enabled {
		return
	}
	globalManager.analyses.WithLabelValues(mode, outcome).Inc()
}

// RecordAnalysisLatency records analysis latency in milliseconds.
func RecordAnalysisLatency(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.analysisLatency.Observe(latencyMs)
}

// RecordAnalysisMatches records how many occurrences an analysis matched.
func RecordAnalysisMatches(n int) {
	if !globalManager.enabled {
		return
	}
	globalManager.analysisMatches.Observe(float64(n))
}

// RecordPrediction counts one group prediction by strategy.
func RecordPrediction(strategy string) {
	if !globalManager.enabled {
		return
	}
	globalManager.predictions.WithLabelValues(strategy).Inc()
}

// Dataset Metrics Functions.

// UpdateDataset publishes the shape of a freshly loaded store.
func UpdateDataset(records, skipped, duplicates int, latest time.Time) {
	if !globalManager.enabled {
		return
	}
	globalManager.datasetRecords.Set(float64(records))
	globalManager.datasetSkipped.Set(float64(skipped))
	globalManager.datasetDuplicates.Set(float64(duplicates))
	if !latest.IsZero() {
		globalManager.datasetLatestUnix.Set(float64(latest.Unix()))
	}
}

// RecordLoad records a dataset load of the given source kind.
func RecordLoad(source string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.loads.WithLabelValues(source).Inc()
	globalManager.loadDuration.Observe(latencyMs)
}

// RecordLoadError increments the failed load counter.
func RecordLoadError() {
	if !globalManager.enabled {
		return
	}
	globalManager.loadErrors.Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the heap allocation in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// CollectSystemMetrics samples memory, goroutine and GC statistics once.
func CollectSystemMetrics() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	UpdateSystemMemoryUsage(ms.Alloc)
	UpdateSystemGoroutineCount(runtime.NumGoroutine())
	if ms.NumGC > 0 {
		pause := ms.PauseNs[(ms.NumGC+255)%256]
		RecordSystemGCPauseTime(float64(pause) / nanosPerMilli)
	}
}

// StartSystemCollector samples system metrics every refresh interval until
// ctx is done.
func StartSystemCollector(ctx context.Context) {
	ticker := time.NewTicker(globalManager.refreshInterval)
	go func() {
		defer ticker.Stop()
		CollectSystemMetrics()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				CollectSystemMetrics()
			}
		}
	}()
}

// MemoryMB converts bytes to mebibytes for log lines.
func MemoryMB(bytes uint64) float64 { return float64(bytes) / bytesPerMB }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
