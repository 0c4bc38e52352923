package prometheus

import (
	"fmt"
	"time"
)

// AppMetrics holds all service metrics.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Extraction engine
	ExtractionsTotal       CounterVec
	ExtractionDuration     HistogramVec
	EntitiesPerDocument    HistogramVec
	EntitiesTotal          CounterVec
	DroppedCandidatesTotal CounterVec
	PatternCompileFailures CounterVec

	// Batch jobs
	JobsTotal     CounterVec
	JobDuration   HistogramVec
	JobQueueDepth GaugeVec
	ActiveWorkers GaugeVec
	JobDocsTotal  CounterVec

	// Infrastructure
	CacheHitsTotal        CounterVec
	CacheMissesTotal      CounterVec
	DocumentFetchDuration HistogramVec
	EventsPublishedTotal  CounterVec

	// System health
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

// Default buckets
var (
	DefaultHTTPDurationBuckets    = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultExtractDurationBuckets = []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10}
	DefaultJobDurationBuckets     = []float64{.1, .5, 1, 5, 10, 30, 60, 300, 600}
	DefaultEntityCountBuckets     = []float64{0, 1, 2, 5, 10, 25, 50, 100, 500}
)

// NewAppMetrics registers all service metrics on collector and returns the
// populated AppMetrics struct.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	// HTTP
	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method")

	// Extraction
	m.ExtractionsTotal = collector.RegisterCounter("extractions_total", "Fact extraction calls", "source", "status")
	m.ExtractionDuration = collector.RegisterHistogram("extraction_duration_seconds", "Fact extraction duration", DefaultExtractDurationBuckets, "source")
	m.EntitiesPerDocument = collector.RegisterHistogram("entities_per_document", "Entities found per document", DefaultEntityCountBuckets, "source")
	m.EntitiesTotal = collector.RegisterCounter("entities_total", "Entities found", "category", "kind")
	m.DroppedCandidatesTotal = collector.RegisterCounter("dropped_candidates_total", "Matched spans dropped at parse time", "category")
	m.PatternCompileFailures = collector.RegisterCounter("pattern_compile_failures_total", "Patterns excluded at table build", "pattern")

	// Jobs
	m.JobsTotal = collector.RegisterCounter("jobs_total", "Batch extraction jobs", "status")
	m.JobDuration = collector.RegisterHistogram("job_duration_seconds", "Batch job duration", DefaultJobDurationBuckets)
	m.JobQueueDepth = collector.RegisterGauge("job_queue_depth", "Queued batch documents")
	m.ActiveWorkers = collector.RegisterGauge("active_workers", "Active batch workers")
	m.JobDocsTotal = collector.RegisterCounter("job_documents_total", "Documents processed by batch jobs", "status")

	// Infrastructure
	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.DocumentFetchDuration = collector.RegisterHistogram("document_fetch_duration_seconds", "Object storage fetch duration", DefaultHTTPDurationBuckets, "bucket")
	m.EventsPublishedTotal = collector.RegisterCounter("events_published_total", "Fact events published", "topic", "status")

	// System health
	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "error_type")

	return m
}

// Helpers

func RecordHTTPRequest(metrics *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	status := fmt.Sprintf("%d", statusCode)
	metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func RecordCacheAccess(metrics *AppMetrics, cache string, hit bool) {
	if hit {
		metrics.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

func RecordError(metrics *AppMetrics, component, errorType string) {
	metrics.ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// ExtractorMetrics adapts AppMetrics to the extraction engine's local metrics
// interface, keeping the engine free of any Prometheus dependency.
type ExtractorMetrics struct {
	app    *AppMetrics
	source string
}

// NewExtractorMetrics wraps app for extraction calls tagged with source
// ("text", "document", "batch").
func NewExtractorMetrics(app *AppMetrics, source string) *ExtractorMetrics {
	return &ExtractorMetrics{app: app, source: source}
}

func (e *ExtractorMetrics) RecordExtraction(entityCount int, durationMs float64) {
	e.app.ExtractionsTotal.WithLabelValues(e.source, "ok").Inc()
	e.app.ExtractionDuration.WithLabelValues(e.source).Observe(durationMs / 1000)
	e.app.EntitiesPerDocument.WithLabelValues(e.source).Observe(float64(entityCount))
}

func (e *ExtractorMetrics) RecordDroppedCandidate(category string) {
	e.app.DroppedCandidatesTotal.WithLabelValues(category).Inc()
}
