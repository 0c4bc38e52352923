package prometheus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAppMetrics(t *testing.T) (*AppMetrics, MetricsCollector) {
	t.Helper()
	c := newTestCollector(t)
	return NewAppMetrics(c), c
}

func TestNewAppMetrics_AllMetricsRegistered(t *testing.T) {
	m, _ := newTestAppMetrics(t)
	require.NotNil(t, m)

	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.HTTPRequestDuration)
	assert.NotNil(t, m.ExtractionsTotal)
	assert.NotNil(t, m.ExtractionDuration)
	assert.NotNil(t, m.EntitiesPerDocument)
	assert.NotNil(t, m.DroppedCandidatesTotal)
	assert.NotNil(t, m.PatternCompileFailures)
	assert.NotNil(t, m.JobsTotal)
	assert.NotNil(t, m.JobQueueDepth)
	assert.NotNil(t, m.CacheHitsTotal)
	assert.NotNil(t, m.EventsPublishedTotal)
	assert.NotNil(t, m.ErrorsTotal)
}

func TestRecordHTTPRequest(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordHTTPRequest(m, "POST", "/api/v1/extract", 200, 25*time.Millisecond)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_http_requests_total{method="POST",path="/api/v1/extract",status_code="200"} 1`)
	assert.Contains(t, output, "test_unit_http_request_duration_seconds_count")
}

func TestRecordCacheAccess(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordCacheAccess(m, "extraction", true)
	RecordCacheAccess(m, "extraction", true)
	RecordCacheAccess(m, "extraction", false)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_cache_hits_total{cache="extraction"} 2`)
	assert.Contains(t, output, `test_unit_cache_misses_total{cache="extraction"} 1`)
}

func TestRecordError(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordError(m, "kafka", "publish_failed")

	assert.Contains(t, scrapeMetrics(t, c),
		`test_unit_errors_total{component="kafka",error_type="publish_failed"} 1`)
}

func TestExtractorMetrics_Adapter(t *testing.T) {
	m, c := newTestAppMetrics(t)
	adapter := NewExtractorMetrics(m, "text")

	adapter.RecordExtraction(3, 12.5)
	adapter.RecordDroppedCandidate("DATE")

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_extractions_total{source="text",status="ok"} 1`)
	assert.Contains(t, output, `test_unit_dropped_candidates_total{category="DATE"} 1`)
	assert.Contains(t, output, "test_unit_entities_per_document_count")
}
