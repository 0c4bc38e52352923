package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/turtacn/DocFacts/internal/application/docfacts"
	"github.com/turtacn/DocFacts/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DocFacts/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/DocFacts/internal/interfaces/http/handlers"
	"github.com/turtacn/DocFacts/internal/interfaces/http/middleware"
	commontypes "github.com/turtacn/DocFacts/pkg/types/common"
)

type stubService struct{}

func (stubService) ExtractText(ctx context.Context, req *docfacts.ExtractTextRequest) (*docfacts.ExtractResponse, error) {
	return &docfacts.ExtractResponse{RequestID: "req-1", EntityCount: 2}, nil
}

func (stubService) ExtractDocument(ctx context.Context, req *docfacts.ExtractDocumentRequest) (*docfacts.ExtractResponse, error) {
	return &docfacts.ExtractResponse{RequestID: "req-1", DocumentID: req.ObjectKey}, nil
}

func (stubService) BatchExtract(ctx context.Context, req *docfacts.BatchExtractRequest) (*docfacts.Job, error) {
	return &docfacts.Job{JobID: "job-1", Status: docfacts.JobStatusPending}, nil
}

func (stubService) GetJob(ctx context.Context, jobID string) (*docfacts.Job, error) {
	return &docfacts.Job{JobID: jobID, Status: docfacts.JobStatusCompleted}, nil
}

func (stubService) ListJobs(ctx context.Context, page commontypes.Pagination) (*docfacts.JobPage, error) {
	return &docfacts.JobPage{Items: []*docfacts.Job{}, Pagination: page}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "docfacts_router_test"}, nil)
	if err != nil {
		t.Fatalf("NewMetricsCollector: %v", err)
	}
	svc := stubService{}
	return NewRouter(RouterConfig{
		ExtractHandler:   handlers.NewExtractHandler(svc, nil),
		JobsHandler:      handlers.NewJobsHandler(svc, nil),
		HealthHandler:    handlers.NewHealthHandler("test"),
		Logger:           logging.NewNopLogger(),
		LoggingConfig:    middleware.DefaultLoggingConfig(),
		AppMetrics:       prometheus.NewAppMetrics(collector),
		MetricsCollector: collector,
	})
}

func TestRouter_Routes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"extract text", "POST", "/api/v1/extract", `{"text":"Pay $500"}`, http.StatusOK},
		{"extract document", "POST", "/api/v1/documents/extract", `{"object_key":"a.txt"}`, http.StatusOK},
		{"create job", "POST", "/api/v1/jobs", `{"object_keys":["a.txt"]}`, http.StatusAccepted},
		{"list jobs", "GET", "/api/v1/jobs", "", http.StatusOK},
		{"get job", "GET", "/api/v1/jobs/job-1", "", http.StatusOK},
		{"liveness", "GET", "/healthz", "", http.StatusOK},
		{"readiness", "GET", "/readyz", "", http.StatusOK},
		{"metrics", "GET", "/metrics", "", http.StatusOK},
		{"unknown", "GET", "/api/v1/nope", "", http.StatusNotFound},
		{"wrong method", "DELETE", "/api/v1/extract", "", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestRouter_ExtractResponseBody(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest("POST", "/api/v1/extract", strings.NewReader(`{"text":"Pay $500"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp docfacts.ExtractResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.EntityCount != 2 {
		t.Errorf("entity_count = %d", resp.EntityCount)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type = %q", ct)
	}
}

func TestRouter_PanicRecovered(t *testing.T) {
	router := NewRouter(RouterConfig{})
	req := httptest.NewRequest("GET", "/api/v1/jobs", nil)
	w := httptest.NewRecorder()

	// No handlers registered: chi should 404, never panic.
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d", w.Code)
	}
}
