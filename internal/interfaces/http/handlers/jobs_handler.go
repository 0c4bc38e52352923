// Handlers for asynchronous batch extraction jobs.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/DocFacts/internal/application/docfacts"
	"github.com/turtacn/DocFacts/internal/infrastructure/monitoring/logging"
)

// JobsHandler serves the batch extraction job endpoints.
type JobsHandler struct {
	service docfacts.Service
	logger  logging.Logger
}

func NewJobsHandler(service docfacts.Service, logger logging.Logger) *JobsHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &JobsHandler{service: service, logger: logger.Named("http.jobs")}
}

// Create handles POST /api/v1/jobs.  The job is accepted and runs in the
// background; the response carries the job ID for polling.
func (h *JobsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req docfacts.BatchExtractRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, err)
		return
	}

	job, err := h.service.BatchExtract(r.Context(), &req)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, job)
}

// Get handles GET /api/v1/jobs/{jobID}.
func (h *JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	job, err := h.service.GetJob(r.Context(), jobID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// List handles GET /api/v1/jobs.
func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ListJobs(r.Context(), parsePagination(r))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}
