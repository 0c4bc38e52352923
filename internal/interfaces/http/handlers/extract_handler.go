// Handlers for synchronous fact extraction over raw text and stored
// documents.

package handlers

import (
	"net/http"

	"github.com/turtacn/DocFacts/internal/application/docfacts"
	"github.com/turtacn/DocFacts/internal/infrastructure/monitoring/logging"
)

// ExtractHandler serves the synchronous extraction endpoints.
type ExtractHandler struct {
	service docfacts.Service
	logger  logging.Logger
}

func NewExtractHandler(service docfacts.Service, logger logging.Logger) *ExtractHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ExtractHandler{service: service, logger: logger.Named("http.extract")}
}

// ExtractText handles POST /api/v1/extract.
func (h *ExtractHandler) ExtractText(w http.ResponseWriter, r *http.Request) {
	var req docfacts.ExtractTextRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, err)
		return
	}

	resp, err := h.service.ExtractText(r.Context(), &req)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ExtractDocument handles POST /api/v1/documents/extract.
func (h *ExtractHandler) ExtractDocument(w http.ResponseWriter, r *http.Request) {
	var req docfacts.ExtractDocumentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, err)
		return
	}

	resp, err := h.service.ExtractDocument(r.Context(), &req)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
