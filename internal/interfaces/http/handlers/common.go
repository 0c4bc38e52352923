// Common helper functions for HTTP handlers.

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/turtacn/DocFacts/pkg/errors"
	commontypes "github.com/turtacn/DocFacts/pkg/types/common"
)

// parsePagination extracts page and page_size from query parameters.
func parsePagination(r *http.Request) commontypes.Pagination {
	var p commontypes.Pagination
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			p.Page = n
		}
	}
	if v := r.URL.Query().Get("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			p.PageSize = n
		}
	}
	return p.Normalize()
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeAppError maps application error codes to HTTP status codes.  Server
// errors are masked so internal detail never leaks to clients.
func writeAppError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)

	message := err.Error()
	if errors.IsServerError(code) {
		message = errors.DefaultMessageForCode(code)
	}
	writeJSON(w, status, ErrorResponse{Code: code.String(), Message: message})
}

// decodeJSON parses the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.InvalidParam("invalid request body: " + err.Error())
	}
	return nil
}
