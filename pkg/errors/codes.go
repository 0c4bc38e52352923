package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_005"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_006"
	ErrCodeTimeout            ErrorCode = "COMMON_007"
	ErrCodeValidation         ErrorCode = "COMMON_008"
	ErrCodeSerialization      ErrorCode = "COMMON_009"
	ErrCodeCacheError         ErrorCode = "COMMON_010"
	ErrCodeNotImplemented     ErrorCode = "COMMON_011"
	ErrCodeUnknown            ErrorCode = "COMMON_000"

	// CodeOK is a sentinel used by GetCode for nil errors; it is never attached
	// to a real AppError.
	CodeOK ErrorCode = "OK"
)

// Extraction module error codes.
const (
	ErrCodePatternCompile   ErrorCode = "EXTRACT_001"
	ErrCodeTextTooLarge     ErrorCode = "EXTRACT_002"
	ErrCodeEmptyText        ErrorCode = "EXTRACT_003"
	ErrCodeExtractionFailed ErrorCode = "EXTRACT_004"
)

// Storage module error codes.
const (
	ErrCodeStorageError     ErrorCode = "STORE_001"
	ErrCodeDocumentNotFound ErrorCode = "STORE_002"
	ErrCodeDocumentTooLarge ErrorCode = "STORE_003"
)

// Batch job module error codes.
const (
	ErrCodeJobNotFound     ErrorCode = "JOB_001"
	ErrCodeJobAlreadyDone  ErrorCode = "JOB_002"
	ErrCodeJobQueueFull    ErrorCode = "JOB_003"
	ErrCodePublishFailed   ErrorCode = "JOB_004"
	ErrCodeJobInvalidState ErrorCode = "JOB_005"
)

// Export module error codes.
const (
	ErrCodeExportFailed    ErrorCode = "EXPORT_001"
	ErrCodeExportBadFormat ErrorCode = "EXPORT_002"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodePatternCompile:   http.StatusInternalServerError,
	ErrCodeTextTooLarge:     http.StatusRequestEntityTooLarge,
	ErrCodeEmptyText:        http.StatusBadRequest,
	ErrCodeExtractionFailed: http.StatusInternalServerError,

	ErrCodeStorageError:     http.StatusInternalServerError,
	ErrCodeDocumentNotFound: http.StatusNotFound,
	ErrCodeDocumentTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeJobNotFound:     http.StatusNotFound,
	ErrCodeJobAlreadyDone:  http.StatusConflict,
	ErrCodeJobQueueFull:    http.StatusTooManyRequests,
	ErrCodePublishFailed:   http.StatusInternalServerError,
	ErrCodeJobInvalidState: http.StatusConflict,

	ErrCodeExportFailed:    http.StatusInternalServerError,
	ErrCodeExportBadFormat: http.StatusBadRequest,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeCacheError:         "cache error",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodePatternCompile:   "pattern compilation failed",
	ErrCodeTextTooLarge:     "text exceeds maximum length",
	ErrCodeEmptyText:        "text must not be empty",
	ErrCodeExtractionFailed: "extraction failed",

	ErrCodeStorageError:     "object storage error",
	ErrCodeDocumentNotFound: "document not found",
	ErrCodeDocumentTooLarge: "document exceeds maximum size",

	ErrCodeJobNotFound:     "job not found",
	ErrCodeJobAlreadyDone:  "job already completed",
	ErrCodeJobQueueFull:    "job queue full",
	ErrCodePublishFailed:   "failed to publish extraction event",
	ErrCodeJobInvalidState: "job is in an invalid state for this operation",

	ErrCodeExportFailed:    "export failed",
	ErrCodeExportBadFormat: "unsupported export format",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
