package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/praveen92y/mcp-browser-use/internal/errortypes"
)

// ErrorResponse represents the structure of error responses sent by the
// debug HTTP endpoint
type ErrorResponse struct {
	Status     string                 `json:"status"`
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	StackTrace string                 `json:"stack_trace,omitempty"`
}

// Error response codes
const (
	StatusCodeValidationError = "VALIDATION_ERROR"
	StatusCodeBrowserError    = "BROWSER_ERROR"
	StatusCodeNavigationError = "NAVIGATION_ERROR"
	StatusCodeDatabaseError   = "DATABASE_ERROR"
	StatusCodeConfigError     = "CONFIG_ERROR"
	StatusCodeInternalError   = "INTERNAL_ERROR"
	StatusCodeExternalError   = "EXTERNAL_ERROR"
	StatusCodeUnknownError    = "UNKNOWN_ERROR"
)

// WriteError writes an error response to the HTTP response writer
func WriteError(w http.ResponseWriter, err error, status int) {
	slog.Error("Debug API error", "error", err, "status", status)

	errorResponse := errorToResponse(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if encErr := json.NewEncoder(w).Encode(errorResponse); encErr != nil {
		// If we can't encode the JSON, fall back to a simple text response
		slog.Error("Error encoding JSON error response", "error", encErr, "status", status)
		http.Error(w, errorResponse.Message, status)
	}
}

// HandleError inspects the error type to pick the HTTP status and writes a
// structured response
func HandleError(w http.ResponseWriter, err error) {
	WriteError(w, err, statusForError(err))
}

// statusForError maps an application error type to an HTTP status code
func statusForError(err error) int {
	var appErr *errortypes.AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}

	switch appErr.Type {
	case errortypes.ErrorTypeValidation:
		return http.StatusBadRequest
	case errortypes.ErrorTypeNavigation, errortypes.ErrorTypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorToResponse converts an error to a standardized ErrorResponse
func errorToResponse(err error) ErrorResponse {
	var code string
	var details map[string]interface{}
	var stackTrace string
	message := err.Error()

	var appErr *errortypes.AppError
	if errors.As(err, &appErr) {
		details = appErr.Fields
		stackTrace = appErr.StackInfo

		switch appErr.Type {
		case errortypes.ErrorTypeValidation:
			code = StatusCodeValidationError
		case errortypes.ErrorTypeBrowser:
			code = StatusCodeBrowserError
		case errortypes.ErrorTypeNavigation:
			code = StatusCodeNavigationError
		case errortypes.ErrorTypeDatabase:
			code = StatusCodeDatabaseError
		case errortypes.ErrorTypeConfig:
			code = StatusCodeConfigError
		case errortypes.ErrorTypeInternal:
			code = StatusCodeInternalError
		case errortypes.ErrorTypeExternal:
			code = StatusCodeExternalError
		default:
			code = StatusCodeUnknownError
		}
	} else {
		code = StatusCodeUnknownError
	}

	return ErrorResponse{
		Status:     "error",
		Code:       code,
		Message:    message,
		Details:    details,
		StackTrace: stackTrace,
	}
}

// writeJSON writes a success payload as JSON
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		http.Error(w, fmt.Sprintf("encoding error: %v", err), http.StatusInternalServerError)
	}
}
