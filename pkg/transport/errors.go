package transport

import (
	"encoding/json"
	"net/http"

	"github.com/umleit-dev/umleit/pkg/api"
)

// HTTPStatusFromError maps an APIError to the corresponding HTTP status
// code. An explicit StatusCode on the error (set for upstream failures
// whose status should pass through) takes precedence over the type
// mapping. Transport-level errors (body too large, unsupported content
// type) are handled separately by the HTTP adapter.
func HTTPStatusFromError(err *api.APIError) int {
	if err.StatusCode != 0 {
		return err.StatusCode
	}
	switch err.Type {
	case api.ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	case api.ErrorTypeNotFound:
		return http.StatusNotFound
	case api.ErrorTypeTooManyRequests:
		return http.StatusTooManyRequests
	case api.ErrorTypeConfiguration:
		return http.StatusServiceUnavailable
	case api.ErrorTypeUpstream:
		return http.StatusBadGateway
	case api.ErrorTypeServerError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// WriteErrorResponse writes a JSON error response using the ErrorResponse
// envelope from pkg/api. It sets the Content-Type header and writes the
// HTTP status code.
func WriteErrorResponse(w http.ResponseWriter, apiErr *api.APIError, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(api.ErrorResponse{Error: apiErr})
}

// WriteAPIError writes an APIError response, deriving the HTTP status code
// from the error.
func WriteAPIError(w http.ResponseWriter, apiErr *api.APIError) {
	WriteErrorResponse(w, apiErr, HTTPStatusFromError(apiErr))
}
