package api

import "fmt"

// ErrorType represents the category of an API error.
type ErrorType string

const (
	// ErrorTypeInvalidRequest covers malformed or empty input, rejected
	// before any upstream call is made.
	ErrorTypeInvalidRequest ErrorType = "invalid_request_error"

	// ErrorTypeUpstream covers any failure returned by or in communication
	// with the upstream provider. Not retried.
	ErrorTypeUpstream ErrorType = "upstream_error"

	// ErrorTypeConfiguration covers missing credential or model
	// configuration, surfaced at first use.
	ErrorTypeConfiguration ErrorType = "configuration_error"

	ErrorTypeServerError     ErrorType = "server_error"
	ErrorTypeNotFound        ErrorType = "not_found_error"
	ErrorTypeTooManyRequests ErrorType = "rate_limit_error"
)

// APIError represents a structured API error with type, code, param, and
// message, serialized in the Chat Completions error envelope.
type APIError struct {
	Type    ErrorType `json:"type"`
	Code    string    `json:"code,omitempty"`
	Param   string    `json:"param,omitempty"`
	Message string    `json:"message"`

	// StatusCode carries an explicit HTTP status for upstream errors where
	// the upstream's own status should pass through. Zero means "derive
	// from Type". Not serialized.
	StatusCode int `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: %s (param: %s)", e.Type, e.Message, e.Param)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ErrorResponse wraps an APIError for JSON serialization as the top-level
// error response.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// NewInvalidRequestError creates an APIError for invalid request parameters.
func NewInvalidRequestError(param, message string) *APIError {
	return &APIError{
		Type:    ErrorTypeInvalidRequest,
		Param:   param,
		Message: message,
	}
}

// NewUpstreamError creates an APIError for an upstream provider failure.
// statusCode is the HTTP status to surface to the caller; zero defaults
// to 502 Bad Gateway.
func NewUpstreamError(statusCode int, message string) *APIError {
	return &APIError{
		Type:       ErrorTypeUpstream,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewConfigurationError creates an APIError for missing credential or
// model configuration.
func NewConfigurationError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeConfiguration,
		Message: message,
	}
}

// NewServerError creates an APIError for internal server errors.
func NewServerError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeServerError,
		Message: message,
	}
}

// NewNotFoundError creates an APIError for resources that cannot be found.
func NewNotFoundError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewTooManyRequestsError creates an APIError for rate limiting.
func NewTooManyRequestsError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeTooManyRequests,
		Message: message,
	}
}
