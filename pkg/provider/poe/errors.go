package poe

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/umleit-dev/umleit/pkg/api"
)

// MapHTTPError converts a bot API response with a non-2xx status code into
// an APIError carrying the upstream status. It attempts to parse the
// response body for a descriptive message.
func MapHTTPError(resp *http.Response) *api.APIError {
	message := extractErrorMessage(resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		if message == "" {
			message = "upstream authentication failed"
		}

	case resp.StatusCode == http.StatusNotFound:
		if message == "" {
			message = "upstream bot not found"
		}

	case resp.StatusCode == http.StatusTooManyRequests:
		if message == "" {
			message = "upstream rate limit exceeded"
		}

	default:
		if message == "" {
			message = fmt.Sprintf("upstream error (HTTP %d)", resp.StatusCode)
		}
	}

	return api.NewUpstreamError(resp.StatusCode, message)
}

// MapNetworkError converts a network-level error (connection refused,
// timeout, DNS resolution failure) into an APIError. The status defaults
// to 502 Bad Gateway via the transport mapping.
func MapNetworkError(err error) *api.APIError {
	return api.NewUpstreamError(0, fmt.Sprintf("upstream connection error: %s", err.Error()))
}

// extractErrorMessage tries to parse the response body as the bot API
// error format and returns the message if found.
func extractErrorMessage(body io.Reader) string {
	if body == nil {
		return ""
	}

	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}

	var errResp apiErrorResponse
	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error.Message != "" {
		return errResp.Error.Message
	}

	return ""
}
