package sparkpost

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMissingAPIKey is returned by New when no API key is supplied through
// Config or the SPARKPOST_API_KEY environment variable.
var ErrMissingAPIKey = errors.New("sparkpost: client requires an API key")

// ValidationError is returned before any network call when a required
// argument is missing or empty.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return e.Field + " is required"
}

// ErrorDetail is a single entry of the "errors" array in an API error body.
type ErrorDetail struct {
	Message     string `json:"message"`
	Code        string `json:"code,omitempty"`
	Description string `json:"description,omitempty"`
}

// APIError is returned when the API responds with a 4xx or 5xx status.
type APIError struct {
	// Status is the HTTP status line text, e.g. "404 Not Found".
	Status     string
	StatusCode int
	Errors     []ErrorDetail

	// Body is the raw response body, kept for bodies that do not carry
	// an "errors" array.
	Body []byte
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("sparkpost: API error (HTTP %d)", e.StatusCode)
	}

	msgs := make([]string, 0, len(e.Errors))
	for _, d := range e.Errors {
		msg := d.Message
		if d.Description != "" {
			msg += ": " + d.Description
		}
		msgs = append(msgs, msg)
	}
	return fmt.Sprintf("sparkpost: API error (HTTP %d): %s", e.StatusCode, strings.Join(msgs, "; "))
}

// newAPIError builds an APIError from a failed response. The errors array
// is best-effort: an unparseable body leaves Errors empty.
func newAPIError(status string, statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		Status:     status,
		StatusCode: statusCode,
		Body:       body,
	}

	var envelope struct {
		Errors []ErrorDetail `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		apiErr.Errors = envelope.Errors
	}

	return apiErr
}

// isErrorStatus reports whether the status code is a 4xx or 5xx.
func isErrorStatus(code int) bool {
	return code >= 400 && code < 600
}
