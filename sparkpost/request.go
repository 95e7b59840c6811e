package sparkpost

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Request describes a single API call. URI is resolved against
// <origin>/api/<version>/ unless it is already an absolute URL.
type Request struct {
	Method  string
	URI     string
	Headers map[string]string
	Query   map[string]string

	// Body is encoded as JSON when non-nil.
	Body any
}

// Response is a successful API response.
type Response struct {
	StatusCode int
	Body       json.RawMessage

	// Debug is populated when the client was created with Debug set.
	Debug *DebugInfo
}

// DebugInfo records the request and response metadata of a call. The
// Authorization header is redacted.
type DebugInfo struct {
	Method          string
	URL             string
	RequestHeaders  http.Header
	Status          string
	ResponseHeaders http.Header
}

// Decode unmarshals the full response body into v.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Results unmarshals the "results" member of the response body into v.
func (r *Response) Results(v any) error {
	if len(r.Body) == 0 {
		return nil
	}

	var envelope struct {
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(r.Body, &envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if len(envelope.Results) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Results, v); err != nil {
		return fmt.Errorf("failed to decode results: %w", err)
	}
	return nil
}
