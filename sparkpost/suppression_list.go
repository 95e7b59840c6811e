package sparkpost

import (
	"context"
	"net/http"
	"net/url"
)

const suppressionListPath = "suppression-list"

// SuppressionListService manages the account suppression list.
type SuppressionListService service

// List lists suppression entries, filtered by optional parameters such as
// "types", "from", "to" or "limit".
func (s *SuppressionListService) List(ctx context.Context, params map[string]any) (*Response, error) {
	return s.client.Do(ctx, s.listRequest(params))
}

// Get retrieves the suppression entries for an email address.
func (s *SuppressionListService) Get(ctx context.Context, email string) (*Response, error) {
	req, err := s.getRequest(email)
	if err != nil {
		return nil, err
	}
	return s.client.Do(ctx, req)
}

// Upsert creates or updates suppression entries, e.g.
// {"recipient": "a@example.com", "type": "transactional"}.
func (s *SuppressionListService) Upsert(ctx context.Context, entries ...map[string]any) (*Response, error) {
	req, err := s.upsertRequest(entries)
	if err != nil {
		return nil, err
	}
	return s.client.Do(ctx, req)
}

// Delete removes the suppression entries for an email address.
func (s *SuppressionListService) Delete(ctx context.Context, email string) (*Response, error) {
	req, err := s.deleteRequest(email)
	if err != nil {
		return nil, err
	}
	return s.client.Do(ctx, req)
}

func (s *SuppressionListService) listRequest(params map[string]any) *Request {
	return &Request{Method: http.MethodGet, URI: suppressionListPath, Query: queryFromParams(params)}
}

func (s *SuppressionListService) getRequest(email string) (*Request, error) {
	if err := requireField("email", email); err != nil {
		return nil, err
	}
	return &Request{Method: http.MethodGet, URI: suppressionListPath + "/" + url.PathEscape(email)}, nil
}

func (s *SuppressionListService) upsertRequest(entries []map[string]any) (*Request, error) {
	if len(entries) == 0 {
		return nil, &ValidationError{Field: "list entries"}
	}
	for _, e := range entries {
		if err := requireField("list entries", e); err != nil {
			return nil, err
		}
	}

	return &Request{
		Method: http.MethodPut,
		URI:    suppressionListPath,
		Body:   map[string]any{"recipients": entries},
	}, nil
}

func (s *SuppressionListService) deleteRequest(email string) (*Request, error) {
	if err := requireField("email", email); err != nil {
		return nil, err
	}
	return &Request{Method: http.MethodDelete, URI: suppressionListPath + "/" + url.PathEscape(email)}, nil
}
