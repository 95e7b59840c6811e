package sparkpost

import (
	"context"
	"net/http"
)

// MessageEventsService searches the Message Events API.
type MessageEventsService service

// Search searches message events. List-valued parameters are sent
// comma-joined.
func (s *MessageEventsService) Search(ctx context.Context, params map[string]any) (*Response, error) {
	return s.client.Do(ctx, s.searchRequest(params))
}

func (s *MessageEventsService) searchRequest(params map[string]any) *Request {
	return &Request{
		Method: http.MethodGet,
		URI:    "message-events",
		Query:  queryFromParams(params),
	}
}
