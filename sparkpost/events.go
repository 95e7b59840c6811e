package sparkpost

import (
	"context"
	"net/http"
)

// EventsService searches the Events API.
type EventsService service

// SearchMessage searches message events. List-valued parameters are sent
// comma-joined, e.g. {"events": []string{"bounce", "delivery"}}.
func (s *EventsService) SearchMessage(ctx context.Context, params map[string]any) (*Response, error) {
	return s.client.Do(ctx, s.searchMessageRequest(params))
}

func (s *EventsService) searchMessageRequest(params map[string]any) *Request {
	return &Request{
		Method: http.MethodGet,
		URI:    "events/message",
		Query:  queryFromParams(params),
	}
}
