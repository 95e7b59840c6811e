package sparkpost

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

const transmissionsPath = "transmissions"

// TransmissionsService sends and inspects transmissions.
type TransmissionsService service

// TransmissionListOptions filter TransmissionsService.List.
type TransmissionListOptions struct {
	CampaignID string
	TemplateID string
}

// TransmissionSendOptions are the query options of TransmissionsService.Send.
type TransmissionSendOptions struct {
	// NumRcptErrors caps the number of recipient errors returned.
	NumRcptErrors *int
}

// List lists transmissions, optionally filtered. opts may be nil.
func (s *TransmissionsService) List(ctx context.Context, opts *TransmissionListOptions) (*Response, error) {
	return s.client.Do(ctx, s.listRequest(opts))
}

// Get retrieves a transmission by ID.
func (s *TransmissionsService) Get(ctx context.Context, id string) (*Response, error) {
	req, err := s.getRequest(id)
	if err != nil {
		return nil, err
	}
	return s.client.Do(ctx, req)
}

// Send creates a transmission. The payload is normalized with
// FormatPayload; t is not modified. opts may be nil.
func (s *TransmissionsService) Send(ctx context.Context, t *Transmission, opts *TransmissionSendOptions) (*Response, error) {
	req, err := s.sendRequest(t, opts)
	if err != nil {
		return nil, err
	}
	return s.client.Do(ctx, req)
}

func (s *TransmissionsService) listRequest(opts *TransmissionListOptions) *Request {
	req := &Request{Method: http.MethodGet, URI: transmissionsPath}
	if opts == nil {
		return req
	}

	qs := map[string]string{}
	if opts.CampaignID != "" {
		qs["campaign_id"] = opts.CampaignID
	}
	if opts.TemplateID != "" {
		qs["template_id"] = opts.TemplateID
	}
	if len(qs) > 0 {
		req.Query = qs
	}
	return req
}

func (s *TransmissionsService) getRequest(id string) (*Request, error) {
	if err := requireField("id", id); err != nil {
		return nil, err
	}
	return &Request{Method: http.MethodGet, URI: transmissionsPath + "/" + url.PathEscape(id)}, nil
}

func (s *TransmissionsService) sendRequest(t *Transmission, opts *TransmissionSendOptions) (*Request, error) {
	if err := requireField("transmission object", t); err != nil {
		return nil, err
	}

	req := &Request{
		Method: http.MethodPost,
		URI:    transmissionsPath,
		Body:   FormatPayload(t),
	}
	if opts != nil && opts.NumRcptErrors != nil {
		req.Query = map[string]string{"num_rcpt_errors": strconv.Itoa(*opts.NumRcptErrors)}
	}
	return req, nil
}
