package sparkpost

import (
	"context"
	"net/http"
	"net/url"
)

const inboundDomainsPath = "inbound-domains"

// InboundDomainsService manages inbound domains.
type InboundDomainsService service

// List lists all inbound domains.
func (s *InboundDomainsService) List(ctx context.Context) (*Response, error) {
	return s.client.Do(ctx, &Request{Method: http.MethodGet, URI: inboundDomainsPath})
}

// Get retrieves an inbound domain by name.
func (s *InboundDomainsService) Get(ctx context.Context, domain string) (*Response, error) {
	req, err := s.getRequest(domain)
	if err != nil {
		return nil, err
	}
	return s.client.Do(ctx, req)
}

// Create creates an inbound domain, e.g. {"domain": "inbound.example.com"}.
func (s *InboundDomainsService) Create(ctx context.Context, body map[string]any) (*Response, error) {
	req, err := s.createRequest(body)
	if err != nil {
		return nil, err
	}
	return s.client.Do(ctx, req)
}

// Delete deletes an inbound domain.
func (s *InboundDomainsService) Delete(ctx context.Context, domain string) (*Response, error) {
	req, err := s.deleteRequest(domain)
	if err != nil {
		return nil, err
	}
	return s.client.Do(ctx, req)
}

func (s *InboundDomainsService) getRequest(domain string) (*Request, error) {
	if err := requireField("domain", domain); err != nil {
		return nil, err
	}
	return &Request{Method: http.MethodGet, URI: inboundDomainsPath + "/" + url.PathEscape(domain)}, nil
}

func (s *InboundDomainsService) createRequest(body map[string]any) (*Request, error) {
	if err := requireField("create options", body); err != nil {
		return nil, err
	}
	return &Request{Method: http.MethodPost, URI: inboundDomainsPath, Body: body}, nil
}

func (s *InboundDomainsService) deleteRequest(domain string) (*Request, error) {
	if err := requireField("domain", domain); err != nil {
		return nil, err
	}
	return &Request{Method: http.MethodDelete, URI: inboundDomainsPath + "/" + url.PathEscape(domain)}, nil
}
