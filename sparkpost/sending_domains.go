package sparkpost

import (
	"context"
	"net/http"
	"net/url"
)

const sendingDomainsPath = "sending-domains"

// SendingDomainsService manages sending domains.
type SendingDomainsService service

// List lists all sending domains.
func (s *SendingDomainsService) List(ctx context.Context) (*Response, error) {
	return s.client.Do(ctx, &Request{Method: http.MethodGet, URI: sendingDomainsPath})
}

// Get retrieves a sending domain by name.
func (s *SendingDomainsService) Get(ctx context.Context, domain string) (*Response, error) {
	req, err := s.getRequest(domain)
	if err != nil {
		return nil, err
	}
	return s.client.Do(ctx, req)
}

// Create creates a sending domain.
func (s *SendingDomainsService) Create(ctx context.Context, body map[string]any) (*Response, error) {
	req, err := s.createRequest(body)
	if err != nil {
		return nil, err
	}
	return s.client.Do(ctx, req)
}

// Update updates the attributes of a sending domain.
func (s *SendingDomainsService) Update(ctx context.Context, domain string, body map[string]any) (*Response, error) {
	req, err := s.updateRequest(domain, body)
	if err != nil {
		return nil, err
	}
	return s.client.Do(ctx, req)
}

// Delete deletes a sending domain.
func (s *SendingDomainsService) Delete(ctx context.Context, domain string) (*Response, error) {
	req, err := s.deleteRequest(domain)
	if err != nil {
		return nil, err
	}
	return s.client.Do(ctx, req)
}

// Verify requests verification of a sending domain, e.g.
// {"dkim_verify": true, "spf_verify": true}.
func (s *SendingDomainsService) Verify(ctx context.Context, domain string, body map[string]any) (*Response, error) {
	req, err := s.verifyRequest(domain, body)
	if err != nil {
		return nil, err
	}
	return s.client.Do(ctx, req)
}

func (s *SendingDomainsService) getRequest(domain string) (*Request, error) {
	if err := requireField("domain", domain); err != nil {
		return nil, err
	}
	return &Request{Method: http.MethodGet, URI: sendingDomainsPath + "/" + url.PathEscape(domain)}, nil
}

func (s *SendingDomainsService) createRequest(body map[string]any) (*Request, error) {
	if err := requireField("create options", body); err != nil {
		return nil, err
	}
	return &Request{Method: http.MethodPost, URI: sendingDomainsPath, Body: body}, nil
}

func (s *SendingDomainsService) updateRequest(domain string, body map[string]any) (*Request, error) {
	if err := requireField("domain", domain); err != nil {
		return nil, err
	}
	if err := requireField("update options", body); err != nil {
		return nil, err
	}
	return &Request{Method: http.MethodPut, URI: sendingDomainsPath + "/" + url.PathEscape(domain), Body: body}, nil
}

func (s *SendingDomainsService) deleteRequest(domain string) (*Request, error) {
	if err := requireField("domain", domain); err != nil {
		return nil, err
	}
	return &Request{Method: http.MethodDelete, URI: sendingDomainsPath + "/" + url.PathEscape(domain)}, nil
}

func (s *SendingDomainsService) verifyRequest(domain string, body map[string]any) (*Request, error) {
	if err := requireField("domain", domain); err != nil {
		return nil, err
	}
	if err := requireField("verification options", body); err != nil {
		return nil, err
	}
	return &Request{Method: http.MethodPost, URI: sendingDomainsPath + "/" + url.PathEscape(domain) + "/verify", Body: body}, nil
}
