package sparkpost

import (
	"context"
	"net/http"
	"net/url"
)

const relayWebhooksPath = "relay-webhooks"

// RelayWebhooksService manages inbound relay webhooks.
type RelayWebhooksService service

// List lists all relay webhooks.
func (s *RelayWebhooksService) List(ctx context.Context) (*Response, error) {
	return s.client.Do(ctx, &Request{Method: http.MethodGet, URI: relayWebhooksPath})
}

// Get retrieves a relay webhook by ID.
func (s *RelayWebhooksService) Get(ctx context.Context, id string) (*Response, error) {
	req, err := s.getRequest(id)
	if err != nil {
		return nil, err
	}
	return s.client.Do(ctx, req)
}

// Create creates a relay webhook.
func (s *RelayWebhooksService) Create(ctx context.Context, webhook map[string]any) (*Response, error) {
	req, err := s.createRequest(webhook)
	if err != nil {
		return nil, err
	}
	return s.client.Do(ctx, req)
}

// Update updates an existing relay webhook.
func (s *RelayWebhooksService) Update(ctx context.Context, id string, webhook map[string]any) (*Response, error) {
	req, err := s.updateRequest(id, webhook)
	if err != nil {
		return nil, err
	}
	return s.client.Do(ctx, req)
}

// Delete deletes a relay webhook.
func (s *RelayWebhooksService) Delete(ctx context.Context, id string) (*Response, error) {
	req, err := s.deleteRequest(id)
	if err != nil {
		return nil, err
	}
	return s.client.Do(ctx, req)
}

func (s *RelayWebhooksService) getRequest(id string) (*Request, error) {
	if err := requireField("id", id); err != nil {
		return nil, err
	}
	return &Request{Method: http.MethodGet, URI: relayWebhooksPath + "/" + url.PathEscape(id)}, nil
}

func (s *RelayWebhooksService) createRequest(webhook map[string]any) (*Request, error) {
	if err := requireField("webhook object", webhook); err != nil {
		return nil, err
	}
	return &Request{Method: http.MethodPost, URI: relayWebhooksPath, Body: webhook}, nil
}

func (s *RelayWebhooksService) updateRequest(id string, webhook map[string]any) (*Request, error) {
	if err := requireField("id", id); err != nil {
		return nil, err
	}
	if err := requireField("webhook object", webhook); err != nil {
		return nil, err
	}
	return &Request{Method: http.MethodPut, URI: relayWebhooksPath + "/" + url.PathEscape(id), Body: webhook}, nil
}

func (s *RelayWebhooksService) deleteRequest(id string) (*Request, error) {
	if err := requireField("id", id); err != nil {
		return nil, err
	}
	return &Request{Method: http.MethodDelete, URI: relayWebhooksPath + "/" + url.PathEscape(id)}, nil
}
