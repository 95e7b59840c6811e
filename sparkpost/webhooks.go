package sparkpost

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const webhooksPath = "webhooks"

// WebhooksService manages event webhooks.
type WebhooksService service

// WebhookListOptions are the query options of WebhooksService.List and Get.
type WebhookListOptions struct {
	// Timezone applies to the last_successful and last_failure fields.
	Timezone string
}

// WebhookValidateOptions carry the payload sent to the webhook target.
type WebhookValidateOptions struct {
	Message map[string]any `json:"message" validate:"required"`
}

// WebhookBatchStatusOptions are the query options of GetBatchStatus.
type WebhookBatchStatusOptions struct {
	Limit int
}

// WebhookSamplesOptions are the query options of GetSamples.
type WebhookSamplesOptions struct {
	// Events restricts the samples to the named event types.
	Events []string
}

// List lists all webhooks. opts may be nil.
func (s *WebhooksService) List(ctx context.Context, opts *WebhookListOptions) (*Response, error) {
	return s.client.Do(ctx, s.listRequest(opts))
}

// Get retrieves a webhook by ID. opts may be nil.
func (s *WebhooksService) Get(ctx context.Context, id string, opts *WebhookListOptions) (*Response, error) {
	req, err := s.getRequest(id, opts)
	if err != nil {
		return nil, err
	}
	return s.client.Do(ctx, req)
}

// Create creates a webhook.
func (s *WebhooksService) Create(ctx context.Context, webhook map[string]any) (*Response, error) {
	req, err := s.createRequest(webhook)
	if err != nil {
		return nil, err
	}
	return s.client.Do(ctx, req)
}

// Update updates an existing webhook. An "id" member of webhook is not
// sent; webhook is not modified.
func (s *WebhooksService) Update(ctx context.Context, id string, webhook map[string]any) (*Response, error) {
	req, err := s.updateRequest(id, webhook)
	if err != nil {
		return nil, err
	}
	return s.client.Do(ctx, req)
}

// Delete deletes a webhook.
func (s *WebhooksService) Delete(ctx context.Context, id string) (*Response, error) {
	req, err := s.deleteRequest(id)
	if err != nil {
		return nil, err
	}
	return s.client.Do(ctx, req)
}

// Validate sends an example message event batch to the webhook target.
func (s *WebhooksService) Validate(ctx context.Context, id string, opts WebhookValidateOptions) (*Response, error) {
	req, err := s.validateRequest(id, opts)
	if err != nil {
		return nil, err
	}
	return s.client.Do(ctx, req)
}

// GetBatchStatus returns recent batch delivery status for a webhook.
// opts may be nil.
func (s *WebhooksService) GetBatchStatus(ctx context.Context, id string, opts *WebhookBatchStatusOptions) (*Response, error) {
	req, err := s.batchStatusRequest(id, opts)
	if err != nil {
		return nil, err
	}
	return s.client.Do(ctx, req)
}

// GetDocumentation lists the event types and fields a webhook may receive.
func (s *WebhooksService) GetDocumentation(ctx context.Context) (*Response, error) {
	return s.client.Do(ctx, &Request{Method: http.MethodGet, URI: webhooksPath + "/events/documentation"})
}

// GetSamples lists example event payloads. opts may be nil.
func (s *WebhooksService) GetSamples(ctx context.Context, opts *WebhookSamplesOptions) (*Response, error) {
	return s.client.Do(ctx, s.samplesRequest(opts))
}

func timezoneQuery(opts *WebhookListOptions) map[string]string {
	if opts == nil || opts.Timezone == "" {
		return nil
	}
	return map[string]string{"timezone": opts.Timezone}
}

func (s *WebhooksService) listRequest(opts *WebhookListOptions) *Request {
	return &Request{Method: http.MethodGet, URI: webhooksPath, Query: timezoneQuery(opts)}
}

func (s *WebhooksService) getRequest(id string, opts *WebhookListOptions) (*Request, error) {
	if err := requireField("id", id); err != nil {
		return nil, err
	}
	return &Request{Method: http.MethodGet, URI: webhooksPath + "/" + url.PathEscape(id), Query: timezoneQuery(opts)}, nil
}

func (s *WebhooksService) createRequest(webhook map[string]any) (*Request, error) {
	if err := requireField("webhook object", webhook); err != nil {
		return nil, err
	}
	return &Request{Method: http.MethodPost, URI: webhooksPath, Body: webhook}, nil
}

func (s *WebhooksService) updateRequest(id string, webhook map[string]any) (*Request, error) {
	if err := requireField("id", id); err != nil {
		return nil, err
	}
	if err := requireField("webhook object", webhook); err != nil {
		return nil, err
	}

	body := cloneMap(webhook)
	delete(body, "id")

	return &Request{Method: http.MethodPut, URI: webhooksPath + "/" + url.PathEscape(id), Body: body}, nil
}

func (s *WebhooksService) deleteRequest(id string) (*Request, error) {
	if err := requireField("id", id); err != nil {
		return nil, err
	}
	return &Request{Method: http.MethodDelete, URI: webhooksPath + "/" + url.PathEscape(id)}, nil
}

func (s *WebhooksService) validateRequest(id string, opts WebhookValidateOptions) (*Request, error) {
	if err := requireField("id", id); err != nil {
		return nil, err
	}
	if err := requireStruct(opts); err != nil {
		return nil, err
	}

	return &Request{
		Method: http.MethodPost,
		URI:    webhooksPath + "/" + url.PathEscape(id) + "/validate",
		Body:   map[string]any{"message": opts.Message},
	}, nil
}

func (s *WebhooksService) batchStatusRequest(id string, opts *WebhookBatchStatusOptions) (*Request, error) {
	if err := requireField("id", id); err != nil {
		return nil, err
	}

	req := &Request{Method: http.MethodGet, URI: webhooksPath + "/" + url.PathEscape(id) + "/batch-status"}
	if opts != nil && opts.Limit > 0 {
		req.Query = map[string]string{"limit": strconv.Itoa(opts.Limit)}
	}
	return req, nil
}

func (s *WebhooksService) samplesRequest(opts *WebhookSamplesOptions) *Request {
	req := &Request{Method: http.MethodGet, URI: webhooksPath + "/events/samples"}
	if opts != nil && len(opts.Events) > 0 {
		req.Query = map[string]string{"events": strings.Join(opts.Events, ",")}
	}
	return req
}
