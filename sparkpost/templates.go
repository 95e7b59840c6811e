package sparkpost

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

const templatesPath = "templates"

// TemplatesService manages stored templates.
type TemplatesService service

// TemplateGetOptions are the query options of TemplatesService.Get.
type TemplateGetOptions struct {
	// Draft selects the draft (true) or published (false) version.
	Draft *bool
}

// TemplateUpdateOptions are the query options of TemplatesService.Update.
type TemplateUpdateOptions struct {
	// UpdatePublished updates the published version directly.
	UpdatePublished *bool
}

// List lists all templates.
func (s *TemplatesService) List(ctx context.Context) (*Response, error) {
	return s.client.Do(ctx, &Request{Method: http.MethodGet, URI: templatesPath})
}

// Get retrieves a template by ID. opts may be nil.
func (s *TemplatesService) Get(ctx context.Context, id string, opts *TemplateGetOptions) (*Response, error) {
	req, err := s.getRequest(id, opts)
	if err != nil {
		return nil, err
	}
	return s.client.Do(ctx, req)
}

// Create creates a template.
func (s *TemplatesService) Create(ctx context.Context, template map[string]any) (*Response, error) {
	req, err := s.createRequest(template)
	if err != nil {
		return nil, err
	}
	return s.client.Do(ctx, req)
}

// Update updates an existing template. opts may be nil.
func (s *TemplatesService) Update(ctx context.Context, id string, template map[string]any, opts *TemplateUpdateOptions) (*Response, error) {
	req, err := s.updateRequest(id, template, opts)
	if err != nil {
		return nil, err
	}
	return s.client.Do(ctx, req)
}

// Delete deletes a template.
func (s *TemplatesService) Delete(ctx context.Context, id string) (*Response, error) {
	req, err := s.deleteRequest(id)
	if err != nil {
		return nil, err
	}
	return s.client.Do(ctx, req)
}

// Preview renders the most recent version of a template. A "draft" member
// in body is sent as a query parameter instead; the rest of body (usually
// "substitution_data") is the request body. body is not modified.
func (s *TemplatesService) Preview(ctx context.Context, id string, body map[string]any) (*Response, error) {
	req, err := s.previewRequest(id, body)
	if err != nil {
		return nil, err
	}
	return s.client.Do(ctx, req)
}

func (s *TemplatesService) getRequest(id string, opts *TemplateGetOptions) (*Request, error) {
	if err := requireField("template id", id); err != nil {
		return nil, err
	}

	req := &Request{Method: http.MethodGet, URI: templatesPath + "/" + url.PathEscape(id)}
	if opts != nil && opts.Draft != nil {
		req.Query = map[string]string{"draft": strconv.FormatBool(*opts.Draft)}
	}
	return req, nil
}

func (s *TemplatesService) createRequest(template map[string]any) (*Request, error) {
	if err := requireField("template object", template); err != nil {
		return nil, err
	}
	return &Request{Method: http.MethodPost, URI: templatesPath, Body: template}, nil
}

func (s *TemplatesService) updateRequest(id string, template map[string]any, opts *TemplateUpdateOptions) (*Request, error) {
	if err := requireField("template id", id); err != nil {
		return nil, err
	}
	if err := requireField("template object", template); err != nil {
		return nil, err
	}

	req := &Request{Method: http.MethodPut, URI: templatesPath + "/" + url.PathEscape(id), Body: template}
	if opts != nil && opts.UpdatePublished != nil {
		req.Query = map[string]string{"update_published": strconv.FormatBool(*opts.UpdatePublished)}
	}
	return req, nil
}

func (s *TemplatesService) deleteRequest(id string) (*Request, error) {
	if err := requireField("template id", id); err != nil {
		return nil, err
	}
	return &Request{Method: http.MethodDelete, URI: templatesPath + "/" + url.PathEscape(id)}, nil
}

func (s *TemplatesService) previewRequest(id string, body map[string]any) (*Request, error) {
	if err := requireField("template id", id); err != nil {
		return nil, err
	}

	payload := cloneMap(body)
	if payload == nil {
		payload = map[string]any{}
	}

	req := &Request{Method: http.MethodPost, URI: templatesPath + "/" + url.PathEscape(id) + "/preview"}
	if draft, ok := payload["draft"]; ok {
		req.Query = map[string]string{"draft": queryValue(draft)}
		delete(payload, "draft")
	}
	req.Body = payload

	return req, nil
}

