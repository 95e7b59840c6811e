package sparkpost

import (
	"context"
	"net/http"
	"net/url"
)

const subaccountsPath = "subaccounts"

// SubaccountsService manages subaccounts.
type SubaccountsService service

// List lists all subaccounts.
func (s *SubaccountsService) List(ctx context.Context) (*Response, error) {
	return s.client.Do(ctx, &Request{Method: http.MethodGet, URI: subaccountsPath})
}

// Get retrieves a subaccount by ID.
func (s *SubaccountsService) Get(ctx context.Context, id string) (*Response, error) {
	req, err := s.getRequest(id)
	if err != nil {
		return nil, err
	}
	return s.client.Do(ctx, req)
}

// Create creates a subaccount.
func (s *SubaccountsService) Create(ctx context.Context, subaccount map[string]any) (*Response, error) {
	req, err := s.createRequest(subaccount)
	if err != nil {
		return nil, err
	}
	return s.client.Do(ctx, req)
}

// Update updates an existing subaccount.
func (s *SubaccountsService) Update(ctx context.Context, id string, subaccount map[string]any) (*Response, error) {
	req, err := s.updateRequest(id, subaccount)
	if err != nil {
		return nil, err
	}
	return s.client.Do(ctx, req)
}

func (s *SubaccountsService) getRequest(id string) (*Request, error) {
	if err := requireField("id", id); err != nil {
		return nil, err
	}
	return &Request{Method: http.MethodGet, URI: subaccountsPath + "/" + url.PathEscape(id)}, nil
}

func (s *SubaccountsService) createRequest(subaccount map[string]any) (*Request, error) {
	if err := requireField("subaccount object", subaccount); err != nil {
		return nil, err
	}
	return &Request{Method: http.MethodPost, URI: subaccountsPath, Body: subaccount}, nil
}

func (s *SubaccountsService) updateRequest(id string, subaccount map[string]any) (*Request, error) {
	if err := requireField("id", id); err != nil {
		return nil, err
	}
	if err := requireField("subaccount object", subaccount); err != nil {
		return nil, err
	}
	return &Request{Method: http.MethodPut, URI: subaccountsPath + "/" + url.PathEscape(id), Body: subaccount}, nil
}
