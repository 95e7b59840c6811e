package sparkpost

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

const recipientListsPath = "recipient-lists"

// RecipientListsService manages stored recipient lists.
type RecipientListsService service

// RecipientListGetOptions are the query options of RecipientListsService.Get.
type RecipientListGetOptions struct {
	// ShowRecipients includes the list's recipients in the response.
	ShowRecipients *bool
}

// List lists all recipient lists.
func (s *RecipientListsService) List(ctx context.Context) (*Response, error) {
	return s.client.Do(ctx, &Request{Method: http.MethodGet, URI: recipientListsPath})
}

// Get retrieves a recipient list by ID. opts may be nil.
func (s *RecipientListsService) Get(ctx context.Context, id string, opts *RecipientListGetOptions) (*Response, error) {
	req, err := s.getRequest(id, opts)
	if err != nil {
		return nil, err
	}
	return s.client.Do(ctx, req)
}

// Create creates a recipient list. The list must carry a "recipients"
// member; "num_rcpt_errors", when present, is also sent as a query
// parameter.
func (s *RecipientListsService) Create(ctx context.Context, list map[string]any) (*Response, error) {
	req, err := s.createRequest(list)
	if err != nil {
		return nil, err
	}
	return s.client.Do(ctx, req)
}

// Update replaces an existing recipient list.
func (s *RecipientListsService) Update(ctx context.Context, id string, list map[string]any) (*Response, error) {
	req, err := s.updateRequest(id, list)
	if err != nil {
		return nil, err
	}
	return s.client.Do(ctx, req)
}

// Delete deletes a recipient list.
func (s *RecipientListsService) Delete(ctx context.Context, id string) (*Response, error) {
	req, err := s.deleteRequest(id)
	if err != nil {
		return nil, err
	}
	return s.client.Do(ctx, req)
}

func (s *RecipientListsService) getRequest(id string, opts *RecipientListGetOptions) (*Request, error) {
	if err := requireField("id", id); err != nil {
		return nil, err
	}

	req := &Request{Method: http.MethodGet, URI: recipientListsPath + "/" + url.PathEscape(id)}
	if opts != nil && opts.ShowRecipients != nil {
		req.Query = map[string]string{"show_recipients": strconv.FormatBool(*opts.ShowRecipients)}
	}
	return req, nil
}

func (s *RecipientListsService) createRequest(list map[string]any) (*Request, error) {
	if err := requireField("recipient list", list); err != nil {
		return nil, err
	}
	if list["recipients"] == nil {
		return nil, &ValidationError{Field: "recipient list"}
	}

	return &Request{
		Method: http.MethodPost,
		URI:    recipientListsPath,
		Query:  numRcptErrorsQuery(list),
		Body:   list,
	}, nil
}

func (s *RecipientListsService) updateRequest(id string, list map[string]any) (*Request, error) {
	if err := requireField("recipient list id", id); err != nil {
		return nil, err
	}
	if err := requireField("recipient list", list); err != nil {
		return nil, err
	}

	return &Request{
		Method: http.MethodPut,
		URI:    recipientListsPath + "/" + url.PathEscape(id),
		Query:  numRcptErrorsQuery(list),
		Body:   list,
	}, nil
}

func (s *RecipientListsService) deleteRequest(id string) (*Request, error) {
	if err := requireField("id", id); err != nil {
		return nil, err
	}
	return &Request{Method: http.MethodDelete, URI: recipientListsPath + "/" + url.PathEscape(id)}, nil
}

func numRcptErrorsQuery(list map[string]any) map[string]string {
	v, ok := list["num_rcpt_errors"]
	if !ok || v == nil {
		return nil
	}
	return map[string]string{"num_rcpt_errors": queryValue(v)}
}
