package sparkpost

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServices(t *testing.T) *Client {
	t.Helper()
	c, err := New(Config{APIKey: "k"})
	require.NoError(t, err)
	return c
}

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

func TestRequestBuilders(t *testing.T) {
	t.Parallel()

	c := testServices(t)
	body := map[string]any{"name": "x"}

	tests := []struct {
		name      string
		build     func() (*Request, error)
		wantURI   string
		method    string
		wantQuery map[string]string
	}{
		{
			name:    "inbound domains get",
			build:   func() (*Request, error) { return c.InboundDomains.getRequest("in.example.com") },
			method:  http.MethodGet,
			wantURI: "inbound-domains/in.example.com",
		},
		{
			name:    "inbound domains create",
			build:   func() (*Request, error) { return c.InboundDomains.createRequest(body) },
			method:  http.MethodPost,
			wantURI: "inbound-domains",
		},
		{
			name:    "inbound domains delete",
			build:   func() (*Request, error) { return c.InboundDomains.deleteRequest("in.example.com") },
			method:  http.MethodDelete,
			wantURI: "inbound-domains/in.example.com",
		},
		{
			name: "recipient lists get with recipients",
			build: func() (*Request, error) {
				return c.RecipientLists.getRequest("list-1", &RecipientListGetOptions{ShowRecipients: boolPtr(true)})
			},
			method:    http.MethodGet,
			wantURI:   "recipient-lists/list-1",
			wantQuery: map[string]string{"show_recipients": "true"},
		},
		{
			name:    "recipient lists delete",
			build:   func() (*Request, error) { return c.RecipientLists.deleteRequest("list-1") },
			method:  http.MethodDelete,
			wantURI: "recipient-lists/list-1",
		},
		{
			name:    "relay webhooks get",
			build:   func() (*Request, error) { return c.RelayWebhooks.getRequest("rw-1") },
			method:  http.MethodGet,
			wantURI: "relay-webhooks/rw-1",
		},
		{
			name:    "relay webhooks update",
			build:   func() (*Request, error) { return c.RelayWebhooks.updateRequest("rw-1", body) },
			method:  http.MethodPut,
			wantURI: "relay-webhooks/rw-1",
		},
		{
			name:    "relay webhooks delete",
			build:   func() (*Request, error) { return c.RelayWebhooks.deleteRequest("rw-1") },
			method:  http.MethodDelete,
			wantURI: "relay-webhooks/rw-1",
		},
		{
			name:    "sending domains update",
			build:   func() (*Request, error) { return c.SendingDomains.updateRequest("example.com", body) },
			method:  http.MethodPut,
			wantURI: "sending-domains/example.com",
		},
		{
			name:    "sending domains verify",
			build:   func() (*Request, error) { return c.SendingDomains.verifyRequest("example.com", body) },
			method:  http.MethodPost,
			wantURI: "sending-domains/example.com/verify",
		},
		{
			name:    "sending domains delete",
			build:   func() (*Request, error) { return c.SendingDomains.deleteRequest("example.com") },
			method:  http.MethodDelete,
			wantURI: "sending-domains/example.com",
		},
		{
			name:    "subaccounts get",
			build:   func() (*Request, error) { return c.Subaccounts.getRequest("123") },
			method:  http.MethodGet,
			wantURI: "subaccounts/123",
		},
		{
			name:    "subaccounts update",
			build:   func() (*Request, error) { return c.Subaccounts.updateRequest("123", body) },
			method:  http.MethodPut,
			wantURI: "subaccounts/123",
		},
		{
			name:    "suppression list get",
			build:   func() (*Request, error) { return c.SuppressionList.getRequest("a@example.com") },
			method:  http.MethodGet,
			wantURI: "suppression-list/a@example.com",
		},
		{
			name:    "suppression list delete",
			build:   func() (*Request, error) { return c.SuppressionList.deleteRequest("a@example.com") },
			method:  http.MethodDelete,
			wantURI: "suppression-list/a@example.com",
		},
		{
			name:    "suppression list get escapes reserved characters",
			build:   func() (*Request, error) { return c.SuppressionList.getRequest("x?#y@example.com") },
			method:  http.MethodGet,
			wantURI: "suppression-list/x%3F%23y@example.com",
		},
		{
			name:    "templates get escapes question mark",
			build:   func() (*Request, error) { return c.Templates.getRequest("a?b", nil) },
			method:  http.MethodGet,
			wantURI: "templates/a%3Fb",
		},
		{
			name: "templates preview escapes slash",
			build: func() (*Request, error) {
				return c.Templates.previewRequest("a/b", map[string]any{})
			},
			method:  http.MethodPost,
			wantURI: "templates/a%2Fb/preview",
		},
		{
			name: "templates get draft",
			build: func() (*Request, error) {
				return c.Templates.getRequest("tpl", &TemplateGetOptions{Draft: boolPtr(false)})
			},
			method:    http.MethodGet,
			wantURI:   "templates/tpl",
			wantQuery: map[string]string{"draft": "false"},
		},
		{
			name: "templates update published",
			build: func() (*Request, error) {
				return c.Templates.updateRequest("tpl", body, &TemplateUpdateOptions{UpdatePublished: boolPtr(true)})
			},
			method:    http.MethodPut,
			wantURI:   "templates/tpl",
			wantQuery: map[string]string{"update_published": "true"},
		},
		{
			name:    "templates delete",
			build:   func() (*Request, error) { return c.Templates.deleteRequest("tpl") },
			method:  http.MethodDelete,
			wantURI: "templates/tpl",
		},
		{
			name:    "transmissions get",
			build:   func() (*Request, error) { return c.Transmissions.getRequest("tx-1") },
			method:  http.MethodGet,
			wantURI: "transmissions/tx-1",
		},
		{
			name: "transmissions send",
			build: func() (*Request, error) {
				return c.Transmissions.sendRequest(&Transmission{}, &TransmissionSendOptions{NumRcptErrors: intPtr(3)})
			},
			method:    http.MethodPost,
			wantURI:   "transmissions",
			wantQuery: map[string]string{"num_rcpt_errors": "3"},
		},
		{
			name: "webhooks get timezone",
			build: func() (*Request, error) {
				return c.Webhooks.getRequest("wh-1", &WebhookListOptions{Timezone: "America/New_York"})
			},
			method:    http.MethodGet,
			wantURI:   "webhooks/wh-1",
			wantQuery: map[string]string{"timezone": "America/New_York"},
		},
		{
			name:    "webhooks delete",
			build:   func() (*Request, error) { return c.Webhooks.deleteRequest("wh-1") },
			method:  http.MethodDelete,
			wantURI: "webhooks/wh-1",
		},
		{
			name: "webhooks batch status",
			build: func() (*Request, error) {
				return c.Webhooks.batchStatusRequest("wh-1", &WebhookBatchStatusOptions{Limit: 50})
			},
			method:    http.MethodGet,
			wantURI:   "webhooks/wh-1/batch-status",
			wantQuery: map[string]string{"limit": "50"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req, err := tt.build()
			require.NoError(t, err)
			assert.Equal(t, tt.method, req.Method)
			assert.Equal(t, tt.wantURI, req.URI)
			assert.Equal(t, tt.wantQuery, req.Query)
		})
	}
}

func TestRequestBuilders_Validation(t *testing.T) {
	t.Parallel()

	c := testServices(t)
	body := map[string]any{"name": "x"}

	tests := []struct {
		name      string
		build     func() (*Request, error)
		wantField string
	}{
		{"inbound get", func() (*Request, error) { return c.InboundDomains.getRequest("") }, "domain"},
		{"inbound create", func() (*Request, error) { return c.InboundDomains.createRequest(nil) }, "create options"},
		{"recipient list get", func() (*Request, error) { return c.RecipientLists.getRequest("", nil) }, "id"},
		{"recipient list create nil", func() (*Request, error) { return c.RecipientLists.createRequest(nil) }, "recipient list"},
		{"recipient list create no recipients", func() (*Request, error) { return c.RecipientLists.createRequest(body) }, "recipient list"},
		{"recipient list update id", func() (*Request, error) { return c.RecipientLists.updateRequest("", body) }, "recipient list id"},
		{"recipient list update body", func() (*Request, error) { return c.RecipientLists.updateRequest("l", nil) }, "recipient list"},
		{"relay webhook create", func() (*Request, error) { return c.RelayWebhooks.createRequest(nil) }, "webhook object"},
		{"relay webhook update", func() (*Request, error) { return c.RelayWebhooks.updateRequest("", body) }, "id"},
		{"sending domain get", func() (*Request, error) { return c.SendingDomains.getRequest("") }, "domain"},
		{"sending domain create", func() (*Request, error) { return c.SendingDomains.createRequest(nil) }, "create options"},
		{"sending domain update", func() (*Request, error) { return c.SendingDomains.updateRequest("d", nil) }, "update options"},
		{"sending domain verify", func() (*Request, error) { return c.SendingDomains.verifyRequest("d", nil) }, "verification options"},
		{"subaccount create", func() (*Request, error) { return c.Subaccounts.createRequest(nil) }, "subaccount object"},
		{"subaccount update", func() (*Request, error) { return c.Subaccounts.updateRequest("", body) }, "id"},
		{"suppression get", func() (*Request, error) { return c.SuppressionList.getRequest("") }, "email"},
		{"suppression delete", func() (*Request, error) { return c.SuppressionList.deleteRequest("") }, "email"},
		{"suppression upsert nil entry", func() (*Request, error) { return c.SuppressionList.upsertRequest([]map[string]any{nil}) }, "list entries"},
		{"template get", func() (*Request, error) { return c.Templates.getRequest("", nil) }, "template id"},
		{"template create", func() (*Request, error) { return c.Templates.createRequest(nil) }, "template object"},
		{"template update", func() (*Request, error) { return c.Templates.updateRequest("t", nil, nil) }, "template object"},
		{"template delete", func() (*Request, error) { return c.Templates.deleteRequest("") }, "template id"},
		{"template preview", func() (*Request, error) { return c.Templates.previewRequest("", nil) }, "template id"},
		{"transmission get", func() (*Request, error) { return c.Transmissions.getRequest("") }, "id"},
		{"transmission send", func() (*Request, error) { return c.Transmissions.sendRequest(nil, nil) }, "transmission object"},
		{"webhook get", func() (*Request, error) { return c.Webhooks.getRequest("", nil) }, "id"},
		{"webhook create", func() (*Request, error) { return c.Webhooks.createRequest(nil) }, "webhook object"},
		{"webhook update", func() (*Request, error) { return c.Webhooks.updateRequest("w", nil) }, "webhook object"},
		{"webhook delete", func() (*Request, error) { return c.Webhooks.deleteRequest("") }, "id"},
		{"webhook validate id", func() (*Request, error) { return c.Webhooks.validateRequest("", WebhookValidateOptions{}) }, "id"},
		{"webhook validate message", func() (*Request, error) { return c.Webhooks.validateRequest("w", WebhookValidateOptions{}) }, "message"},
		{"webhook batch status", func() (*Request, error) { return c.Webhooks.batchStatusRequest("", nil) }, "id"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req, err := tt.build()
			assert.Nil(t, req)

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr), "got %v", err)
			assert.Equal(t, tt.wantField, vErr.Field)
			assert.Equal(t, tt.wantField+" is required", err.Error())
		})
	}
}

func TestRecipientListsCreate_LiftsNumRcptErrors(t *testing.T) {
	t.Parallel()

	c := testServices(t)
	list := map[string]any{
		"id":              "list-1",
		"recipients":      []any{map[string]any{"address": "a@x.com"}},
		"num_rcpt_errors": 3,
	}

	req, err := c.RecipientLists.createRequest(list)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "recipient-lists", req.URI)
	assert.Equal(t, map[string]string{"num_rcpt_errors": "3"}, req.Query)
	assert.Equal(t, list, req.Body)

	req, err = c.RecipientLists.updateRequest("list-1", map[string]any{"recipients": []any{}})
	require.NoError(t, err)
	assert.Nil(t, req.Query)
}

func TestTemplatesPreview_MovesDraftToQuery(t *testing.T) {
	t.Parallel()

	c := testServices(t)
	body := map[string]any{
		"draft":             true,
		"substitution_data": map[string]any{"name": "Jane"},
	}

	req, err := c.Templates.previewRequest("tpl", body)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "templates/tpl/preview", req.URI)
	assert.Equal(t, map[string]string{"draft": "true"}, req.Query)
	assert.Equal(t, map[string]any{"substitution_data": map[string]any{"name": "Jane"}}, req.Body)
	assert.Contains(t, body, "draft", "caller's body is not modified")

	req, err = c.Templates.previewRequest("tpl", nil)
	require.NoError(t, err)
	assert.Nil(t, req.Query)
	assert.Equal(t, map[string]any{}, req.Body)
}

func TestWebhooksUpdate_StripsID(t *testing.T) {
	t.Parallel()

	c := testServices(t)
	webhook := map[string]any{"id": "wh-1", "name": "renamed"}

	req, err := c.Webhooks.updateRequest("wh-1", webhook)
	require.NoError(t, err)
	assert.Equal(t, "webhooks/wh-1", req.URI)
	assert.Equal(t, map[string]any{"name": "renamed"}, req.Body)
	assert.Equal(t, "wh-1", webhook["id"], "caller's body is not modified")
}

func TestWebhooksValidate_Body(t *testing.T) {
	t.Parallel()

	c := testServices(t)
	msg := map[string]any{"msys": map[string]any{}}

	req, err := c.Webhooks.validateRequest("wh-1", WebhookValidateOptions{Message: msg})
	require.NoError(t, err)
	assert.Equal(t, "webhooks/wh-1/validate", req.URI)
	assert.Equal(t, map[string]any{"message": msg}, req.Body)
}

func TestWebhooksSamples_JoinsEvents(t *testing.T) {
	t.Parallel()

	c := testServices(t)

	req := c.Webhooks.samplesRequest(&WebhookSamplesOptions{Events: []string{"bounce", "delivery"}})
	assert.Equal(t, "webhooks/events/samples", req.URI)
	assert.Equal(t, map[string]string{"events": "bounce,delivery"}, req.Query)

	req = c.Webhooks.samplesRequest(nil)
	assert.Nil(t, req.Query)

	assert.Nil(t, c.Webhooks.listRequest(&WebhookListOptions{}).Query)
}

func TestSearchParams_ListValuesJoined(t *testing.T) {
	t.Parallel()

	c := testServices(t)
	params := map[string]any{
		"events":       []string{"bounce", "delivery"},
		"campaign_ids": []any{"a", "b"},
		"per_page":     100,
		"from":         "2024-01-01T00:00",
	}
	want := map[string]string{
		"events":       "bounce,delivery",
		"campaign_ids": "a,b",
		"per_page":     "100",
		"from":         "2024-01-01T00:00",
	}

	req := c.MessageEvents.searchRequest(params)
	assert.Equal(t, "message-events", req.URI)
	assert.Equal(t, want, req.Query)

	req = c.Events.searchMessageRequest(params)
	assert.Equal(t, "events/message", req.URI)
	assert.Equal(t, want, req.Query)

	req = c.SuppressionList.listRequest(map[string]any{"types": []string{"transactional"}, "limit": 5})
	assert.Equal(t, "suppression-list", req.URI)
	assert.Equal(t, map[string]string{"types": "transactional", "limit": "5"}, req.Query)

	assert.Nil(t, c.SuppressionList.listRequest(nil).Query)
}

func TestSuppressionListUpsert_WrapsEntries(t *testing.T) {
	t.Parallel()

	c := testServices(t)
	entry := map[string]any{"recipient": "a@example.com", "type": "transactional"}

	req, err := c.SuppressionList.upsertRequest([]map[string]any{entry})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "suppression-list", req.URI)
	assert.Equal(t, map[string]any{"recipients": []map[string]any{entry}}, req.Body)
}

func TestTransmissionsList_Query(t *testing.T) {
	t.Parallel()

	c := testServices(t)

	req := c.Transmissions.listRequest(&TransmissionListOptions{CampaignID: "spring", TemplateID: "tpl"})
	assert.Equal(t, map[string]string{"campaign_id": "spring", "template_id": "tpl"}, req.Query)

	assert.Nil(t, c.Transmissions.listRequest(nil).Query)
	assert.Nil(t, c.Transmissions.listRequest(&TransmissionListOptions{}).Query)
}
