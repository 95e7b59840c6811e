package sparkpost

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
)

// Recipient is a single delivery recipient. Fields other than Address pass
// through payload formatting unchanged.
type Recipient struct {
	Address          Address        `json:"address"`
	ReturnPath       string         `json:"return_path,omitempty"`
	Tags             []string       `json:"tags,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	SubstitutionData map[string]any `json:"substitution_data,omitempty"`
}

func (r Recipient) clone() Recipient {
	r.Address = r.Address.clone()
	r.Tags = slices.Clone(r.Tags)
	r.Metadata = cloneMap(r.Metadata)
	r.SubstitutionData = cloneMap(r.SubstitutionData)
	return r
}

// Recipients is either an inline list of recipients or a reference to a
// stored recipient list.
type Recipients struct {
	List   []Recipient
	ListID string
}

// RecipientsOf returns an inline recipient list.
func RecipientsOf(rcpts ...Recipient) *Recipients {
	if rcpts == nil {
		rcpts = []Recipient{}
	}
	return &Recipients{List: rcpts}
}

// StoredRecipients references a stored recipient list by ID.
func StoredRecipients(listID string) *Recipients {
	return &Recipients{ListID: listID}
}

// IsList reports whether r is an inline recipient list.
func (r *Recipients) IsList() bool {
	return r != nil && r.ListID == ""
}

func (r *Recipients) clone() *Recipients {
	if r == nil {
		return nil
	}
	return &Recipients{List: cloneRecipients(r.List), ListID: r.ListID}
}

func (r Recipients) MarshalJSON() ([]byte, error) {
	if r.ListID != "" {
		return json.Marshal(struct {
			ListID string `json:"list_id"`
		}{r.ListID})
	}
	if r.List == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(r.List)
}

func (r *Recipients) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var ref struct {
			ListID string `json:"list_id"`
		}
		if err := json.Unmarshal(data, &ref); err != nil {
			return err
		}
		*r = Recipients{ListID: ref.ListID}
		return nil
	}

	var list []Recipient
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	if list == nil {
		list = []Recipient{}
	}
	*r = Recipients{List: list}
	return nil
}

// Attachment is a file attached to, or inlined in, a message. Data is
// base64 encoded.
type Attachment struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Data string `json:"data"`
}

// Content is the message content of a transmission: inline parts, a
// stored template reference, or a raw RFC 822 message.
type Content struct {
	From             *Address          `json:"from,omitempty"`
	Subject          string            `json:"subject,omitempty"`
	ReplyTo          string            `json:"reply_to,omitempty"`
	Headers          map[string]string `json:"headers,omitempty"`
	Text             string            `json:"text,omitempty"`
	HTML             string            `json:"html,omitempty"`
	EmailRFC822      string            `json:"email_rfc822,omitempty"`
	TemplateID       string            `json:"template_id,omitempty"`
	UseDraftTemplate bool              `json:"use_draft_template,omitempty"`
	Attachments      []Attachment      `json:"attachments,omitempty"`
	InlineImages     []Attachment      `json:"inline_images,omitempty"`
}

// TransmissionOptions are per-transmission delivery options.
type TransmissionOptions struct {
	StartTime       string `json:"start_time,omitempty"`
	OpenTracking    *bool  `json:"open_tracking,omitempty"`
	ClickTracking   *bool  `json:"click_tracking,omitempty"`
	Transactional   *bool  `json:"transactional,omitempty"`
	Sandbox         *bool  `json:"sandbox,omitempty"`
	SkipSuppression *bool  `json:"skip_suppression,omitempty"`
	InlineCSS       *bool  `json:"inline_css,omitempty"`
	IPPool          string `json:"ip_pool,omitempty"`
}

// Transmission is a single outbound send request. CC and BCC are folded
// into Recipients by FormatPayload before the request is sent.
type Transmission struct {
	CampaignID       string               `json:"campaign_id,omitempty"`
	Description      string               `json:"description,omitempty"`
	Metadata         map[string]any       `json:"metadata,omitempty"`
	SubstitutionData map[string]any       `json:"substitution_data,omitempty"`
	ReturnPath       string               `json:"return_path,omitempty"`
	Options          *TransmissionOptions `json:"options,omitempty"`
	Recipients       *Recipients          `json:"recipients,omitempty"`
	CC               []Recipient          `json:"cc,omitempty"`
	BCC              []Recipient          `json:"bcc,omitempty"`
	Content          Content              `json:"content"`
}

// Clone returns a deep copy of t.
func (t *Transmission) Clone() *Transmission {
	if t == nil {
		return nil
	}

	out := *t
	out.Metadata = cloneMap(t.Metadata)
	out.SubstitutionData = cloneMap(t.SubstitutionData)
	if t.Options != nil {
		opts := *t.Options
		out.Options = &opts
	}
	out.Recipients = t.Recipients.clone()
	out.CC = cloneRecipients(t.CC)
	out.BCC = cloneRecipients(t.BCC)

	if t.Content.From != nil {
		from := t.Content.From.clone()
		out.Content.From = &from
	}
	out.Content.Headers = maps.Clone(t.Content.Headers)
	out.Content.Attachments = slices.Clone(t.Content.Attachments)
	out.Content.InlineImages = slices.Clone(t.Content.InlineImages)

	return &out
}

func cloneRecipients(rcpts []Recipient) []Recipient {
	if rcpts == nil {
		return nil
	}
	out := make([]Recipient, len(rcpts))
	for i, r := range rcpts {
		out[i] = r.clone()
	}
	return out
}

// cloneMap deep-copies the map and slice values produced by JSON-shaped data.
func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return slices.Clone(val)
	default:
		return v
	}
}
