package provider

import (
	"encoding/base64"
	"maps"
	"slices"

	"github.com/shineum/sparkpost-lite/internal/email"
	"github.com/shineum/sparkpost-lite/sparkpost"
)

// Options are transmission-level settings applied to every message.
type Options struct {
	// From is used when the message has no sender.
	From       string
	CampaignID string
	Sandbox    bool
}

// BuildTransmission converts an email.Email into a SparkPost transmission.
// Cc and Bcc are passed through as lists; the API client folds them into
// the recipient list when the transmission is sent.
func BuildTransmission(msg *email.Email, opts Options) *sparkpost.Transmission {
	from := msg.From
	if from == "" {
		from = opts.From
	}

	t := &sparkpost.Transmission{
		CampaignID: opts.CampaignID,
		Recipients: sparkpost.RecipientsOf(buildRecipients(msg.To, msg.Tags)...),
		CC:         buildRecipients(msg.Cc, msg.Tags),
		BCC:        buildRecipients(msg.Bcc, msg.Tags),
		Content: sparkpost.Content{
			Subject: msg.Subject,
			ReplyTo: msg.ReplyTo,
			Text:    msg.TextBody,
			HTML:    msg.HtmlBody,
			Headers: maps.Clone(msg.Headers),
		},
	}

	if from != "" {
		addr := sparkpost.AddressOf(sparkpost.ParseAddress(from))
		t.Content.From = &addr
	}

	if opts.Sandbox {
		sandbox := true
		t.Options = &sparkpost.TransmissionOptions{Sandbox: &sandbox}
	}

	for _, att := range msg.Attachments {
		t.Content.Attachments = append(t.Content.Attachments, sparkpost.Attachment{
			Name: att.Filename,
			Type: att.ContentType,
			Data: base64.StdEncoding.EncodeToString(att.Content),
		})
	}

	return t
}

func buildRecipients(addrs []string, tags []string) []sparkpost.Recipient {
	if len(addrs) == 0 {
		return nil
	}

	rcpts := make([]sparkpost.Recipient, 0, len(addrs))
	for _, addr := range addrs {
		rcpts = append(rcpts, sparkpost.Recipient{
			Address: sparkpost.AddressText(addr),
			Tags:    slices.Clone(tags),
		})
	}
	return rcpts
}
