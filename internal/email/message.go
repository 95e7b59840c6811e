// Package email defines the plain message model the CLI builds from flags
// before it is converted into a SparkPost transmission.
package email

// Email is an outbound message. Addresses are free text, either
// "Name <addr@example.com>" or a bare address.
type Email struct {
	From        string
	To          []string
	Cc          []string
	Bcc         []string
	ReplyTo     string
	Subject     string
	TextBody    string
	HtmlBody    string
	Headers     map[string]string
	Tags        []string
	Attachments []Attachment
}

// Attachment represents a file attached to an email message.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}
