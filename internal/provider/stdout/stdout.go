// Package stdout implements a dry-run Provider that prints the transmission
// payload instead of sending it.
package stdout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shineum/sparkpost-lite/internal/email"
	"github.com/shineum/sparkpost-lite/internal/provider"
	"github.com/shineum/sparkpost-lite/sparkpost"
)

const separator = "========================================\n"

// Provider prints the request body that would be sent to the
// transmissions endpoint.
type Provider struct {
	// writer is the output destination, defaulting to os.Stdout.
	writer io.Writer
	opts   provider.Options
}

// New creates a new stdout Provider that writes to os.Stdout.
func New(opts provider.Options) *Provider {
	return &Provider{writer: os.Stdout, opts: opts}
}

// NewWithWriter creates a new stdout Provider that writes to the given writer.
func NewWithWriter(w io.Writer, opts provider.Options) *Provider {
	return &Provider{writer: w, opts: opts}
}

// Send prints a short summary followed by the formatted payload. Nothing
// is delivered, so the returned id is always empty.
func (p *Provider) Send(_ context.Context, msg *email.Email) (string, error) {
	payload := sparkpost.FormatPayload(provider.BuildTransmission(msg, p.opts))

	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode payload: %w", err)
	}

	var b strings.Builder

	b.WriteString(separator)
	fmt.Fprintf(&b, "Subject: %s\n", msg.Subject)
	fmt.Fprintf(&b, "Recipients: %d\n", len(payload.Recipients.List))

	if len(msg.Attachments) > 0 {
		attachments := make([]string, 0, len(msg.Attachments))
		for _, att := range msg.Attachments {
			attachments = append(attachments, fmt.Sprintf("%s (%s)", att.Filename, formatSize(len(att.Content))))
		}
		fmt.Fprintf(&b, "Attachments: %s\n", strings.Join(attachments, ", "))
	}

	b.WriteString("Payload:\n")
	b.Write(body)
	b.WriteString("\n")
	b.WriteString(separator)

	if _, err := io.WriteString(p.writer, b.String()); err != nil {
		return "", fmt.Errorf("failed to write payload: %w", err)
	}

	return "", nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "stdout"
}

// formatSize formats a byte count into a human-readable string.
func formatSize(bytes int) string {
	const (
		kb = 1024
		mb = kb * 1024
	)

	switch {
	case bytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(mb))
	case bytes >= kb:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
