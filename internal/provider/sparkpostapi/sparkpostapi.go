// Package sparkpostapi implements a Provider that delivers messages through
// the SparkPost Transmissions API.
package sparkpostapi

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shineum/sparkpost-lite/internal/email"
	"github.com/shineum/sparkpost-lite/internal/provider"
	"github.com/shineum/sparkpost-lite/sparkpost"
)

// TransmissionSender is the subset of the transmissions service used by
// the provider. *sparkpost.TransmissionsService satisfies it.
type TransmissionSender interface {
	Send(ctx context.Context, t *sparkpost.Transmission, opts *sparkpost.TransmissionSendOptions) (*sparkpost.Response, error)
}

// SendResult is the results object returned by a successful send.
type SendResult struct {
	ID       string `json:"id"`
	Accepted int    `json:"total_accepted_recipients"`
	Rejected int    `json:"total_rejected_recipients"`
}

// SparkPostProvider sends email via the SparkPost API.
type SparkPostProvider struct {
	sender TransmissionSender
	opts   provider.Options
}

// New creates a SparkPostProvider backed by the client's transmissions service.
func New(client *sparkpost.Client, opts provider.Options) *SparkPostProvider {
	return NewWithSender(client.Transmissions, opts)
}

// NewWithSender creates a SparkPostProvider with a custom sender, used for testing.
func NewWithSender(sender TransmissionSender, opts provider.Options) *SparkPostProvider {
	return &SparkPostProvider{
		sender: sender,
		opts:   opts,
	}
}

// Send converts the message into a transmission and submits it. The
// returned string is the transmission id.
func (p *SparkPostProvider) Send(ctx context.Context, msg *email.Email) (string, error) {
	t := provider.BuildTransmission(msg, p.opts)

	resp, err := p.sender.Send(ctx, t, nil)
	if err != nil {
		return "", fmt.Errorf("sparkpost transmission failed: %w", err)
	}

	var result SendResult
	if err := resp.Results(&result); err != nil {
		return "", fmt.Errorf("failed to decode transmission result: %w", err)
	}

	slog.Info("transmission accepted",
		"id", result.ID,
		"accepted", result.Accepted,
		"rejected", result.Rejected,
	)

	return result.ID, nil
}

// Name returns the provider name.
func (p *SparkPostProvider) Name() string {
	return "sparkpost"
}
