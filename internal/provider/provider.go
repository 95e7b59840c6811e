// Package provider defines the interface for message delivery backends and
// the conversion from the plain email model to a SparkPost transmission.
package provider

import (
	"context"

	"github.com/shineum/sparkpost-lite/internal/email"
)

// Provider delivers a message and returns the backend's identifier for
// the delivery, if any.
type Provider interface {
	Send(ctx context.Context, msg *email.Email) (string, error)

	// Name returns the human-readable name of this provider.
	Name() string
}
