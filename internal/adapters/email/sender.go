// Package email delivers transactional mail for the portal.
package email

import (
	"context"
	"time"
)

// SendRequest is one outbound message.
type SendRequest struct {
	To      []string
	From    string // overrides the sender's default when set
	Subject string
	HTML    string
	ReplyTo string
}

// SendResult is what the provider accepted.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers a message through an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
