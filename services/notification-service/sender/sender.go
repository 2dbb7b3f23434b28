package sender

import (
	"context"
	"time"
)

// SendResult describes a successful delivery.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers a rendered message to a recipient.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) (SendResult, error)
}
