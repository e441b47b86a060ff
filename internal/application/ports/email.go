package ports

import "context"

// EmailSender delivers a rendered message to one recipient.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}
