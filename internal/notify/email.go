package notify

import "context"

// EmailMessage is a single outbound plain-text email.
type EmailMessage struct {
	To      string
	Subject string
	Body    string
}

// EmailSender delivers an email message.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}
