package notify

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/brightsmile/clinic-assistant/pkg/logging"
)

const sesCharset = "UTF-8"

// sesAPI is the slice of the SES v2 client the sender uses; tests
// substitute a fake.
type sesAPI interface {
	SendEmail(ctx context.Context, in *sesv2.SendEmailInput, opts ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESSender delivers the clinic's confirmation emails through AWS SES v2.
// Confirmations are plain text; the From header carries the clinic name so
// patients recognize the sender in their inbox.
type SESSender struct {
	api     sesAPI
	from    string
	replyTo []string
	logger  *logging.Logger
}

// SESOption adjusts sender behavior.
type SESOption func(*SESSender)

// WithReplyTo points replies at a monitored mailbox, typically the front
// desk, instead of the sending identity.
func WithReplyTo(addr string) SESOption {
	return func(s *SESSender) {
		if strings.TrimSpace(addr) != "" {
			s.replyTo = append(s.replyTo, addr)
		}
	}
}

// NewSESSender creates a sender. fromEmail must be a verified SES identity;
// a missing client or identity disables the sender.
func NewSESSender(api sesAPI, fromEmail, fromName string, logger *logging.Logger, opts ...SESOption) *SESSender {
	if api == nil || strings.TrimSpace(fromEmail) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if fromName == "" {
		fromName = "BrightSmile Dental"
	}
	from := mail.Address{Name: fromName, Address: fromEmail}
	s := &SESSender{api: api, from: from.String(), logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send delivers one plain-text confirmation.
func (s *SESSender) Send(ctx context.Context, msg EmailMessage) error {
	if s == nil || s.api == nil {
		return fmt.Errorf("notify: ses sender not configured")
	}
	if msg.To == "" {
		return fmt.Errorf("notify: recipient address required")
	}

	in := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		ReplyToAddresses: s.replyTo,
		Destination:      &types.Destination{ToAddresses: []string{msg.To}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String(sesCharset)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(msg.Body), Charset: aws.String(sesCharset)},
				},
			},
		},
	}

	out, err := s.api.SendEmail(ctx, in)
	if err != nil {
		return fmt.Errorf("notify: send email to %s: %w", msg.To, err)
	}
	s.logger.Info("confirmation email sent", "to", msg.To, "subject", msg.Subject, "message_id", aws.ToString(out.MessageId))
	return nil
}

var _ EmailSender = (*SESSender)(nil)
