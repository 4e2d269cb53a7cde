package mail

import (
	"context"
	"fmt"
	"html"

	"photofolio/logger"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Sender delivers outbound mail. The contact handler depends on this
// interface so tests can substitute a fake.
type Sender interface {
	Send(ctx context.Context, fromName, replyTo, subject, body string) error
}

// SendGridSender relays mail through SendGrid.
type SendGridSender struct {
	apiKey string
	from   string // verified sender address
	to     string // site owner address
}

// NewSendGridSender creates a SendGrid-backed sender.
func NewSendGridSender(apiKey, from, to string) *SendGridSender {
	return &SendGridSender{apiKey: apiKey, from: from, to: to}
}

// Send relays one message to the configured site owner. Fire-and-forget
// from the submitter's point of view; the caller maps any error to an
// opaque failure.
func (s *SendGridSender) Send(ctx context.Context, fromName, replyTo, subject, body string) error {
	if s.apiKey == "" {
		return fmt.Errorf("sendgrid api key is empty")
	}
	if s.to == "" {
		return fmt.Errorf("contact recipient address is empty")
	}

	fromEmail := sgmail.NewEmail(fromName, s.from)
	toEmail := sgmail.NewEmail("", s.to)

	plain := body
	htmlContent := fmt.Sprintf("<pre>%s</pre>", html.EscapeString(body))

	message := sgmail.NewSingleEmail(fromEmail, subject, toEmail, plain, htmlContent)
	if replyTo != "" {
		message.SetReplyTo(sgmail.NewEmail(fromName, replyTo))
	}

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if response.StatusCode >= 400 {
		logger.Warn("sendgrid rejected message",
			logger.Int("status", response.StatusCode),
			logger.String("body", response.Body))
		return fmt.Errorf("sendgrid send failed: status=%d", response.StatusCode)
	}

	logger.Info("contact mail relayed",
		logger.Int("status", response.StatusCode),
		logger.String("subject", subject))
	return nil
}
