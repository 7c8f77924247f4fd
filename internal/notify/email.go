// Package notify delivers booking confirmations to customers.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/wolfman30/elitecuts-assistant/pkg/logging"
)

// EmailSender sends a single email.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage is one outgoing email.
type EmailMessage struct {
	To      string
	ToName  string
	Subject string
	Body    string // plain text
	HTML    string // optional
}

// SendGridSender sends email through the SendGrid v3 API.
type SendGridSender struct {
	send      func(ctx context.Context, m *mail.SGMailV3) (int, string, error)
	fromEmail string
	fromName  string
	logger    *logging.Logger
}

// SendGridConfig configures SendGridSender.
type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// NewSendGridSender returns nil when no API key is configured.
func NewSendGridSender(cfg SendGridConfig, logger *logging.Logger) *SendGridSender {
	if cfg.APIKey == "" {
		return nil
	}
	client := sendgrid.NewSendClient(cfg.APIKey)
	return newSendGridSender(cfg, logger, func(ctx context.Context, m *mail.SGMailV3) (int, string, error) {
		resp, err := client.SendWithContext(ctx, m)
		if err != nil {
			return 0, "", err
		}
		return resp.StatusCode, resp.Body, nil
	})
}

func newSendGridSender(cfg SendGridConfig, logger *logging.Logger, send func(context.Context, *mail.SGMailV3) (int, string, error)) *SendGridSender {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FromName == "" {
		cfg.FromName = "EliteCuts"
	}
	return &SendGridSender{send: send, fromEmail: cfg.FromEmail, fromName: cfg.FromName, logger: logger}
}

// Send sends msg via SendGrid.
func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	if s == nil || s.send == nil {
		return fmt.Errorf("notify: sendgrid client not configured")
	}
	html := msg.HTML
	if html == "" {
		html = msg.Body
	}
	m := mail.NewSingleEmail(mail.NewEmail(s.fromName, s.fromEmail), msg.Subject, mail.NewEmail(msg.ToName, msg.To), msg.Body, html)

	status, body, err := s.send(ctx, m)
	if err != nil {
		s.logger.Error("sendgrid send failed", "error", err, "to_domain", domainOf(msg.To))
		return fmt.Errorf("notify: sendgrid send failed: %w", err)
	}
	if status >= 400 {
		s.logger.Error("sendgrid returned error status", "status", status, "body", body)
		return fmt.Errorf("notify: sendgrid returned status %d", status)
	}
	s.logger.Info("email sent via sendgrid", "to_domain", domainOf(msg.To), "subject", msg.Subject, "status", status)
	return nil
}

// LogSender records emails in the log instead of sending them.
type LogSender struct {
	logger *logging.Logger
}

// NewLogSender creates a sender for local development.
func NewLogSender(logger *logging.Logger) *LogSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogSender{logger: logger}
}

// Send logs the email.
func (s *LogSender) Send(_ context.Context, msg EmailMessage) error {
	s.logger.Info("email not sent: no provider configured", "to_domain", domainOf(msg.To), "subject", msg.Subject)
	return nil
}

// domainOf keeps the mailbox out of logs.
func domainOf(addr string) string {
	if i := strings.LastIndex(addr, "@"); i >= 0 {
		return addr[i+1:]
	}
	return ""
}

var (
	_ EmailSender = (*SendGridSender)(nil)
	_ EmailSender = (*LogSender)(nil)
)
