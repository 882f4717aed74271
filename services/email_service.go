package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/mail.v2"

	"github.com/vee4group/order-tracker-api/config"
	"github.com/vee4group/order-tracker-api/notify"
)

// mailSender is satisfied by *mail.Dialer.
type mailSender interface {
	DialAndSend(m ...*mail.Message) error
}

// EmailService delivers notifications over SMTP.
type EmailService struct {
	sender   mailSender
	from     string
	fromName string
	enabled  bool
}

// NewEmailService creates the SMTP channel. Without SMTP credentials the channel
// reports itself disabled and the dispatcher records skipped results.
func NewEmailService(cfg *config.Config) *EmailService {
	dialer := mail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	dialer.Timeout = cfg.NotifySendTimeout
	return &EmailService{
		sender:   dialer,
		from:     cfg.EmailFrom,
		fromName: cfg.EmailFromName,
		enabled:  cfg.EmailConfigured(),
	}
}

// NewEmailServiceWithSender is used by tests to capture outgoing mail.
func NewEmailServiceWithSender(sender mailSender, from, fromName string) *EmailService {
	return &EmailService{sender: sender, from: from, fromName: fromName, enabled: true}
}

func (s *EmailService) Name() string {
	return "email"
}

func (s *EmailService) Enabled() bool {
	return s.enabled
}

func (s *EmailService) Address(r notify.Recipient) string {
	return strings.TrimSpace(r.Email)
}

// Send delivers one message and returns its Message-ID as the provider id.
func (s *EmailService) Send(ctx context.Context, address string, content notify.Content) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), mailDomain(s.from))

	m := mail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetHeader("To", address)
	m.SetHeader("Subject", content.Subject)
	m.SetHeader("Message-ID", messageID)
	m.SetDateHeader("Date", time.Now())
	if content.HTML != "" {
		m.SetBody("text/html", content.HTML)
		if content.Text != "" {
			m.AddAlternative("text/plain", content.Text)
		}
	} else {
		m.SetBody("text/plain", content.Text)
	}

	if err := s.sender.DialAndSend(m); err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}
	return messageID, nil
}

func mailDomain(from string) string {
	if i := strings.LastIndex(from, "@"); i >= 0 && i < len(from)-1 {
		return from[i+1:]
	}
	return "localhost"
}
