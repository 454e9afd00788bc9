// Package mailer sends transactional email over SMTP.
package mailer

import (
	"fmt"
	"net/smtp"

	"inkwell/internal/config"
	"inkwell/internal/observability"
)

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers transactional mail. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(msg Message) error
}

// SMTPSender sends mail through a plain SMTP relay.
type SMTPSender struct {
	host     string
	port     string
	user     string
	password string
	from     string
}

// NewSMTPSender builds a sender from the application config.
func NewSMTPSender(cfg *config.Config) *SMTPSender {
	return &SMTPSender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFrom,
	}
}

func (s *SMTPSender) Send(msg Message) error {
	raw := fmt.Sprintf("From: %s\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"\r\n"+
		"%s\r\n", s.from, msg.To, msg.Subject, msg.Body)

	var auth smtp.Auth
	if s.user != "" {
		auth = smtp.PlainAuth("", s.user, s.password, s.host)
	}
	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	if err := smtp.SendMail(addr, auth, s.from, []string{msg.To}, []byte(raw)); err != nil {
		observability.EmailsSent.WithLabelValues("transactional", "error").Inc()
		return fmt.Errorf("failed to send email: %w", err)
	}
	observability.EmailsSent.WithLabelValues("transactional", "sent").Inc()
	return nil
}

// PasswordResetBody renders the plain-text body for a password reset mail.
func PasswordResetBody(resetURL string) string {
	return fmt.Sprintf(`Hello,

You requested a password reset for your Inkwell account.

Open the link below within 30 minutes to choose a new password:

%s

If you did not request this, ignore this email and your password will stay unchanged.

---
Inkwell - Blogging Platform
`, resetURL)
}
