// Package mail delivers scheduling notifications. Delivery failures are the
// caller's problem to log and swallow; nothing here blocks the scheduling
// flow.
package mail

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

// Message is one outbound plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer sends notification emails.
type Mailer interface {
	Send(msg Message) error
}

// SMTP delivers messages through a plain SMTP relay.
type SMTP struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTP creates an SMTP mailer.
func NewSMTP(host string, port int, username, password, from string) (*SMTP, error) {
	if strings.TrimSpace(host) == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if strings.TrimSpace(from) == "" {
		return nil, fmt.Errorf("smtp sender address is required")
	}
	if port <= 0 {
		port = 587
	}

	return &SMTP{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}, nil
}

// Send delivers the message.
func (s *SMTP) Send(msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}

	return nil
}

// Discard logs messages instead of delivering them. Used in tests and in
// deployments without a configured relay.
type Discard struct {
	Logger *zap.Logger
}

// Send drops the message after logging its envelope.
func (d *Discard) Send(msg Message) error {
	if d.Logger != nil {
		d.Logger.Info("mail delivery disabled; dropping message",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
		)
	}
	return nil
}
