// Package notification provides best-effort email dispatch. Delivery failures
// are logged and never surfaced to the triggering request.
package notification

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"
)

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPSender speaks plain SMTP without authentication, suitable for a relay
// sidecar.
type SMTPSender struct {
	Host string
	Port int
	From string
}

func (s *SMTPSender) Send(_ context.Context, to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", s.From, to, subject, body)
	return smtp.SendMail(addr, nil, s.From, []string{to}, []byte(msg))
}

// LogSender writes messages to the log instead of delivering them. Used when
// no SMTP host is configured.
type LogSender struct {
	Logger zerolog.Logger
}

func (s *LogSender) Send(_ context.Context, to, subject, _ string) error {
	s.Logger.Info().Str("to", to).Str("subject", subject).Msg("notification (log only)")
	return nil
}

// Service wraps a Sender with fire-and-forget semantics.
type Service struct {
	sender Sender
	logger zerolog.Logger
}

func NewService(sender Sender, logger zerolog.Logger) *Service {
	return &Service{sender: sender, logger: logger}
}

// Notify dispatches in the background; the caller never blocks on delivery.
func (s *Service) Notify(to, subject, body string) {
	if to == "" {
		return
	}
	go func() {
		if err := s.sender.Send(context.Background(), to, subject, body); err != nil {
			s.logger.Warn().Err(err).Str("to", to).Msg("notification delivery failed")
		}
	}()
}

// NotifySync dispatches inline and reports the delivery error. Used by tests
// and by callers that want confirmation.
func (s *Service) NotifySync(ctx context.Context, to, subject, body string) error {
	return s.sender.Send(ctx, to, subject, body)
}
