package notify

import (
	"context"
	"log/slog"
)

// Email is one outbound message.
type Email struct {
	To       string
	Subject  string
	TextBody string
}

// Sender delivers email through some provider.
type Sender interface {
	Send(ctx context.Context, email Email) error
}

// LogSender writes emails to the log instead of delivering them. Used
// in development when no provider token is configured.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, email Email) error {
	s.logger.Info("email (not delivered, no provider configured)",
		"to", email.To,
		"subject", email.Subject,
	)
	return nil
}
