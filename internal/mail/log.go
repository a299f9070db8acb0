package mail

import (
	"context"
	"log/slog"
)

// Log records outbound mail instead of sending it. Used when no SMTP relay
// is configured.
type Log struct{}

func NewLog() *Log { return &Log{} }

func (l *Log) Send(ctx context.Context, to, subject, body string) error {
	slog.Info("mail suppressed (no relay configured)", "to", to, "subject", subject)
	return nil
}
