package notify

import (
	"context"
	"log/slog"
)

// LogSender writes notifications to the application log.
type LogSender struct {
	log *slog.Logger
}

func NewLogSender(log *slog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(ctx context.Context, n Notification) error {
	s.log.InfoContext(ctx, "notification",
		slog.Group("notification",
			slog.String("id", n.ID.String()),
			slog.String("event", string(n.Event)),
			slog.Int64("recipient", n.RecipientID),
			slog.String("subject", n.Subject),
		),
	)
	return nil
}
