// Package notification delivers outbound messages to users. The current
// implementation only records deliveries in the application log; a real mail
// transport can be plugged in behind the Sender interface.
package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/praktis/backend/internal/infrastructure/config"
)

// Message is a single outbound notification.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers notifications to recipients.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes every notification to the structured log instead of
// delivering it. It honours the Enabled flag so staging environments can
// silence notifications entirely.
type LogSender struct {
	cfg    config.MailConfig
	logger *zap.Logger
}

// NewLogSender creates a Sender backed by the application log.
func NewLogSender(cfg config.MailConfig, logger *zap.Logger) *LogSender {
	return &LogSender{cfg: cfg, logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	if !s.cfg.Enabled {
		return nil
	}
	s.logger.Info("Notification sent",
		zap.String("from", s.cfg.FromAddress),
		zap.String("from_name", s.cfg.FromName),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}
