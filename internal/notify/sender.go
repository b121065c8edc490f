package notify

import (
	"context"

	"logi-events/internal/model"
	"logi-events/pkg/logger"

	"go.uber.org/zap"
)

// Sender 實際的傳送管道（SMS 閘道、SMTP）
type Sender interface {
	Send(ctx context.Context, n *model.Notification) error
}

// LogSender 只寫日誌，不對外傳送
type LogSender struct {
	log *zap.Logger
}

func NewLogSender() Sender {
	return &LogSender{log: logger.WithComponent("notify")}
}

func (s *LogSender) Send(ctx context.Context, n *model.Notification) error {
	s.log.Info("notification sent",
		zap.String("notification_id", n.ID),
		zap.String("channel", string(n.Channel)),
		zap.String("to", n.To),
		zap.String("subject", n.Subject),
		zap.Int("attempts", n.Attempts),
	)
	return nil
}
