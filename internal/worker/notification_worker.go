package worker

import (
	"context"

	"logi-events/internal/notify"
	"logi-events/internal/queue"
	"logi-events/pkg/logger"

	"go.uber.org/zap"
)

type NotificationWorker interface {
	// 訂閱通知隊列
	Start(ctx context.Context) error
}

type NotificationWorkerImpl struct {
	sender      notify.Sender
	queue       queue.NotificationQueue
	maxAttempts int
	log         *zap.Logger
}

func NewNotificationWorker(sender notify.Sender, q queue.NotificationQueue, maxAttempts int) NotificationWorker {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &NotificationWorkerImpl{
		sender:      sender,
		queue:       q,
		maxAttempts: maxAttempts,
		log:         logger.WithComponent("notification_worker"),
	}
}

func (w *NotificationWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			w.handle(ctx, msg)
		}
	}()
	return nil
}

func (w *NotificationWorkerImpl) handle(ctx context.Context, msg queue.Delivery) {
	n := msg.Data
	n.Attempts++

	err := w.sender.Send(ctx, n)
	if err == nil {
		msg.Ack()
		return
	}

	if n.Attempts < w.maxAttempts {
		w.log.Warn("notification send failed, will retry",
			zap.String("notification_id", n.ID),
			zap.String("channel", string(n.Channel)),
			zap.Int("attempts", n.Attempts),
			zap.Error(err),
		)
		msg.Nack(true)
		return
	}

	// 超過重試次數直接丟棄
	w.log.Error("notification dropped",
		zap.String("notification_id", n.ID),
		zap.String("channel", string(n.Channel)),
		zap.String("to", n.To),
		zap.Int("attempts", n.Attempts),
		zap.Error(err),
	)
	msg.Nack(false)
}
