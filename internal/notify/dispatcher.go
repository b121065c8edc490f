package notify

import (
	"context"
	"fmt"

	"logi-events/internal/clock"
	"logi-events/internal/model"
	"logi-events/internal/queue"

	"github.com/google/uuid"
)

type Email struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Dispatcher 只負責排入隊列，實際寄送由 worker 處理
type Dispatcher interface {
	SendVerificationCode(ctx context.Context, phoneNumber, code string) error
	SendEmail(ctx context.Context, email Email) error
}

type QueueDispatcher struct {
	queue queue.NotificationQueue
	clock clock.Clock
}

func NewQueueDispatcher(q queue.NotificationQueue, c clock.Clock) Dispatcher {
	return &QueueDispatcher{queue: q, clock: c}
}

func (d *QueueDispatcher) SendVerificationCode(ctx context.Context, phoneNumber, code string) error {
	return d.publish(ctx, &model.Notification{
		Channel: model.NotificationChannelSMS,
		To:      phoneNumber,
		Text:    fmt.Sprintf("Your LogiEvents verification code is: %s", code),
	})
}

func (d *QueueDispatcher) SendEmail(ctx context.Context, email Email) error {
	if email.To == "" {
		return fmt.Errorf("send email: missing recipient")
	}
	return d.publish(ctx, &model.Notification{
		Channel: model.NotificationChannelEmail,
		To:      email.To,
		Subject: email.Subject,
		Text:    email.Text,
		HTML:    email.HTML,
	})
}

func (d *QueueDispatcher) publish(ctx context.Context, n *model.Notification) error {
	n.ID = uuid.NewString()
	n.CreatedAt = d.clock.Now()
	if err := d.queue.Publish(ctx, n); err != nil {
		return fmt.Errorf("enqueue %s notification: %w", n.Channel, err)
	}
	return nil
}
