package queue_test

import (
	"context"
	"testing"
	"time"

	"logi-events/internal/model"
	"logi-events/internal/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryNotificationQueue_PublishSubscribe(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	q := queue.NewMemoryNotificationQueue(4)
	msgs, err := q.Subscribe(ctx)
	require.NoError(t, err)

	n := &model.Notification{ID: "n-1", Channel: model.NotificationChannelSMS, To: "+15550001111", Text: "hi"}
	require.NoError(t, q.Publish(ctx, n))

	select {
	case d := <-msgs:
		assert.Equal(t, n, d.Data)
		d.Ack()
	case <-ctx.Done():
		t.Fatal("timeout 未收到訊息")
	}
}

func TestMemoryNotificationQueue_NackRequeue(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	q := queue.NewMemoryNotificationQueue(1)
	msgs, err := q.Subscribe(ctx)
	require.NoError(t, err)
	require.NoError(t, q.Publish(ctx, &model.Notification{ID: "n-retry"}))

	first := <-msgs
	first.Nack(true)

	select {
	case again := <-msgs:
		assert.Equal(t, "n-retry", again.Data.ID)
	case <-ctx.Done():
		t.Fatal("Nack(true) 後應重新投遞")
	}
}

func TestMemoryNotificationQueue_NackDiscard(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	q := queue.NewMemoryNotificationQueue(1)
	msgs, err := q.Subscribe(ctx)
	require.NoError(t, err)
	require.NoError(t, q.Publish(ctx, &model.Notification{ID: "n-drop"}))

	(<-msgs).Nack(false)

	select {
	case d, ok := <-msgs:
		if ok {
			t.Fatalf("Nack(false) 後不應再投遞: %s", d.Data.ID)
		}
	case <-time.After(200 * time.Millisecond):
	}
}

func TestMemoryNotificationQueue_PublishRespectsContext(t *testing.T) {
	q := queue.NewMemoryNotificationQueue(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := q.Publish(ctx, &model.Notification{ID: "blocked"})
	assert.ErrorIs(t, err, context.Canceled)
}
