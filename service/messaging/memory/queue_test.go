package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Process int
	Amounts []int
}

func TestQueuePublishConsume(t *testing.T) {
	config := DefaultConfig()
	config.RetryDelay = 10 * time.Millisecond
	queue := NewQueue[payload](config)

	ctx := context.Background()
	err := queue.Publish(ctx, &payload{Process: 1, Amounts: []int{1, 0, 2}})
	require.NoError(t, err)
	assert.Equal(t, 1, queue.Size())

	msg, err := queue.Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, msg.T().Process)
	assert.NoError(t, msg.Ack())
	assert.Error(t, msg.Ack(), "double ack is rejected")
	assert.Equal(t, 0, queue.Size())
}

func TestQueueRetry(t *testing.T) {
	config := Config{MaxRetries: 1, RetryDelay: time.Millisecond, DeadLetter: true, QueueBuffer: 4}
	queue := NewQueue[payload](config)
	ctx := context.Background()

	require.NoError(t, queue.Publish(ctx, &payload{Process: 2}))

	msg, err := queue.Consume(ctx)
	require.NoError(t, err)
	require.NoError(t, msg.Nack(assert.AnError))

	// the message comes back once, then dead-letters
	retryCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	msg, err = queue.Consume(retryCtx)
	require.NoError(t, err)
	assert.Equal(t, 2, msg.T().Process)
	require.NoError(t, msg.Nack(assert.AnError))

	assert.Eventually(t, func() bool { return queue.DLQSize() == 1 },
		time.Second, 5*time.Millisecond)
}

func TestQueueRetryFullBufferDeadLetters(t *testing.T) {
	config := Config{MaxRetries: 3, RetryDelay: time.Millisecond, DeadLetter: true, QueueBuffer: 1}
	queue := NewQueue[payload](config)
	ctx := context.Background()

	require.NoError(t, queue.Publish(ctx, &payload{Process: 1}))
	msg, err := queue.Consume(ctx)
	require.NoError(t, err)

	// fill the buffer so the delayed re-queue has no room
	require.NoError(t, queue.Publish(ctx, &payload{Process: 2}))
	require.NoError(t, msg.Nack(assert.AnError))

	assert.Eventually(t, func() bool { return queue.DLQSize() == 1 },
		time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, queue.Size())
}

func TestQueueConsumeHonoursContext(t *testing.T) {
	queue := NewQueue[payload](DefaultConfig())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := queue.Consume(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
