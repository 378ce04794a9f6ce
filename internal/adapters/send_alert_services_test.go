package adapters

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testAlert = "Warning, patient with id: 1, need help"

func TestConsoleSendAlertService_Send(t *testing.T) {
	var buf bytes.Buffer
	svc := NewConsoleSendAlertService(&buf, zap.NewNop())

	svc.Send(testAlert)
	svc.Send(testAlert)

	assert.Equal(t, testAlert+"\n"+testAlert+"\n", buf.String())
}

func TestLogSendAlertService_Send(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	svc := NewLogSendAlertService(zap.New(core))

	svc.Send(testAlert)

	entries := logs.FilterMessage("Patient alert").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, testAlert, entries[0].ContextMap()["alert"])
}

func TestQueueSendAlertService_Send(t *testing.T) {
	q := NewInMemoryQueueAdapter(zap.NewNop())
	defer q.Close()

	received := make(chan string, 1)
	require.NoError(t, q.StartConsuming(context.Background(), DefaultAlertQueue, func(ctx context.Context, data []byte) error {
		received <- string(data)
		return nil
	}))

	NewQueueSendAlertService(q, "", zap.NewNop()).Send(testAlert)

	select {
	case got := <-received:
		assert.Equal(t, testAlert, got)
	case <-time.After(2 * time.Second):
		t.Fatal("alert was not delivered")
	}
}

type failingQueue struct {
	QueueAdapter
	published int
}

func (f *failingQueue) Publish(ctx context.Context, queueName string, jobData []byte) error {
	f.published++
	return errors.New("queue down")
}

func TestQueueSendAlertService_PublishFailureIsLoggedOnce(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	queue := &failingQueue{}
	svc := NewQueueSendAlertService(queue, "custom", zap.New(core))

	svc.Send(testAlert)

	assert.Equal(t, 1, queue.published, "alerts are never retried")
	entries := logs.FilterMessage("Failed to publish alert").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "custom", entries[0].ContextMap()["queue"])
}
