package adapters

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrQueueClosed is returned by Publish and StartConsuming after Close.
var ErrQueueClosed = errors.New("queue adapter is closed")

// JobHandler processes one message taken from a queue.
type JobHandler func(ctx context.Context, data []byte) error

// QueueAdapter defines the operations of a message queue.
type QueueAdapter interface {
	// Publish sends jobData to the named queue.
	Publish(ctx context.Context, queueName string, jobData []byte) error
	// StartConsuming runs handler for every message on the named queue in a background goroutine.
	StartConsuming(ctx context.Context, queueName string, handler JobHandler) error
	// StopConsuming stops the consumer of the named queue.
	StopConsuming(ctx context.Context, queueName string) error
	// Close stops every consumer and waits for them to return.
	Close() error
}

// InMemoryQueueAdapter is a QueueAdapter backed by buffered Go channels.
type InMemoryQueueAdapter struct {
	queues         map[string]chan []byte
	stopChan       map[string]chan struct{}
	mu             sync.RWMutex
	wg             sync.WaitGroup
	consumerCtx    context.Context
	cancelFunc     context.CancelFunc
	closed         bool
	bufferSize     int
	publishTimeout time.Duration
	logger         *zap.Logger
}

// NewInMemoryQueueAdapter creates a new InMemoryQueueAdapter.
func NewInMemoryQueueAdapter(logger *zap.Logger) *InMemoryQueueAdapter {
	consumerCtx, cancelFunc := context.WithCancel(context.Background())
	return &InMemoryQueueAdapter{
		queues:         make(map[string]chan []byte),
		stopChan:       make(map[string]chan struct{}),
		consumerCtx:    consumerCtx,
		cancelFunc:     cancelFunc,
		bufferSize:     100,
		publishTimeout: 2 * time.Second,
		logger:         logger,
	}
}

func (q *InMemoryQueueAdapter) getOrCreateQueue(queueName string) (chan []byte, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil, ErrQueueClosed
	}
	if _, ok := q.queues[queueName]; !ok {
		q.queues[queueName] = make(chan []byte, q.bufferSize)
		q.logger.Debug("In-memory queue created", zap.String("queue", queueName))
	}
	return q.queues[queueName], nil
}

// Publish enqueues jobData, waiting at most publishTimeout for buffer space.
func (q *InMemoryQueueAdapter) Publish(ctx context.Context, queueName string, jobData []byte) error {
	queue, err := q.getOrCreateQueue(queueName)
	if err != nil {
		return err
	}

	timer := time.NewTimer(q.publishTimeout)
	defer timer.Stop()

	select {
	case queue <- jobData:
		q.logger.Debug("Message published", zap.String("queue", queueName), zap.Int("depth", len(queue)))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return fmt.Errorf("timeout publishing to queue %s", queueName)
	}
}

// StartConsuming starts a single consumer for queueName. Handler errors are logged and the
// message is dropped.
func (q *InMemoryQueueAdapter) StartConsuming(ctx context.Context, queueName string, handler JobHandler) error {
	queue, err := q.getOrCreateQueue(queueName)
	if err != nil {
		return err
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	if _, running := q.stopChan[queueName]; running {
		q.mu.Unlock()
		return fmt.Errorf("queue %s already has a consumer", queueName)
	}
	stop := make(chan struct{})
	q.stopChan[queueName] = stop
	q.wg.Add(1)
	q.mu.Unlock()

	go func() {
		defer q.wg.Done()
		q.logger.Info("Consumer started", zap.String("queue", queueName))
		for {
			select {
			case data := <-queue:
				if err := handler(q.consumerCtx, data); err != nil {
					q.logger.Error("Failed to process message", zap.String("queue", queueName), zap.Error(err))
				}
			case <-stop:
				q.logger.Info("Consumer stopped", zap.String("queue", queueName))
				return
			case <-ctx.Done():
				q.logger.Info("Consumer context cancelled", zap.String("queue", queueName))
				return
			case <-q.consumerCtx.Done():
				return
			}
		}
	}()
	return nil
}

// StopConsuming signals the consumer of queueName to return. Messages still buffered stay queued.
func (q *InMemoryQueueAdapter) StopConsuming(ctx context.Context, queueName string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	stop, ok := q.stopChan[queueName]
	if !ok {
		return fmt.Errorf("queue %s has no consumer", queueName)
	}
	close(stop)
	delete(q.stopChan, queueName)
	return nil
}

// Close cancels all consumers and waits for them. It is safe to call more than once.
func (q *InMemoryQueueAdapter) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	q.mu.Unlock()

	q.cancelFunc()
	q.wg.Wait()
	q.logger.Info("In-memory queue adapter closed")
	return nil
}
