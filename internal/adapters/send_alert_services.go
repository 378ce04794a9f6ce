package adapters

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
)

// DefaultAlertQueue is the queue QueueSendAlertService publishes to unless configured otherwise.
const DefaultAlertQueue = "patient_alerts"

// ConsoleSendAlertService prints each alert on its own line.
type ConsoleSendAlertService struct {
	out    io.Writer
	logger *zap.Logger
}

// NewConsoleSendAlertService writes to out, or to stdout when out is nil.
func NewConsoleSendAlertService(out io.Writer, logger *zap.Logger) *ConsoleSendAlertService {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleSendAlertService{out: out, logger: logger}
}

func (s *ConsoleSendAlertService) Send(message string) {
	if _, err := fmt.Fprintln(s.out, message); err != nil {
		s.logger.Error("Failed to print alert", zap.String("alert", message), zap.Error(err))
	}
}

// LogSendAlertService turns each alert into a warning log entry.
type LogSendAlertService struct {
	logger *zap.Logger
}

func NewLogSendAlertService(logger *zap.Logger) *LogSendAlertService {
	return &LogSendAlertService{logger: logger}
}

func (s *LogSendAlertService) Send(message string) {
	s.logger.Warn("Patient alert", zap.String("alert", message))
}

// QueueSendAlertService hands each alert to a QueueAdapter for asynchronous delivery.
type QueueSendAlertService struct {
	queue          QueueAdapter
	queueName      string
	publishTimeout time.Duration
	logger         *zap.Logger
}

func NewQueueSendAlertService(queue QueueAdapter, queueName string, logger *zap.Logger) *QueueSendAlertService {
	if queueName == "" {
		queueName = DefaultAlertQueue
	}
	return &QueueSendAlertService{
		queue:          queue,
		queueName:      queueName,
		publishTimeout: 2 * time.Second,
		logger:         logger,
	}
}

// Send publishes once. A failed publish is logged and the alert is dropped.
func (s *QueueSendAlertService) Send(message string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.publishTimeout)
	defer cancel()

	if err := s.queue.Publish(ctx, s.queueName, []byte(message)); err != nil {
		s.logger.Error("Failed to publish alert",
			zap.String("queue", s.queueName),
			zap.String("alert", message),
			zap.Error(err),
		)
	}
}
