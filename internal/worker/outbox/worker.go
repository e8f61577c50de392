package outbox

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/overwatch-coder/souppp-ecom/internal/dal/interfaces/ioutboxrepo"
	"github.com/overwatch-coder/souppp-ecom/internal/dal/rabbitmq"
	outboxmodel "github.com/overwatch-coder/souppp-ecom/internal/service/models/outbox"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
)

// publisher delivers one outbox message to the broker.
type publisher interface {
	Publish(msg outboxmodel.Message) error
}

type amqpPublisher struct {
	client *rabbitmq.Client
}

func (p *amqpPublisher) Publish(msg outboxmodel.Message) error {
	return p.client.Channel().Publish(
		msg.ExchangeName,
		msg.RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: msg.ContentType,
			MessageId:   msg.EventID,
			Type:        msg.EventType,
			Timestamp:   msg.CreatedAt,
			Body:        msg.Payload,
		},
	)
}

// Worker relays committed order events from the outbox table to the
// broker.
type Worker struct {
	outboxRepo    ioutboxrepo.IOutboxRepository
	publisher     publisher
	pollInterval  time.Duration
	batchSize     int
	retryInterval time.Duration
	stopCh        chan struct{}
}

// NewWorker creates a new outbox worker publishing through the given
// RabbitMQ client.
func NewWorker(
	outboxRepo ioutboxrepo.IOutboxRepository,
	rabbitClient *rabbitmq.Client,
) *Worker {
	pollIntervalSeconds := viper.GetInt("rabbitmq.outbox.poll_interval_seconds")
	if pollIntervalSeconds == 0 {
		pollIntervalSeconds = 10
	}

	batchSize := viper.GetInt("rabbitmq.outbox.batch_size")
	if batchSize == 0 {
		batchSize = 100
	}

	retryIntervalSeconds := viper.GetInt("rabbitmq.outbox.retry_interval_seconds")
	if retryIntervalSeconds == 0 {
		retryIntervalSeconds = 30
	}

	return &Worker{
		outboxRepo:    outboxRepo,
		publisher:     &amqpPublisher{client: rabbitClient},
		pollInterval:  time.Duration(pollIntervalSeconds) * time.Second,
		batchSize:     batchSize,
		retryInterval: time.Duration(retryIntervalSeconds) * time.Second,
		stopCh:        make(chan struct{}),
	}
}

// Start begins relaying messages until the context is cancelled or
// Stop is called.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	slog.Info("Outbox worker started", "poll_interval", w.pollInterval, "batch_size", w.batchSize)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Outbox worker shutting down")

			return
		case <-w.stopCh:
			slog.Info("Outbox worker stopped")

			return
		case <-ticker.C:
			w.processMessages(ctx)
		}
	}
}

// Stop stops the worker.
func (w *Worker) Stop() {
	close(w.stopCh)
}

func (w *Worker) processMessages(ctx context.Context) {
	messages, err := w.outboxRepo.GetPendingMessages(ctx, w.batchSize)
	if err != nil {
		slog.Error("Failed to get pending messages from outbox", "error", err)

		return
	}

	if len(messages) == 0 {
		return
	}

	slog.Info("Processing outbox messages", "count", len(messages))

	for _, msg := range messages {
		if err := w.publisher.Publish(msg); err != nil {
			newRetryCount := msg.RetryCount + 1
			nextRetryAt := time.Now().Add(w.backoff(newRetryCount))

			slog.Warn("Failed to publish order event, will retry",
				"outbox_id", msg.ID,
				"event_type", msg.EventType,
				"retry_count", newRetryCount,
				"next_retry", nextRetryAt,
				"error", err,
			)

			if err := w.outboxRepo.UpdateRetry(ctx, msg.ID, newRetryCount, err.Error(), nextRetryAt); err != nil {
				slog.Error("Failed to update retry information", "outbox_id", msg.ID, "error", err)
			}

			continue
		}

		if err := w.outboxRepo.Delete(ctx, msg.ID); err != nil {
			slog.Error("Failed to delete published message from outbox",
				"outbox_id", msg.ID,
				"error", err,
			)

			continue
		}

		slog.Info("Order event published",
			"outbox_id", msg.ID,
			"event_type", msg.EventType,
			"routing_key", msg.RoutingKey,
		)
	}
}

// backoff doubles the retry interval per attempt: 60s, 120s, 240s and
// so on for the default 30s interval.
func (w *Worker) backoff(retryCount int) time.Duration {
	return time.Duration(math.Pow(2, float64(retryCount))) * w.retryInterval
}
