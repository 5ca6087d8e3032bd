// Package event_relay drains the transaction outbox and publishes completed
// transaction events to Kafka. It runs as its own process so the API serving
// path never waits on the broker.
package event_relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/paywave-wallet-ledger/internal/domain/outbox"
	"github.com/paywave-wallet-ledger/internal/platform/messaging/producers"
)

// EventPublisher pushes one outbox message to the event stream
type EventPublisher interface {
	PublishEvent(ctx context.Context, msg *outbox.Message) error
}

// KafkaEventPublisher publishes outbox payloads through a Kafka producer,
// keyed by transaction id so all events of one transaction land in order on
// the same partition.
type KafkaEventPublisher struct {
	producer producers.MessagePublisher
	logger   *slog.Logger
}

func NewKafkaEventPublisher(logger *slog.Logger, producer producers.MessagePublisher) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		producer: producer,
		logger:   logger,
	}
}

// PublishEvent sends the stored payload as-is. The payload was serialized at
// commit time; re-marshaling here could drift from what actually committed.
func (p *KafkaEventPublisher) PublishEvent(ctx context.Context, msg *outbox.Message) error {
	if _, err := msg.GetTransaction(); err != nil {
		return fmt.Errorf("outbox message %d carries an unreadable payload: %w", msg.ID, err)
	}

	key := msg.TransactionID.String()
	if err := p.producer.Publish(ctx, key, json.RawMessage(msg.Payload)); err != nil {
		return fmt.Errorf("failed to publish outbox message %d: %w", msg.ID, err)
	}

	p.logger.Debug("Published transaction event", "outbox_id", msg.ID, "transaction_id", key)
	return nil
}
