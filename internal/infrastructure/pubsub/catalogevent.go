package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"coursegate/internal/shared/goroutine"
	"coursegate/internal/shared/logger"
)

// CatalogChangedEvent tells every instance to rebuild its catalog cache.
type CatalogChangedEvent struct {
	Reason     string `json:"reason"`
	InstanceID string `json:"instance_id"`
	Timestamp  int64  `json:"timestamp"`
}

// CatalogEventHandler is called for events published by other instances.
type CatalogEventHandler func(ctx context.Context, event CatalogChangedEvent)

type CatalogEventPublisher interface {
	PublishChanged(ctx context.Context, reason string) error
}

type CatalogEventSubscriber interface {
	Subscribe(ctx context.Context, handler CatalogEventHandler) error
}

const catalogChangedChannel = "coursegate:catalog.changed"

// RedisCatalogEventBus distributes catalog.changed across instances with Redis Pub/Sub.
type RedisCatalogEventBus struct {
	client     *redis.Client
	logger     logger.Interface
	instanceID string
}

func NewRedisCatalogEventBus(client *redis.Client, logger logger.Interface) *RedisCatalogEventBus {
	return &RedisCatalogEventBus{
		client:     client,
		logger:     logger,
		instanceID: uuid.NewString(),
	}
}

func (b *RedisCatalogEventBus) InstanceID() string {
	return b.instanceID
}

func (b *RedisCatalogEventBus) PublishChanged(ctx context.Context, reason string) error {
	event := CatalogChangedEvent{
		Reason:     reason,
		InstanceID: b.instanceID,
		Timestamp:  time.Now().Unix(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Publish(ctx, catalogChangedChannel, data).Err(); err != nil {
		b.logger.Errorw("failed to publish catalog changed event", "reason", reason, "error", err)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debugw("catalog changed event published", "reason", reason)
	return nil
}

// Subscribe blocks until ctx is done. Events this instance published are skipped
// since the publisher already repopulated.
func (b *RedisCatalogEventBus) Subscribe(ctx context.Context, handler CatalogEventHandler) error {
	ps := b.client.Subscribe(ctx, catalogChangedChannel)
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	b.logger.Infow("subscribed to catalog change events", "channel", catalogChangedChannel)

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			b.logger.Infow("catalog event subscriber stopped", "reason", ctx.Err())
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				b.logger.Warnw("catalog event channel closed")
				return nil
			}

			var event CatalogChangedEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.Warnw("failed to unmarshal catalog event", "payload", msg.Payload, "error", err)
				continue
			}
			if event.InstanceID == b.instanceID {
				continue
			}

			goroutine.SafeGo(b.logger, "catalog-event-handler", func() {
				handler(context.Background(), event)
			})
		}
	}
}
