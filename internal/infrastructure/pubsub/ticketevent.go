package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ticketd/internal/domain/customer"
	"ticketd/internal/domain/ticket"
	"ticketd/internal/shared/logger"
)

const TicketTransferredChannel = "ticketd:ticket:transferred"

// TicketEventHandler is a callback function for handling ticket transfer events
type TicketEventHandler func(ctx context.Context, event ticket.TicketTransferredEvent)

// redisPublisher is the subset of *redis.Client used for publishing.
type redisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisTicketEventBus publishes ticket transfers on a Redis Pub/Sub channel for other
// instances and services to pick up.
type RedisTicketEventBus struct {
	client redisPublisher
	sub    *redis.Client
	logger logger.Interface
	now    func() time.Time
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// NewRedisTicketEventBus creates a new Redis-based ticket event bus
func NewRedisTicketEventBus(client *redis.Client, log logger.Interface) *RedisTicketEventBus {
	return &RedisTicketEventBus{
		client: client,
		sub:    client,
		logger: log.With("component", "pubsub.ticket"),
		now:    time.Now,
	}
}

// SendTransferConfirmation publishes a TicketTransferredEvent.
func (b *RedisTicketEventBus) SendTransferConfirmation(ctx context.Context, t *ticket.Ticket, previousOwner, _ *customer.Customer) error {
	return b.publish(ctx, ticket.NewTicketTransferredEvent(t, previousOwner.ID(), b.now()))
}

func (b *RedisTicketEventBus) publish(ctx context.Context, event ticket.TicketTransferredEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Publish(ctx, TicketTransferredChannel, data).Err(); err != nil {
		b.logger.Errorw("failed to publish ticket transferred event",
			"ticket_key", event.TicketKey,
			"error", err,
		)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debugw("ticket transferred event published",
		"ticket_key", event.TicketKey,
		"previous_owner_id", event.PreviousOwnerID,
		"new_owner_id", event.NewOwnerID,
	)
	return nil
}

// Subscribe blocks, calling handler for each transfer event until ctx is done.
func (b *RedisTicketEventBus) Subscribe(ctx context.Context, handler TicketEventHandler) error {
	if b.sub == nil {
		return fmt.Errorf("event bus has no subscribing client")
	}

	ps := b.sub.Subscribe(ctx, TicketTransferredChannel)
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	b.logger.Infow("subscribed to ticket events", "channel", TicketTransferredChannel)

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			b.logger.Infow("ticket event subscriber stopped", "reason", ctx.Err())
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				b.logger.Warnw("ticket event channel closed")
				return nil
			}

			var event ticket.TicketTransferredEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.Warnw("failed to unmarshal ticket event",
					"payload", msg.Payload,
					"error", err,
				)
				continue
			}

			handler(ctx, event)
		}
	}
}
