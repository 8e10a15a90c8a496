package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"ticketd/internal/domain/customer"
	"ticketd/internal/domain/ticket"
	"ticketd/internal/shared/logger"
)

const DefaultTransferQueue = "ticket.transferred"

// amqpChannel is the subset of *amqp.Channel the publisher needs.
type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// dialFunc opens a channel and returns a closer for everything it opened.
type dialFunc func(url string) (amqpChannel, func(), error)

// AMQPPublisher puts each transfer on a durable queue as a persistent JSON message.
// It opens a connection per publish.
type AMQPPublisher struct {
	url    string
	queue  string
	dial   dialFunc
	logger logger.Interface
	now    func() time.Time
}

func NewAMQPPublisher(url, queue string, log logger.Interface) *AMQPPublisher {
	if queue == "" {
		queue = DefaultTransferQueue
	}
	return &AMQPPublisher{
		url:    url,
		queue:  queue,
		dial:   dialAMQP,
		logger: log.With("component", "notification.amqp"),
		now:    time.Now,
	}
}

func dialAMQP(url string) (amqpChannel, func(), error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to dial broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}

	return ch, func() { _ = conn.Close() }, nil
}

func (p *AMQPPublisher) SendTransferConfirmation(ctx context.Context, t *ticket.Ticket, previousOwner, _ *customer.Customer) error {
	event := ticket.NewTicketTransferredEvent(t, previousOwner.ID(), p.now())

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ch, closeConn, err := p.dial(p.url)
	if err != nil {
		return err
	}
	defer closeConn()
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", p.queue, err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.Timestamp.UTC(),
		MessageId:    event.TicketKey,
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.queue, err)
	}

	p.logger.Debugw("ticket transferred event queued",
		"queue", p.queue,
		"ticket_key", event.TicketKey,
	)
	return nil
}
