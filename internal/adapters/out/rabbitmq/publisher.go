package rabbitmq

import (
	"context"
	"fmt"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Channel is the part of *amqp.Channel the publisher uses.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

var _ ports.OrderEventPublisher = (*Publisher)(nil)

type Publisher struct {
	ch       Channel
	exchange string
	newID    func() uuid.UUID
	logger   *zap.Logger
}

type PublisherOption func(*Publisher)

// WithMessageIDs replaces uuid.New as the message id source.
func WithMessageIDs(newID func() uuid.UUID) PublisherOption {
	return func(p *Publisher) {
		if newID != nil {
			p.newID = newID
		}
	}
}

func WithLogger(logger *zap.Logger) PublisherOption {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func NewPublisher(ch Channel, exchange string, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		ch:       ch,
		exchange: exchange,
		newID:    uuid.New,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With(zap.String("component", "rabbitmq-publisher"))
	return p
}

// Publish sends events one by one and stops at the first failure.
func (p *Publisher) Publish(ctx context.Context, events []order.ChangedEvent) (int, error) {
	for i, e := range events {
		if err := ctx.Err(); err != nil {
			return i, err
		}

		msg, err := NewPublishing(e, p.newID())
		if err != nil {
			return i, err
		}

		key := RoutingKey(e.Status)
		err = p.ch.PublishWithContext(ctx,
			p.exchange, // exchange
			key,        // routing key
			false,      // mandatory
			false,      // immediate
			msg,
		)
		if err != nil {
			return i, fmt.Errorf("could not publish order %d event: %w", e.OrderID, err)
		}

		p.logger.Debug("order event published",
			zap.Int64("order_id", int64(e.OrderID)),
			zap.String("routing_key", key),
			zap.String("message_id", msg.MessageId),
		)
	}
	return len(events), nil
}
