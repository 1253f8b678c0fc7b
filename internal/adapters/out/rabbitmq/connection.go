// Package rabbitmq publishes order status changes to a RabbitMQ topic
// exchange.
package rabbitmq

import (
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	DefaultExchange = "marketplace.orders"
	ExchangeType    = "topic"

	dialAttempts = 5
	dialBackoff  = 2 * time.Second
)

// SetupConn dials url, opens a channel and declares exchange as a durable
// topic exchange. Dialing is retried while the broker is starting up.
func SetupConn(url, exchange string, logger *zap.Logger) (*amqp.Connection, *amqp.Channel, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var conn *amqp.Connection
	var err error
	for attempt := 1; attempt <= dialAttempts; attempt++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		logger.Warn("failed to connect to rabbitmq", zap.Int("attempt", attempt), zap.Error(err))
		if attempt < dialAttempts {
			time.Sleep(dialBackoff)
		}
	}
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("could not open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,     // name
		ExchangeType, // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("could not declare exchange %q: %w", exchange, err)
	}

	return conn, ch, nil
}
