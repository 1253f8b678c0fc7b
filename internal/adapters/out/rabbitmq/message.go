package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
)

const (
	ContentType = "application/json"
	MessageType = "order.changed"
)

// Message is the JSON body of an order.changed message.
type Message struct {
	OrderID    int64           `json:"orderId"`
	AccountID  int64           `json:"accountId"`
	MerchantID int64           `json:"merchantId"`
	Status     string          `json:"status"`
	Total      decimal.Decimal `json:"total"`
	OccurredAt time.Time       `json:"occurredAt"`
}

func fromEvent(e order.ChangedEvent) Message {
	return Message{
		OrderID:    int64(e.OrderID),
		AccountID:  int64(e.AccountID),
		MerchantID: int64(e.MerchantID),
		Status:     e.Status.Code(),
		Total:      e.Total,
		OccurredAt: e.OccurredAt.UTC(),
	}
}

// RoutingKey returns order.<status>, e.g. order.processing.
func RoutingKey(status order.Status) string {
	return "order." + status.Code()
}

// NewPublishing builds the persistent AMQP message for e.
func NewPublishing(e order.ChangedEvent, id uuid.UUID) (amqp.Publishing, error) {
	body, err := json.Marshal(fromEvent(e))
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("could not marshal order %d event: %w", e.OrderID, err)
	}

	return amqp.Publishing{
		ContentType:  ContentType,
		DeliveryMode: amqp.Persistent,
		MessageId:    id.String(),
		Timestamp:    e.OccurredAt.UTC(),
		Type:         MessageType,
		Body:         body,
	}, nil
}
