package ports

import (
	"context"

	"marketplace/internal/core/domain/model/order"
)

// OrderEventPublisher delivers order status changes outside the process.
type OrderEventPublisher interface {
	// Publish sends events in order and returns how many were delivered
	// before the first failure.
	Publish(ctx context.Context, events []order.ChangedEvent) (int, error)
}
