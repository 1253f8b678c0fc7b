package order

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// ChangedEvent records that an order entered Status at OccurredAt.
type ChangedEvent struct {
	OrderID    kernel.ID
	AccountID  kernel.ID
	MerchantID kernel.ID
	Status     Status
	Total      decimal.Decimal
	OccurredAt time.Time
}

// NewChangedEvent captures the current state of o.
func NewChangedEvent(o *Order, at time.Time) ChangedEvent {
	return ChangedEvent{
		OrderID:    o.ID(),
		AccountID:  o.AccountID(),
		MerchantID: o.MerchantID(),
		Status:     o.Status(),
		Total:      o.Total(),
		OccurredAt: at,
	}
}
