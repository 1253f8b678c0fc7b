package store

import (
	"marketplace/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// Stats summarises the store.
type Stats struct {
	Accounts  int
	Merchants int
	Orders    int

	CompletedOrders int
	// Revenue is the sum of completed order totals.
	Revenue decimal.Decimal
	// AverageOrder is Revenue / CompletedOrders rounded to cents, zero when
	// nothing was completed.
	AverageOrder decimal.Decimal
}

func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{
		Accounts:     s.accounts.len(),
		Merchants:    s.merchants.len(),
		Orders:       s.orders.len(),
		Revenue:      decimal.Zero,
		AverageOrder: decimal.Zero,
	}

	for _, o := range s.orders.items {
		if o.Status() != order.Completed {
			continue
		}
		stats.CompletedOrders++
		stats.Revenue = stats.Revenue.Add(o.Total())
	}

	if stats.CompletedOrders > 0 {
		stats.AverageOrder = stats.Revenue.
			Div(decimal.NewFromInt(int64(stats.CompletedOrders))).
			Round(2)
	}
	return stats
}
