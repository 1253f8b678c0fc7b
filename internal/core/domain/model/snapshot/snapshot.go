// Package snapshot holds the canonical persisted form of the entity store.
//
// Codecs and snapshot repositories translate between this form and their own
// wire or table layout; the store is the only place that converts it to and
// from domain entities. Entities reference each other only by kernel.ID.
package snapshot

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// DefaultNextID is the allocator value used when none was persisted.
const DefaultNextID kernel.ID = 1

// Snapshot is a full dump of the store. Accounts, Merchants and Orders keep
// the store's insertion order.
type Snapshot struct {
	Accounts   []Account
	Merchants  []Merchant
	Orders     []Order
	Allocators Allocators
}

// Allocators are the next ids to hand out. A zero value means the counter
// was not persisted.
type Allocators struct {
	Account  kernel.ID
	Merchant kernel.ID
	Order    kernel.ID
}

type Account struct {
	ID      kernel.ID
	Name    string
	Email   string
	Phone   string
	Balance decimal.Decimal

	// History is nil when it was not persisted, which is not the same as an
	// account with no orders.
	History []kernel.ID
}

type Merchant struct {
	ID      kernel.ID
	Name    string
	Address string
	Phone   string
	Open    bool
	Catalog []Item
}

type Item struct {
	Name        string
	Price       decimal.Decimal
	Description string
	Category    string
}

type Order struct {
	ID          kernel.ID
	AccountID   kernel.ID
	MerchantID  kernel.ID
	Lines       []Line
	Total       decimal.Decimal
	Status      order.Status
	CreatedAt   time.Time
	CompletedAt *time.Time
}

type Line struct {
	Name     string
	Quantity int
}

// OrDefault returns id, or DefaultNextID when id was not persisted.
func OrDefault(id kernel.ID) kernel.ID {
	if id <= kernel.NoID {
		return DefaultNextID
	}
	return id
}
