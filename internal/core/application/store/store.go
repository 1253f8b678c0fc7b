package store

import (
	"sync"
	"time"

	"marketplace/internal/core/domain/model/account"
	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/merchant"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Store owns the accounts, merchants and orders of the marketplace.
//
// Entities never leave the store: every query and create method returns
// copies, and every change goes through a Store method under its lock.
type Store struct {
	mu sync.RWMutex

	accounts  *arena[*account.Account]
	merchants *arena[*merchant.Merchant]
	orders    *arena[*order.Order]

	checkout services.Checkout
	now      func() time.Time
	logger   *zap.Logger

	outboxEnabled bool
	outbox        []order.ChangedEvent
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now for order timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOutbox makes the store record an order.ChangedEvent for every order
// status change, to be collected with DrainEvents.
func WithOutbox() Option {
	return func(s *Store) {
		s.outboxEnabled = true
	}
}

// New returns an empty store whose allocators all start at 1.
func New(opts ...Option) *Store {
	s := &Store{
		accounts:  newArena[*account.Account](),
		merchants: newArena[*merchant.Merchant](),
		orders:    newArena[*order.Order](),
		checkout:  services.NewCheckout(),
		now:       time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("component", "store"))
	return s
}

// CreateAccount adds an account with a zero balance under the next account id.
func (s *Store) CreateAccount(name string, contact account.Contact) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := account.NewAccount(s.accounts.nextID(), name, contact)
	if err != nil {
		return nil, err
	}
	s.accounts.insert(acc.ID(), acc)

	s.logger.Debug("account created", zap.Int64("account_id", int64(acc.ID())))
	return acc.Clone(), nil
}

// CreateMerchant adds an open merchant with an empty catalog under the next
// merchant id.
func (s *Store) CreateMerchant(name, address, phone string) (*merchant.Merchant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := merchant.NewMerchant(s.merchants.nextID(), name, address, phone)
	if err != nil {
		return nil, err
	}
	s.merchants.insert(m.ID(), m)

	s.logger.Debug("merchant created", zap.Int64("merchant_id", int64(m.ID())))
	return m.Clone(), nil
}

// FindAccount returns a copy of the account with id, or false.
func (s *Store) FindAccount(id kernel.ID) (*account.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneOf(s.accounts.find(id))
}

// FindMerchant returns a copy of the merchant with id, or false.
func (s *Store) FindMerchant(id kernel.ID) (*merchant.Merchant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneOf(s.merchants.find(id))
}

// FindOrder returns a copy of the order with id, or false. Later changes
// to the order are not reflected in the copy; call FindOrder again.
func (s *Store) FindOrder(id kernel.ID) (*order.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneOf(s.orders.find(id))
}

// Deposit credits a positive amount to an account.
func (s *Store) Deposit(accountID kernel.ID, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts.find(accountID)
	if !ok {
		return errs.NewAccountNotFoundError(accountID)
	}
	return acc.Credit(amount)
}

// AddCatalogItem inserts item into the merchant's catalog, replacing an item
// with the same name. Orders already holding the old item keep their totals.
func (s *Store) AddCatalogItem(merchantID kernel.ID, item catalog.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.merchants.find(merchantID)
	if !ok {
		return errs.NewMerchantNotFoundError(merchantID)
	}
	return m.AddItem(item)
}

// ToggleMerchant flips whether the merchant accepts new orders and returns
// the new state. Existing orders are not affected.
func (s *Store) ToggleMerchant(merchantID kernel.ID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.merchants.find(merchantID)
	if !ok {
		return false, errs.NewMerchantNotFoundError(merchantID)
	}
	return m.ToggleOpen(), nil
}

// Accounts returns copies of all accounts in creation order.
func (s *Store) Accounts() []*account.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.accounts.items)
}

// Merchants returns copies of all merchants in creation order.
func (s *Store) Merchants() []*merchant.Merchant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.merchants.items)
}

// Orders returns copies of all orders in creation order, terminal ones
// included.
func (s *Store) Orders() []*order.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.orders.items)
}
