package store

import (
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"go.uber.org/zap"
)

// CreateOrder opens an empty order of an account at an open merchant.
func (s *Store) CreateOrder(accountID, merchantID kernel.ID) (*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts.find(accountID); !ok {
		return nil, errs.NewAccountNotFoundError(accountID)
	}
	m, ok := s.merchants.find(merchantID)
	if !ok {
		return nil, errs.NewMerchantNotFoundError(merchantID)
	}
	if !m.IsOpen() {
		return nil, errs.NewMerchantClosedError(m.ID(), m.Name())
	}

	o, err := order.NewOrder(s.orders.nextID(), accountID, merchantID, s.now())
	if err != nil {
		return nil, err
	}
	s.orders.insert(o.ID(), o)
	s.record(o)

	s.logger.Debug("order created",
		zap.Int64("order_id", int64(o.ID())),
		zap.Int64("account_id", int64(accountID)),
		zap.Int64("merchant_id", int64(merchantID)),
	)
	return o.Clone(), nil
}

// AddItem adds quantity of the named catalog item of the order's merchant,
// priced as the catalog has it now.
func (s *Store) AddItem(orderID kernel.ID, name string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders.find(orderID)
	if !ok {
		return errs.NewOrderNotFoundError(orderID)
	}
	m, ok := s.merchants.find(o.MerchantID())
	if !ok {
		return errs.NewMerchantNotFoundError(o.MerchantID())
	}
	item, ok := m.FindItem(name)
	if !ok {
		return errs.NewItemNotFoundError(m.ID(), name)
	}

	return o.AddItem(item, quantity)
}

// ProcessOrder pays for a Created order and moves it to Processing.
//
// It returns false without error when the order does not exist or is not in
// Created, so a second call never debits twice. When the order is empty or
// the account cannot afford it, the order is Cancelled and the OrderEmpty or
// InsufficientFunds error is returned.
func (s *Store) ProcessOrder(orderID kernel.ID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders.find(orderID)
	if !ok || o.Status() != order.Created {
		return false, nil
	}
	acc, ok := s.accounts.find(o.AccountID())
	if !ok {
		return false, errs.NewAccountNotFoundError(o.AccountID())
	}

	if err := s.checkout.Pay(acc, o); err != nil {
		if o.Status() == order.Cancelled {
			s.record(o)
			s.logger.Info("order declined",
				zap.Int64("order_id", int64(orderID)),
				zap.Stringer("reason", errs.KindOf(err)),
			)
		}
		return false, err
	}
	s.record(o)

	s.logger.Debug("order processing",
		zap.Int64("order_id", int64(orderID)),
		zap.Stringer("total", o.Total()),
	)
	return true, nil
}

// DispatchOrder hands a Processing order over for delivery. Any other order
// is left alone.
func (s *Store) DispatchOrder(orderID kernel.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders.find(orderID)
	if !ok || o.Status() != order.Processing {
		return false
	}
	if err := o.Dispatch(); err != nil {
		return false
	}
	s.record(o)
	return true
}

// FinishOrder completes a Processing or Delivering order. Any other order is
// left alone.
func (s *Store) FinishOrder(orderID kernel.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders.find(orderID)
	if !ok {
		return false
	}
	if err := o.Complete(s.now()); err != nil {
		return false
	}
	s.record(o)
	return true
}

// CancelOrder cancels any order that is not terminal. A paid order is
// refunded in full.
func (s *Store) CancelOrder(orderID kernel.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders.find(orderID)
	if !ok || o.Status().IsTerminal() {
		return false
	}

	acc, ok := s.accounts.find(o.AccountID())
	if !ok {
		// Restore drops orders without an account, so only an unpaid
		// order can get here.
		if _, err := o.Cancel(); err != nil {
			return false
		}
		s.record(o)
		return true
	}

	refunded, err := s.checkout.Refund(acc, o)
	if err != nil {
		s.logger.Error("cancel order", zap.Int64("order_id", int64(orderID)), zap.Error(err))
		return false
	}
	s.record(o)

	if refunded {
		s.logger.Debug("order refunded",
			zap.Int64("order_id", int64(orderID)),
			zap.Stringer("total", o.Total()),
		)
	}
	return true
}

// OrdersInStatus returns copies of the orders currently in status, in
// creation order.
func (s *Store) OrdersInStatus(status order.Status) []*order.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var orders []*order.Order
	for _, o := range s.orders.items {
		if o.Status() == status {
			orders = append(orders, o.Clone())
		}
	}
	return orders
}

// UncompletedOrders returns copies of the orders that are neither Completed
// nor Cancelled.
func (s *Store) UncompletedOrders() []*order.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var orders []*order.Order
	for _, o := range s.orders.items {
		if !o.Status().IsTerminal() {
			orders = append(orders, o.Clone())
		}
	}
	return orders
}
