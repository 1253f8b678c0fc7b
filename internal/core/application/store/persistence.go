package store

import (
	"context"
	"fmt"
	"io"

	"marketplace/internal/core/domain/model/account"
	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/merchant"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/snapshot"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"go.uber.org/zap"
)

// RestoreReport describes what Restore loaded.
type RestoreReport struct {
	Accounts  int
	Merchants int
	Orders    int

	// DroppedOrders lists orders left out because their account or merchant
	// is not part of the snapshot.
	DroppedOrders []kernel.ID
}

// Snapshot captures the whole store, allocators included.
func (s *Store) Snapshot() snapshot.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := snapshot.Snapshot{
		Accounts:  make([]snapshot.Account, 0, s.accounts.len()),
		Merchants: make([]snapshot.Merchant, 0, s.merchants.len()),
		Orders:    make([]snapshot.Order, 0, s.orders.len()),
		Allocators: snapshot.Allocators{
			Account:  s.accounts.nextID(),
			Merchant: s.merchants.nextID(),
			Order:    s.orders.nextID(),
		},
	}

	for _, acc := range s.accounts.items {
		history := acc.History()
		if history == nil {
			history = []kernel.ID{}
		}
		snap.Accounts = append(snap.Accounts, snapshot.Account{
			ID:      acc.ID(),
			Name:    acc.Name(),
			Email:   acc.Contact().Email,
			Phone:   acc.Contact().Phone,
			Balance: acc.Balance(),
			History: history,
		})
	}

	for _, m := range s.merchants.items {
		items := m.Catalog()
		entry := snapshot.Merchant{
			ID:      m.ID(),
			Name:    m.Name(),
			Address: m.Address(),
			Phone:   m.Phone(),
			Open:    m.IsOpen(),
			Catalog: make([]snapshot.Item, 0, len(items)),
		}
		for _, item := range items {
			entry.Catalog = append(entry.Catalog, snapshot.Item{
				Name:        item.Name(),
				Price:       item.Price(),
				Description: item.Description(),
				Category:    item.Category(),
			})
		}
		snap.Merchants = append(snap.Merchants, entry)
	}

	for _, o := range s.orders.items {
		lines := o.Lines()
		entry := snapshot.Order{
			ID:          o.ID(),
			AccountID:   o.AccountID(),
			MerchantID:  o.MerchantID(),
			Lines:       make([]snapshot.Line, 0, len(lines)),
			Total:       o.Total(),
			Status:      o.Status(),
			CreatedAt:   o.CreatedAt(),
			CompletedAt: o.CompletedAt(),
		}
		for _, line := range lines {
			entry.Lines = append(entry.Lines, snapshot.Line{Name: line.Name, Quantity: line.Quantity})
		}
		snap.Orders = append(snap.Orders, entry)
	}

	return snap
}

// Restore replaces the whole store with snap.
//
// The new graph is built and checked before anything is replaced: on error
// the store keeps its previous content. Orders whose account or merchant is
// missing from snap are dropped and reported. Allocators continue from the
// persisted values but never below the highest restored id + 1.
// Pending outbox events describe the replaced graph and are discarded in the
// same swap.
func (s *Store) Restore(snap snapshot.Snapshot) (RestoreReport, error) {
	g, report, err := s.build(snap)
	if err != nil {
		return RestoreReport{}, errs.NewPersistenceReadError("snapshot", err)
	}

	s.mu.Lock()
	s.accounts, s.merchants, s.orders = g.accounts, g.merchants, g.orders
	discarded := len(s.outbox)
	s.outbox = nil
	s.mu.Unlock()

	if discarded > 0 {
		s.logger.Warn("pending events discarded on restore", zap.Int("events", discarded))
	}

	for _, id := range report.DroppedOrders {
		s.logger.Warn("order dropped on restore: account or merchant missing", zap.Int64("order_id", int64(id)))
	}
	s.logger.Info("store restored",
		zap.Int("accounts", report.Accounts),
		zap.Int("merchants", report.Merchants),
		zap.Int("orders", report.Orders),
		zap.Int("dropped_orders", len(report.DroppedOrders)),
	)
	return report, nil
}

// Dump writes the whole store with codec.
func (s *Store) Dump(w io.Writer, codec ports.Codec) error {
	return codec.Encode(w, s.Snapshot())
}

// Load replaces the whole store with what codec decodes from r. A decode
// failure leaves the store unchanged.
func (s *Store) Load(r io.Reader, codec ports.Codec) (RestoreReport, error) {
	snap, err := codec.Decode(r)
	if err != nil {
		return RestoreReport{}, err
	}
	return s.Restore(snap)
}

// SaveTo saves a snapshot of the store to repo.
func (s *Store) SaveTo(ctx context.Context, repo ports.SnapshotRepository) error {
	return repo.Save(ctx, s.Snapshot())
}

// LoadFrom restores the store from the latest snapshot in repo. It returns
// ports.ErrSnapshotNotFound untouched when repo is empty.
func (s *Store) LoadFrom(ctx context.Context, repo ports.SnapshotRepository) (RestoreReport, error) {
	snap, err := repo.Load(ctx)
	if err != nil {
		return RestoreReport{}, err
	}
	return s.Restore(snap)
}

type graph struct {
	accounts  *arena[*account.Account]
	merchants *arena[*merchant.Merchant]
	orders    *arena[*order.Order]
}

func (s *Store) build(snap snapshot.Snapshot) (graph, RestoreReport, error) {
	g := graph{
		accounts:  newArena[*account.Account](),
		merchants: newArena[*merchant.Merchant](),
		orders:    newArena[*order.Order](),
	}
	var report RestoreReport

	for _, a := range snap.Accounts {
		acc, err := account.RestoreAccount(
			a.ID,
			a.Name,
			account.Contact{Email: a.Email, Phone: a.Phone},
			a.Balance,
			nil,
		)
		if err != nil {
			return graph{}, report, fmt.Errorf("account %d: %w", a.ID, err)
		}
		if !g.accounts.insert(acc.ID(), acc) {
			return graph{}, report, fmt.Errorf("account %d: duplicate id", a.ID)
		}
	}

	for _, m := range snap.Merchants {
		items := make([]catalog.Item, 0, len(m.Catalog))
		for _, it := range m.Catalog {
			item, err := catalog.NewItem(it.Name, it.Price, it.Description, it.Category)
			if err != nil {
				return graph{}, report, fmt.Errorf("merchant %d: %w", m.ID, err)
			}
			items = append(items, item)
		}

		restored, err := merchant.RestoreMerchant(m.ID, m.Name, m.Address, m.Phone, m.Open, items)
		if err != nil {
			return graph{}, report, fmt.Errorf("merchant %d: %w", m.ID, err)
		}
		if !g.merchants.insert(restored.ID(), restored) {
			return graph{}, report, fmt.Errorf("merchant %d: duplicate id", m.ID)
		}
	}

	for _, o := range snap.Orders {
		_, hasAccount := g.accounts.find(o.AccountID)
		_, hasMerchant := g.merchants.find(o.MerchantID)
		if !hasAccount || !hasMerchant {
			report.DroppedOrders = append(report.DroppedOrders, o.ID)
			// A dropped id is still never reused.
			g.orders.advance(o.ID + 1)
			continue
		}

		lines := make([]order.Line, 0, len(o.Lines))
		for _, l := range o.Lines {
			lines = append(lines, order.Line{Name: l.Name, Quantity: l.Quantity})
		}

		restored, err := order.RestoreOrder(
			o.ID, o.AccountID, o.MerchantID, lines, o.Total, o.Status, o.CreatedAt, o.CompletedAt,
		)
		if err != nil {
			return graph{}, report, fmt.Errorf("order %d: %w", o.ID, err)
		}
		if !g.orders.insert(restored.ID(), restored) {
			return graph{}, report, fmt.Errorf("order %d: duplicate id", o.ID)
		}
	}

	for _, a := range snap.Accounts {
		acc, _ := g.accounts.find(a.ID)
		for _, id := range historyOf(a, g.orders) {
			acc.RecordOrder(id)
		}
	}

	g.accounts.advance(snapshot.OrDefault(snap.Allocators.Account))
	g.merchants.advance(snapshot.OrDefault(snap.Allocators.Merchant))
	g.orders.advance(snapshot.OrDefault(snap.Allocators.Order))

	report.Accounts = g.accounts.len()
	report.Merchants = g.merchants.len()
	report.Orders = g.orders.len()
	return g, report, nil
}

// historyOf keeps the persisted history ids that name an order of the
// account, each once. Without a persisted history the account gets every
// order of it that was paid for.
func historyOf(a snapshot.Account, orders *arena[*order.Order]) []kernel.ID {
	var history []kernel.ID

	if a.History == nil {
		for _, o := range orders.items {
			if o.AccountID() == a.ID && o.Status().IsDebited() {
				history = append(history, o.ID())
			}
		}
		return history
	}

	seen := make(map[kernel.ID]bool, len(a.History))
	for _, id := range a.History {
		o, ok := orders.find(id)
		if !ok || o.AccountID() != a.ID || seen[id] {
			continue
		}
		seen[id] = true
		history = append(history, id)
	}
	return history
}
