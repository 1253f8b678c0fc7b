package store_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"testing"
	"time"

	"marketplace/internal/adapters/out/codec/record"
	"marketplace/internal/adapters/out/codec/tree"
	"marketplace/internal/core/application/store"
	"marketplace/internal/core/domain/model/account"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/snapshot"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCodec struct {
	mock.Mock
}

func (m *mockCodec) Name() string {
	return "mock"
}

func (m *mockCodec) Encode(w io.Writer, s snapshot.Snapshot) error {
	args := m.Called(w, s)
	return args.Error(0)
}

func (m *mockCodec) Decode(r io.Reader) (snapshot.Snapshot, error) {
	args := m.Called(r)
	return args.Get(0).(snapshot.Snapshot), args.Error(1)
}

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Save(ctx context.Context, s snapshot.Snapshot) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockRepository) Load(ctx context.Context) (snapshot.Snapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(snapshot.Snapshot), args.Error(1)
}

// busyStore returns a store with two accounts, two merchants (one closed)
// and orders in every status.
func busyStore(t *testing.T) *store.Store {
	t.Helper()
	s := newStore()
	f := populate(t, s, 5000)
	bob, err := s.CreateAccount("Bob", account.Contact{})
	require.NoError(t, err)
	closed, err := s.CreateMerchant("Sushi Bar", "Dock 2", "")
	require.NoError(t, err)
	addCatalogItem(t, s, closed.ID(), "roll", 420)

	newOrder := func(accountID, merchantID kernel.ID, name string) kernel.ID {
		o, err := s.CreateOrder(accountID, merchantID)
		require.NoError(t, err)
		require.NoError(t, s.AddItem(o.ID(), name, 2))
		return o.ID()
	}

	completed := newOrder(f.account, f.merchant, "pepperoni")
	delivering := newOrder(f.account, closed.ID(), "roll")
	processing := newOrder(f.account, f.merchant, "caesar")
	newOrder(bob.ID(), f.merchant, "caesar")
	declined := newOrder(bob.ID(), f.merchant, "pepperoni")

	for _, id := range []kernel.ID{completed, delivering, processing} {
		_, err := s.ProcessOrder(id)
		require.NoError(t, err)
	}
	_, err = s.ProcessOrder(declined)
	require.ErrorIs(t, err, errs.ErrInsufficientFunds)
	require.True(t, s.DispatchOrder(delivering))
	require.True(t, s.FinishOrder(completed))

	_, err = s.ToggleMerchant(closed.ID())
	require.NoError(t, err)
	return s
}

func TestStore_SnapshotRestore(t *testing.T) {
	t.Run("should reproduce an isomorphic store", func(t *testing.T) {
		source := busyStore(t)
		snap := source.Snapshot()

		target := newStore()
		report, err := target.Restore(snap)

		require.NoError(t, err)
		assert.Equal(t, store.RestoreReport{Accounts: 2, Merchants: 2, Orders: 5}, report)
		assert.Equal(t, snap, target.Snapshot())
		assert.Equal(t, source.Stats(), target.Stats())

		acc, ok := target.FindAccount(1)
		require.True(t, ok)
		assert.Equal(t, "2360", acc.Balance().String())
		assert.Equal(t, []kernel.ID{1, 2, 3}, acc.History())

		m, ok := target.FindMerchant(2)
		require.True(t, ok)
		assert.False(t, m.IsOpen())
	})

	t.Run("should continue id allocation", func(t *testing.T) {
		target := newStore()
		_, err := target.Restore(busyStore(t).Snapshot())
		require.NoError(t, err)

		acc, err := target.CreateAccount("Carol", account.Contact{})
		require.NoError(t, err)
		m, err := target.CreateMerchant("Deli", "", "")
		require.NoError(t, err)
		o, err := target.CreateOrder(acc.ID(), m.ID())
		require.NoError(t, err)

		assert.Equal(t, kernel.ID(3), acc.ID())
		assert.Equal(t, kernel.ID(3), m.ID())
		assert.Equal(t, kernel.ID(6), o.ID())
	})

	t.Run("should keep paid orders payable after restore", func(t *testing.T) {
		target := newStore()
		_, err := target.Restore(busyStore(t).Snapshot())
		require.NoError(t, err)

		require.True(t, target.CancelOrder(3))

		acc, _ := target.FindAccount(1)
		assert.Equal(t, "3060", acc.Balance().String())
	})
}

func TestStore_RestoreDefaults(t *testing.T) {
	t.Run("should default missing allocators to 1", func(t *testing.T) {
		s := newStore()

		report, err := s.Restore(snapshot.Snapshot{})

		require.NoError(t, err)
		assert.Equal(t, store.RestoreReport{}, report)
		assert.Equal(t, snapshot.Allocators{Account: 1, Merchant: 1, Order: 1}, s.Snapshot().Allocators)
	})

	t.Run("should raise stale allocators above restored ids", func(t *testing.T) {
		snap := busyStore(t).Snapshot()
		snap.Allocators = snapshot.Allocators{Account: 1, Merchant: 0, Order: 2}
		s := newStore()

		_, err := s.Restore(snap)

		require.NoError(t, err)
		assert.Equal(t, snapshot.Allocators{Account: 3, Merchant: 3, Order: 6}, s.Snapshot().Allocators)
	})

	t.Run("should keep allocators ahead of restored ids", func(t *testing.T) {
		snap := busyStore(t).Snapshot()
		snap.Allocators = snapshot.Allocators{Account: 10, Merchant: 20, Order: 30}
		s := newStore()

		_, err := s.Restore(snap)

		require.NoError(t, err)
		assert.Equal(t, snap.Allocators, s.Snapshot().Allocators)
	})
}

func TestStore_RestoreDropsUnresolvedOrders(t *testing.T) {
	snap := busyStore(t).Snapshot()
	// Bob (account 2) and the sushi bar (merchant 2) disappear.
	snap.Accounts = snap.Accounts[:1]
	snap.Merchants = snap.Merchants[:1]
	snap.Allocators = snapshot.Allocators{}
	s := newStore()

	report, err := s.Restore(snap)

	require.NoError(t, err)
	assert.Equal(t, []kernel.ID{2, 4, 5}, report.DroppedOrders)
	assert.Equal(t, 2, report.Orders)

	_, ok := s.FindOrder(2)
	assert.False(t, ok)
	acc, _ := s.FindAccount(1)
	assert.Equal(t, []kernel.ID{1, 3}, acc.History())

	assert.Equal(t, kernel.ID(6), s.Snapshot().Allocators.Order, "dropped ids are never reused")
}

func TestStore_RestoreHistory(t *testing.T) {
	t.Run("should rebuild a missing history from paid orders", func(t *testing.T) {
		snap := busyStore(t).Snapshot()
		for i := range snap.Accounts {
			snap.Accounts[i].History = nil
		}
		s := newStore()

		_, err := s.Restore(snap)

		require.NoError(t, err)
		alice, _ := s.FindAccount(1)
		bob, _ := s.FindAccount(2)
		assert.Equal(t, []kernel.ID{1, 2, 3}, alice.History())
		assert.Empty(t, bob.History())
	})

	t.Run("should discard history entries of other accounts or unknown orders", func(t *testing.T) {
		snap := busyStore(t).Snapshot()
		snap.Accounts[0].History = []kernel.ID{3, 4, 3, 99, 1}
		s := newStore()

		_, err := s.Restore(snap)

		require.NoError(t, err)
		alice, _ := s.FindAccount(1)
		assert.Equal(t, []kernel.ID{3, 1}, alice.History())
	})

	t.Run("should keep an explicitly empty history", func(t *testing.T) {
		snap := busyStore(t).Snapshot()
		snap.Accounts[0].History = []kernel.ID{}
		s := newStore()

		_, err := s.Restore(snap)

		require.NoError(t, err)
		alice, _ := s.FindAccount(1)
		assert.Empty(t, alice.History())
	})
}

func TestStore_RestoreFailureLeavesStoreUntouched(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*snapshot.Snapshot)
	}{
		{"negative balance", func(s *snapshot.Snapshot) { s.Accounts[0].Balance = s.Accounts[0].Balance.Neg() }},
		{"duplicate account", func(s *snapshot.Snapshot) { s.Accounts[1].ID = s.Accounts[0].ID }},
		{"duplicate order", func(s *snapshot.Snapshot) { s.Orders[1].ID = s.Orders[0].ID }},
		{"zero item price", func(s *snapshot.Snapshot) { s.Merchants[0].Catalog[0].Price = s.Merchants[0].Catalog[0].Price.Sub(s.Merchants[0].Catalog[0].Price) }},
		{"unknown status", func(s *snapshot.Snapshot) { s.Orders[0].Status = order.Unknown }},
		{"zero quantity", func(s *snapshot.Snapshot) { s.Orders[0].Lines[0].Quantity = 0 }},
		{"lines without a total", func(s *snapshot.Snapshot) { s.Orders[0].Total = decimal.Zero }},
		{"quantity past the largest int", func(s *snapshot.Snapshot) {
			line := s.Orders[0].Lines[0]
			line.Quantity = math.MaxInt
			s.Orders[0].Lines = append(s.Orders[0].Lines, line)
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := busyStore(t)
			before := s.Snapshot()
			broken := busyStore(t).Snapshot()
			tc.mutate(&broken)

			report, err := s.Restore(broken)

			require.ErrorIs(t, err, errs.ErrPersistenceRead)
			assert.Equal(t, errs.KindPersistenceRead, errs.KindOf(err))
			assert.Equal(t, store.RestoreReport{}, report)
			assert.Equal(t, before, s.Snapshot())
		})
	}
}

func TestStore_DumpLoad(t *testing.T) {
	t.Run("should encode the current snapshot", func(t *testing.T) {
		s := busyStore(t)
		codec := &mockCodec{}
		var buf bytes.Buffer
		codec.On("Encode", &buf, s.Snapshot()).Return(nil).Once()

		require.NoError(t, s.Dump(&buf, codec))

		codec.AssertExpectations(t)
	})

	t.Run("should restore what the codec decodes", func(t *testing.T) {
		snap := busyStore(t).Snapshot()
		codec := &mockCodec{}
		r := bytes.NewReader(nil)
		codec.On("Decode", r).Return(snap, nil).Once()
		s := newStore()

		report, err := s.Load(r, codec)

		require.NoError(t, err)
		assert.Equal(t, 5, report.Orders)
		assert.Equal(t, snap, s.Snapshot())
		codec.AssertExpectations(t)
	})

	t.Run("should leave the store untouched on decode failure", func(t *testing.T) {
		s := busyStore(t)
		before := s.Snapshot()
		codec := &mockCodec{}
		readErr := errs.NewPersistenceReadError("mock", errors.New("unexpected EOF"))
		codec.On("Decode", mock.Anything).Return(snapshot.Snapshot{}, readErr).Once()

		_, err := s.Load(bytes.NewReader(nil), codec)

		require.ErrorIs(t, err, errs.ErrPersistenceRead)
		assert.Equal(t, before, s.Snapshot())
	})
}

func TestStore_SaveToLoadFrom(t *testing.T) {
	ctx := context.Background()

	t.Run("should save and load through the repository", func(t *testing.T) {
		source := busyStore(t)
		repo := &mockRepository{}
		repo.On("Save", ctx, source.Snapshot()).Return(nil).Once()
		repo.On("Load", ctx).Return(source.Snapshot(), nil).Once()

		require.NoError(t, source.SaveTo(ctx, repo))
		target := newStore()
		_, err := target.LoadFrom(ctx, repo)

		require.NoError(t, err)
		assert.Equal(t, source.Snapshot(), target.Snapshot())
		repo.AssertExpectations(t)
	})

	t.Run("should pass through a missing snapshot", func(t *testing.T) {
		repo := &mockRepository{}
		repo.On("Load", ctx).Return(snapshot.Snapshot{}, ports.ErrSnapshotNotFound).Once()
		s := busyStore(t)
		before := s.Snapshot()

		_, err := s.LoadFrom(ctx, repo)

		require.ErrorIs(t, err, ports.ErrSnapshotNotFound)
		assert.Equal(t, before, s.Snapshot())
	})
}

func TestStore_RestoreKeepsTimestamps(t *testing.T) {
	snap := busyStore(t).Snapshot()
	completedAt := fixedNow.Add(time.Hour)
	snap.Orders[0].CompletedAt = &completedAt
	s := newStore()

	_, err := s.Restore(snap)

	require.NoError(t, err)
	o, _ := s.FindOrder(1)
	assert.Equal(t, fixedNow, o.CreatedAt())
	require.NotNil(t, o.CompletedAt())
	assert.Equal(t, completedAt, *o.CompletedAt())
}

func TestStore_DumpLoadCodecs(t *testing.T) {
	testCases := []struct {
		name  string
		codec ports.Codec
	}{
		{"record", record.NewCodec()},
		{"tree", tree.NewCodec()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			source := busyStore(t)
			var buf bytes.Buffer
			require.NoError(t, source.Dump(&buf, tc.codec))

			target := newStore()
			report, err := target.Load(&buf, tc.codec)

			require.NoError(t, err)
			assert.Equal(t, store.RestoreReport{Accounts: 2, Merchants: 2, Orders: 5}, report)

			for _, want := range source.Accounts() {
				got, ok := target.FindAccount(want.ID())
				require.True(t, ok)
				assert.Equal(t, want.Name(), got.Name())
				assert.True(t, want.Balance().Equal(got.Balance()), "balance of account %d", want.ID())
				assert.Equal(t, want.History(), got.History())
			}
			for _, want := range source.Merchants() {
				got, ok := target.FindMerchant(want.ID())
				require.True(t, ok)
				assert.Equal(t, want.IsOpen(), got.IsOpen())
				assert.Equal(t, len(want.Catalog()), len(got.Catalog()))
			}
			for _, want := range source.Orders() {
				got, ok := target.FindOrder(want.ID())
				require.True(t, ok)
				assert.Equal(t, want.Status(), got.Status())
				assert.Equal(t, want.Lines(), got.Lines())
				assert.True(t, want.Total().Equal(got.Total()), "total of order %d", want.ID())
				assert.True(t, want.CreatedAt().Equal(got.CreatedAt()))
				if want.CompletedAt() == nil {
					assert.Nil(t, got.CompletedAt())
				} else {
					require.NotNil(t, got.CompletedAt())
					assert.True(t, want.CompletedAt().Equal(*got.CompletedAt()))
				}
			}

			acc, err := target.CreateAccount("Carol", account.Contact{})
			require.NoError(t, err)
			m, err := target.CreateMerchant("Deli", "", "")
			require.NoError(t, err)
			o, err := target.CreateOrder(acc.ID(), m.ID())
			require.NoError(t, err)
			assert.Equal(t, kernel.ID(3), acc.ID())
			assert.Equal(t, kernel.ID(3), m.ID())
			assert.Equal(t, kernel.ID(6), o.ID())
		})
	}
}

func TestStore_LargestQuantitySurvivesDumpLoad(t *testing.T) {
	s := newStore()
	f := populate(t, s, 0)
	o, err := s.CreateOrder(f.account, f.merchant)
	require.NoError(t, err)
	require.NoError(t, s.AddItem(o.ID(), "pepperoni", math.MaxInt))

	err = s.AddItem(o.ID(), "pepperoni", 2)

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	var buf bytes.Buffer
	require.NoError(t, s.Dump(&buf, record.NewCodec()))
	target := newStore()
	_, err = target.Load(&buf, record.NewCodec())
	require.NoError(t, err)
	restored, ok := target.FindOrder(o.ID())
	require.True(t, ok)
	assert.Equal(t, math.MaxInt, restored.Quantity("pepperoni"))
}
