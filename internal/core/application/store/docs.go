// Package store provides the Entity Store: the owner of every Account,
// Merchant and Order in the marketplace.
//
// Entities live in insertion-ordered arenas indexed by kernel.ID. Each arena
// allocates its own ids, which grow monotonically, are never reused and
// survive a snapshot round trip. Orders refer to their account and merchant
// by id only.
//
// Every operation takes one store-wide lock, so payment runs as a single
// atomic step and a restore is never observed half applied. Entities returned
// by Find methods are owned by the store and must be changed only through
// Store methods.
//
// Example:
//
//	s := store.New(store.WithLogger(logger))
//	acc, _ := s.CreateAccount("Alice", account.Contact{Email: "alice@example.com"})
//	_ = s.Deposit(acc.ID(), decimal.NewFromInt(2000))
//	m, _ := s.CreateMerchant("Pizza Hut", "Main St 1", "")
//	item, _ := catalog.NewItem("pepperoni", decimal.NewFromInt(550), "", "")
//	_ = s.AddCatalogItem(m.ID(), item)
//	o, _ := s.CreateOrder(acc.ID(), m.ID())
//	_ = s.AddItem(o.ID(), "pepperoni", 2)
//	if _, err := s.ProcessOrder(o.ID()); err != nil {
//	    // the order is Cancelled; err is OrderEmpty or InsufficientFunds
//	}
package store
