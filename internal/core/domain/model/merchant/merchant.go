// Package merchant provides the Merchant entity and its catalog of items keyed by name.
package merchant

import (
	"errors"
	"maps"
	"slices"
	"strings"

	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// ErrMerchantIsNotConstructed is returned by Validate for a Merchant not built
// by NewMerchant or RestoreMerchant.
var ErrMerchantIsNotConstructed = errors.New("Merchant must be created via NewMerchant constructor")

// Merchant owns a catalog. The open flag is consulted only when an order is
// created; closing a merchant does not affect existing orders.
type Merchant struct {
	id      kernel.ID
	name    string
	address string
	phone   string
	open    bool

	// catalog is keyed by item name; names keeps first-insertion order so
	// the catalog serializes deterministically.
	catalog map[string]catalog.Item
	names   []string

	guard kernel.ConstructorGuard
}

// NewMerchant creates an open merchant with an empty catalog.
func NewMerchant(id kernel.ID, name, address, phone string) (*Merchant, error) {
	return RestoreMerchant(id, name, address, phone, true, nil)
}

// RestoreMerchant rebuilds a merchant from persisted state. Later items
// replace earlier ones with the same name.
func RestoreMerchant(
	id kernel.ID,
	name, address, phone string,
	open bool,
	items []catalog.Item,
) (*Merchant, error) {
	m := &Merchant{
		address: address,
		phone:   phone,
		open:    open,
		catalog: make(map[string]catalog.Item, len(items)),
		guard:   kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		m.setID(id),
		m.setName(name),
	); err != nil {
		return nil, err
	}

	for _, item := range items {
		if err := m.AddItem(item); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Merchant) Validate() error {
	if m == nil {
		return ErrMerchantIsNotConstructed
	}
	return m.guard.Validate(ErrMerchantIsNotConstructed)
}

func (m *Merchant) ID() kernel.ID {
	return m.id
}

func (m *Merchant) Name() string {
	return m.name
}

func (m *Merchant) Address() string {
	return m.address
}

func (m *Merchant) Phone() string {
	return m.phone
}

func (m *Merchant) IsOpen() bool {
	return m.open
}

// AddItem inserts the item or replaces the one with the same name.
func (m *Merchant) AddItem(item catalog.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}
	if _, ok := m.catalog[item.Name()]; !ok {
		m.names = append(m.names, item.Name())
	}
	m.catalog[item.Name()] = item
	return nil
}

// FindItem looks an item up by name.
func (m *Merchant) FindItem(name string) (catalog.Item, bool) {
	item, ok := m.catalog[name]
	return item, ok
}

// Catalog returns the items in first-insertion order.
func (m *Merchant) Catalog() []catalog.Item {
	items := make([]catalog.Item, 0, len(m.names))
	for _, name := range m.names {
		items = append(items, m.catalog[name])
	}
	return items
}

// ToggleOpen flips the open flag and returns the new value.
func (m *Merchant) ToggleOpen() bool {
	m.open = !m.open
	return m.open
}

func (m *Merchant) setID(id kernel.ID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	m.id = id
	return nil
}

func (m *Merchant) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("merchant name")
	}
	m.name = name
	return nil
}

// Clone returns an independent copy. Changes to the copy do not reach m.
func (m *Merchant) Clone() *Merchant {
	c := *m
	c.catalog = maps.Clone(m.catalog)
	c.names = slices.Clone(m.names)
	return &c
}
