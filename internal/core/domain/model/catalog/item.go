// Package catalog provides the catalog Item value object: a dish a merchant sells.
package catalog

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// DefaultCategory is used when an item is created without a category.
const DefaultCategory = "main"

// ErrItemIsNotConstructed is returned by Validate for a zero Item.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is immutable once built. A merchant replacing an item with the same
// name does not alter totals already captured by orders.
type Item struct {
	name        string
	price       decimal.Decimal
	description string
	category    string

	guard kernel.ConstructorGuard
}

// NewItem validates name and price. An empty category becomes DefaultCategory.
func NewItem(name string, price decimal.Decimal, description, category string) (Item, error) {
	item := Item{
		description: description,
		category:    category,
		guard:       kernel.NewConstructorGuard(),
	}
	if strings.TrimSpace(item.category) == "" {
		item.category = DefaultCategory
	}

	if err := errors.Join(
		item.setName(name),
		item.setPrice(price),
	); err != nil {
		return Item{}, err
	}

	return item, nil
}

func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}

func (i Item) Name() string {
	return i.name
}

func (i Item) Price() decimal.Decimal {
	return i.price
}

func (i Item) Description() string {
	return i.description
}

func (i Item) Category() string {
	return i.category
}

// Cost returns price × quantity.
func (i Item) Cost(quantity int) decimal.Decimal {
	return i.price.Mul(decimal.NewFromInt(int64(quantity)))
}

func (i *Item) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("item name")
	}
	i.name = name
	return nil
}

func (i *Item) setPrice(price decimal.Decimal) error {
	if err := kernel.RequirePositive("item price", price); err != nil {
		return err
	}
	i.price = price
	return nil
}
