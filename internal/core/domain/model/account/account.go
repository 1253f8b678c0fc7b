// Package account provides the Account entity: a marketplace customer with a
// balance that can never go negative and a history of paid orders.
package account

import (
	"errors"
	"slices"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrAccountIsNotConstructed is returned by Validate for an Account not built by
// NewAccount or RestoreAccount.
var ErrAccountIsNotConstructed = errors.New("Account must be created via NewAccount constructor")

// Contact holds the ways to reach an account owner. Both fields are optional.
type Contact struct {
	Email string
	Phone string
}

// Account is the only place where money leaves a customer: every debit goes
// through Debit, which refuses to drive the balance below zero.
type Account struct {
	id      kernel.ID
	name    string
	contact Contact
	balance decimal.Decimal

	// history lists the orders this account paid for, oldest first.
	history []kernel.ID

	guard kernel.ConstructorGuard
}

// NewAccount creates an account with a zero balance and an empty history.
func NewAccount(id kernel.ID, name string, contact Contact) (*Account, error) {
	return RestoreAccount(id, name, contact, decimal.Zero, nil)
}

// RestoreAccount rebuilds an account from persisted state.
func RestoreAccount(
	id kernel.ID,
	name string,
	contact Contact,
	balance decimal.Decimal,
	history []kernel.ID,
) (*Account, error) {
	a := &Account{
		contact: contact,
		history: slices.Clone(history),
		guard:   kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setID(id),
		a.setName(name),
		a.setBalance(balance),
	); err != nil {
		return nil, err
	}

	return a, nil
}

func (a *Account) Validate() error {
	if a == nil {
		return ErrAccountIsNotConstructed
	}
	return a.guard.Validate(ErrAccountIsNotConstructed)
}

func (a *Account) ID() kernel.ID {
	return a.id
}

func (a *Account) Name() string {
	return a.name
}

func (a *Account) Contact() Contact {
	return a.contact
}

func (a *Account) Balance() decimal.Decimal {
	return a.balance
}

// History returns a copy of the paid order handles, oldest first.
func (a *Account) History() []kernel.ID {
	return slices.Clone(a.history)
}

// Credit adds a positive amount to the balance.
func (a *Account) Credit(amount decimal.Decimal) error {
	if err := kernel.RequirePositive("credit amount", amount); err != nil {
		return err
	}
	a.balance = a.balance.Add(amount)
	return nil
}

// Debit subtracts a positive amount, failing with InsufficientFunds when the
// amount exceeds the balance. The balance is unchanged on failure.
func (a *Account) Debit(amount decimal.Decimal) error {
	if err := kernel.RequirePositive("debit amount", amount); err != nil {
		return err
	}
	if amount.GreaterThan(a.balance) {
		return errs.NewInsufficientFundsError(a.id, amount, a.balance)
	}
	a.balance = a.balance.Sub(amount)
	return nil
}

// CanAfford reports whether a debit of amount would succeed.
func (a *Account) CanAfford(amount decimal.Decimal) bool {
	return !amount.GreaterThan(a.balance)
}

// RecordOrder appends a paid order to the history.
func (a *Account) RecordOrder(orderID kernel.ID) {
	a.history = append(a.history, orderID)
}

func (a *Account) setID(id kernel.ID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *Account) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("account name")
	}
	a.name = name
	return nil
}

func (a *Account) setBalance(balance decimal.Decimal) error {
	if err := kernel.RequireNonNegative("balance", balance); err != nil {
		return err
	}
	a.balance = balance
	return nil
}

// Clone returns an independent copy. Changes to the copy do not reach a.
func (a *Account) Clone() *Account {
	c := *a
	c.history = slices.Clone(a.history)
	return &c
}
