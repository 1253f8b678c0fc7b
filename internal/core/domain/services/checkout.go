package services

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/account"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
)

// Checkout pays for orders and refunds them. Every balance change goes
// through Account.Debit or Account.Credit.
//
// Example usage:
//
//	checkout := services.NewCheckout()
//	if err := checkout.Pay(acc, o); err != nil {
//	    // o is Cancelled now; err is OrderEmpty or InsufficientFunds
//	}
type Checkout struct{}

func NewCheckout() Checkout {
	return Checkout{}
}

// Pay debits acc by the order total, moves o to Processing and records it in
// the account history.
//
// An empty order or one the account cannot afford is cancelled before the
// error is returned, so a declined order never stays in Created.
func (c Checkout) Pay(acc *account.Account, o *order.Order) error {
	if err := c.validatePair(acc, o); err != nil {
		return err
	}
	if o.Status() != order.Created {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to pay", o.Status()),
		)
	}

	if o.IsEmpty() {
		return c.decline(o, errs.NewOrderEmptyError(o.ID()))
	}

	if err := acc.Debit(o.Total()); err != nil {
		if errors.Is(err, errs.ErrInsufficientFunds) {
			return c.decline(o, err)
		}
		return err
	}

	if err := o.Process(); err != nil {
		return err
	}
	acc.RecordOrder(o.ID())
	return nil
}

// Refund cancels o and credits its total back to acc if the order had
// already been paid for. It reports whether money was returned.
func (c Checkout) Refund(acc *account.Account, o *order.Order) (bool, error) {
	if err := c.validatePair(acc, o); err != nil {
		return false, err
	}

	wasDebited, err := o.Cancel()
	if err != nil {
		return false, err
	}
	if !wasDebited || !o.Total().IsPositive() {
		return false, nil
	}

	if err := acc.Credit(o.Total()); err != nil {
		return false, err
	}
	return true, nil
}

func (c Checkout) decline(o *order.Order, reason error) error {
	if _, err := o.Cancel(); err != nil {
		return errors.Join(reason, err)
	}
	return reason
}

func (c Checkout) validatePair(acc *account.Account, o *order.Order) error {
	if err := acc.Validate(); err != nil {
		return err
	}
	if err := o.Validate(); err != nil {
		return err
	}
	if o.AccountID() != acc.ID() {
		return errs.NewValueIsInvalidErrorWithCause(
			"account",
			fmt.Errorf("order %d belongs to account %d, not %d", o.ID(), o.AccountID(), acc.ID()),
		)
	}
	return nil
}
