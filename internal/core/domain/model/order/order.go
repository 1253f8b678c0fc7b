package order

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"time"

	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrOrderIsNotConstructed is returned when an Order was not created through
// NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// Line is one catalog item name with its quantity.
type Line struct {
	Name     string
	Quantity int
}

// Order binds one account and one merchant by handle and accumulates line items.
//
// Order follows these invariants:
//   - account and merchant handles are valid
//   - every line quantity is positive and names are unique
//   - total only grows, by item price × quantity at the moment of AddItem
//   - completedAt is set only on the transition into Completed
type Order struct {
	id         kernel.ID
	accountID  kernel.ID
	merchantID kernel.ID

	// lines keeps first-insertion order; index maps a name to its line.
	lines []Line
	index map[string]int

	total       decimal.Decimal
	status      Status
	createdAt   time.Time
	completedAt *time.Time

	guard kernel.ConstructorGuard
}

// NewOrder creates an empty order in Created status.
func NewOrder(id, accountID, merchantID kernel.ID, createdAt time.Time) (*Order, error) {
	return RestoreOrder(id, accountID, merchantID, nil, decimal.Zero, Created, createdAt, nil)
}

// RestoreOrder rebuilds an order from persisted state. Lines with the same
// name are merged.
func RestoreOrder(
	id, accountID, merchantID kernel.ID,
	lines []Line,
	total decimal.Decimal,
	status Status,
	createdAt time.Time,
	completedAt *time.Time,
) (*Order, error) {
	o := &Order{
		index:     make(map[string]int, len(lines)),
		createdAt: createdAt,
		guard:     kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setAccountID(accountID),
		o.setMerchantID(merchantID),
		o.setTotal(total),
		o.setStatus(status),
		o.setLines(lines),
	); err != nil {
		return nil, err
	}
	if !o.IsEmpty() && !o.total.IsPositive() {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"total",
			fmt.Errorf("%s is not greater than 0 for an order with line items", o.total),
		)
	}

	if completedAt != nil && o.status == Completed {
		at := *completedAt
		o.completedAt = &at
	}

	return o, nil
}

func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

func (o *Order) ID() kernel.ID {
	return o.id
}

func (o *Order) AccountID() kernel.ID {
	return o.accountID
}

func (o *Order) MerchantID() kernel.ID {
	return o.merchantID
}

// Lines returns a copy of the line items in first-insertion order.
func (o *Order) Lines() []Line {
	lines := make([]Line, len(o.lines))
	copy(lines, o.lines)
	return lines
}

// Quantity returns the quantity ordered of the named item.
func (o *Order) Quantity(name string) int {
	if i, ok := o.index[name]; ok {
		return o.lines[i].Quantity
	}
	return 0
}

func (o *Order) IsEmpty() bool {
	return len(o.lines) == 0
}

func (o *Order) Total() decimal.Decimal {
	return o.total
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// CompletedAt is nil unless the order is Completed.
func (o *Order) CompletedAt() *time.Time {
	if o.completedAt == nil {
		return nil
	}
	at := *o.completedAt
	return &at
}

// AddItem merges quantity of item into the order and grows the total by the
// item's current price. The caller is responsible for taking item from the
// order's own merchant.
func (o *Order) AddItem(item catalog.Item, quantity int) error {
	if err := item.Validate(); err != nil {
		return err
	}
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	if o.status != Created {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to add items", o.status),
		)
	}

	if err := o.checkMerge(item.Name(), quantity); err != nil {
		return err
	}

	o.addLine(item.Name(), quantity)
	o.total = o.total.Add(item.Cost(quantity))
	return nil
}

// Process marks a paid order as Processing.
func (o *Order) Process() error {
	newStatus, err := o.status.Process()
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}

// Dispatch hands a Processing order over for delivery.
func (o *Order) Dispatch() error {
	newStatus, err := o.status.Dispatch()
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}

// Complete marks the order Completed at the given time.
func (o *Order) Complete(at time.Time) error {
	newStatus, err := o.status.Complete()
	if err != nil {
		return err
	}
	o.status = newStatus
	o.completedAt = &at
	return nil
}

// Cancel moves the order to Cancelled. wasDebited reports whether the order
// had been paid for, so the caller knows to refund the total.
func (o *Order) Cancel() (wasDebited bool, err error) {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return false, err
	}
	wasDebited = o.status.IsDebited()
	o.status = newStatus
	return wasDebited, nil
}

// checkMerge rejects a quantity that would push the line for name past
// math.MaxInt.
func (o *Order) checkMerge(name string, quantity int) error {
	if current := o.Quantity(name); current > math.MaxInt-quantity {
		return errs.NewValueIsInvalidErrorWithCause(
			"quantity",
			fmt.Errorf("%d more of %q exceeds the largest quantity (already %d)", quantity, name, current),
		)
	}
	return nil
}

func (o *Order) addLine(name string, quantity int) {
	if i, ok := o.index[name]; ok {
		o.lines[i].Quantity += quantity
		return
	}
	o.index[name] = len(o.lines)
	o.lines = append(o.lines, Line{Name: name, Quantity: quantity})
}

func (o *Order) setID(id kernel.ID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setAccountID(id kernel.ID) error {
	if id <= kernel.NoID {
		return errs.NewValueIsRequiredError("account id")
	}
	o.accountID = id
	return nil
}

func (o *Order) setMerchantID(id kernel.ID) error {
	if id <= kernel.NoID {
		return errs.NewValueIsRequiredError("merchant id")
	}
	o.merchantID = id
	return nil
}

func (o *Order) setTotal(total decimal.Decimal) error {
	if err := kernel.RequireNonNegative("total", total); err != nil {
		return err
	}
	o.total = total
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setLines(lines []Line) error {
	for _, line := range lines {
		if line.Name == "" {
			return errs.NewValueIsRequiredError("line item name")
		}
		if line.Quantity <= 0 {
			return errs.NewValueIsInvalidErrorWithCause(
				"quantity",
				fmt.Errorf("%d of %q is not greater than 0", line.Quantity, line.Name),
			)
		}
		if err := o.checkMerge(line.Name, line.Quantity); err != nil {
			return err
		}
		o.addLine(line.Name, line.Quantity)
	}
	return nil
}

// Clone returns an independent copy. Changes to the copy do not reach o.
func (o *Order) Clone() *Order {
	c := *o
	c.lines = slices.Clone(o.lines)
	c.index = maps.Clone(o.index)
	c.completedAt = o.CompletedAt()
	return &c
}
