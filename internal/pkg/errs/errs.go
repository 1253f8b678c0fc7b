package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Kind tags an *Error with the condition that failed.
type Kind int

const (
	KindUnknown Kind = iota
	KindAccountNotFound
	KindMerchantNotFound
	KindOrderNotFound
	KindItemNotFound
	KindMerchantClosed
	KindInsufficientFunds
	KindOrderEmpty
	KindPersistenceRead
	KindPersistenceWrite
	KindValueIsInvalid
	KindValueIsRequired
)

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrMerchantNotFound  = errors.New("merchant not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrItemNotFound      = errors.New("item not found")
	ErrMerchantClosed    = errors.New("merchant is closed")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrOrderEmpty        = errors.New("order is empty")
	ErrPersistenceRead   = errors.New("persistence read failure")
	ErrPersistenceWrite  = errors.New("persistence write failure")
	ErrValueIsInvalid    = errors.New("value is invalid")
	ErrValueIsRequired   = errors.New("value is required")
	ErrUnknown           = errors.New("unknown error")
)

func (k Kind) sentinel() error {
	switch k {
	case KindAccountNotFound:
		return ErrAccountNotFound
	case KindMerchantNotFound:
		return ErrMerchantNotFound
	case KindOrderNotFound:
		return ErrOrderNotFound
	case KindItemNotFound:
		return ErrItemNotFound
	case KindMerchantClosed:
		return ErrMerchantClosed
	case KindInsufficientFunds:
		return ErrInsufficientFunds
	case KindOrderEmpty:
		return ErrOrderEmpty
	case KindPersistenceRead:
		return ErrPersistenceRead
	case KindPersistenceWrite:
		return ErrPersistenceWrite
	case KindValueIsInvalid:
		return ErrValueIsInvalid
	case KindValueIsRequired:
		return ErrValueIsRequired
	case KindUnknown:
		return ErrUnknown
	}
	return ErrUnknown
}

// String returns the sentinel message of the kind.
func (k Kind) String() string {
	return k.sentinel().Error()
}

// Error is the single error type of the core. Fields that do not apply to
// a kind are left zero.
type Error struct {
	Kind Kind

	// Subject names what ID identifies: "account", "order", a file path, ...
	Subject string
	ID      any

	// Condition describes the unmet condition in words.
	Condition string

	// Required and Available are set for money conditions.
	Required  any
	Available any

	Cause error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())

	switch {
	case e.Subject != "" && e.ID != nil:
		fmt.Fprintf(&b, ": %s %v", e.Subject, e.ID)
	case e.Subject != "":
		fmt.Fprintf(&b, ": %s", e.Subject)
	case e.ID != nil:
		fmt.Fprintf(&b, ": %v", e.ID)
	}

	if e.Condition != "" {
		fmt.Fprintf(&b, " (%s)", e.Condition)
	}
	if e.Required != nil || e.Available != nil {
		fmt.Fprintf(&b, " (required %v, available %v)", e.Required, e.Available)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, " (cause: %s)", e.Cause.Error())
	}

	return sanitize(b.String())
}

// Is reports whether target is the sentinel of e's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func NewAccountNotFoundError(id any) *Error {
	return &Error{Kind: KindAccountNotFound, Subject: "account", ID: id}
}

func NewMerchantNotFoundError(id any) *Error {
	return &Error{Kind: KindMerchantNotFound, Subject: "merchant", ID: id}
}

func NewOrderNotFoundError(id any) *Error {
	return &Error{Kind: KindOrderNotFound, Subject: "order", ID: id}
}

func NewItemNotFoundError(merchantID any, name string) *Error {
	return &Error{
		Kind:      KindItemNotFound,
		Subject:   "merchant",
		ID:        merchantID,
		Condition: fmt.Sprintf("no catalog item %q", name),
	}
}

func NewMerchantClosedError(merchantID any, name string) *Error {
	return &Error{
		Kind:      KindMerchantClosed,
		Subject:   "merchant",
		ID:        merchantID,
		Condition: fmt.Sprintf("%q is not accepting orders", name),
	}
}

func NewInsufficientFundsError(accountID, required, available any) *Error {
	return &Error{
		Kind:      KindInsufficientFunds,
		Subject:   "account",
		ID:        accountID,
		Required:  required,
		Available: available,
	}
}

func NewOrderEmptyError(orderID any) *Error {
	return &Error{
		Kind:      KindOrderEmpty,
		Subject:   "order",
		ID:        orderID,
		Condition: "no line items",
	}
}

func NewPersistenceReadError(source string, cause error) *Error {
	return &Error{Kind: KindPersistenceRead, Subject: source, Cause: cause}
}

func NewPersistenceWriteError(target string, cause error) *Error {
	return &Error{Kind: KindPersistenceWrite, Subject: target, Cause: cause}
}

func NewValueIsInvalidError(paramName string) *Error {
	return &Error{Kind: KindValueIsInvalid, Subject: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *Error {
	return &Error{Kind: KindValueIsInvalid, Subject: paramName, Cause: cause}
}

func NewValueIsRequiredError(paramName string) *Error {
	return &Error{Kind: KindValueIsRequired, Subject: paramName}
}

func sanitize(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}
