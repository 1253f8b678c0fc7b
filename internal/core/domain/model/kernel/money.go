package kernel

import (
	"fmt"

	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// RequirePositive fails with a ValueIsInvalid error unless amount > 0.
func RequirePositive(paramName string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause(paramName, fmt.Errorf("%s is not greater than 0", amount))
	}
	return nil
}

// RequireNonNegative fails with a ValueIsInvalid error if amount < 0.
func RequireNonNegative(paramName string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause(paramName, fmt.Errorf("%s is negative", amount))
	}
	return nil
}
