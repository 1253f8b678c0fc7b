// Package errs provides the error taxonomy of the marketplace core.
//
// Every failure is an *Error tagged with a Kind. Each Kind has a sentinel
// error so callers can use errors.Is, and KindOf returns the tag for callers
// that prefer an exhaustive switch:
//
//	switch errs.KindOf(err) {
//	case errs.KindInsufficientFunds:
//	    // report required vs available balance
//	case errs.KindMerchantClosed:
//	    // ...
//	}
//
// An *Error always carries the offending identifier (Subject and ID) and,
// where relevant, the unmet condition (Condition, Required, Available).
// The underlying cause, if any, is reachable through errors.Unwrap.
package errs
