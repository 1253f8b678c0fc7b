package kernel

import (
	"fmt"
	"strconv"

	"marketplace/internal/pkg/errs"
)

// ID is a positive integer handle. The zero value is not a valid handle.
type ID int64

// NoID is returned by lookups that found nothing.
const NoID ID = 0

// Validate fails for non-positive handles.
func (id ID) Validate() error {
	if id <= NoID {
		return errs.NewValueIsInvalidErrorWithCause("id", fmt.Errorf("%d is not greater than 0", int64(id)))
	}
	return nil
}

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}
