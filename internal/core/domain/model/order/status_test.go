package order_test

import (
	"fmt"
	"testing"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []order.Status{
	order.Created,
	order.Processing,
	order.Delivering,
	order.Completed,
	order.Cancelled,
}

func TestStatus_Constants(t *testing.T) {
	assert.Equal(t, 0, int(order.Unknown))
	assert.Equal(t, 1, int(order.Created))
	assert.Equal(t, 2, int(order.Processing))
	assert.Equal(t, 3, int(order.Delivering))
	assert.Equal(t, 4, int(order.Completed))
	assert.Equal(t, 5, int(order.Cancelled))
}

func TestStatus_Validate(t *testing.T) {
	t.Run("should validate known statuses", func(t *testing.T) {
		for _, status := range allStatuses {
			require.NoError(t, status.Validate(), status.String())
		}
	})

	t.Run("should reject unknown values", func(t *testing.T) {
		for _, status := range []order.Status{order.Unknown, order.Status(-1), order.Status(6)} {
			err := status.Validate()

			require.ErrorIs(t, err, errs.ErrValueIsInvalid)
			assert.Contains(t, err.Error(), fmt.Sprintf("%d is not a valid status", int(status)))
		}
	})
}

func TestStatus_StringAndCode(t *testing.T) {
	testCases := []struct {
		status order.Status
		name   string
		code   string
	}{
		{order.Created, "Created", "created"},
		{order.Processing, "Processing", "processing"},
		{order.Delivering, "Delivering", "delivering"},
		{order.Completed, "Completed", "completed"},
		{order.Cancelled, "Cancelled", "cancelled"},
		{order.Unknown, "Unknown", "unknown"},
		{order.Status(99), "Unknown", "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.name, tc.status.String())
			assert.Equal(t, tc.code, tc.status.Code())
		})
	}
}

func TestParseStatus(t *testing.T) {
	t.Run("should parse codes and names", func(t *testing.T) {
		for _, status := range allStatuses {
			parsed, err := order.ParseStatus(status.Code())
			require.NoError(t, err)
			assert.Equal(t, status, parsed)

			parsed, err = order.ParseStatus(status.String())
			require.NoError(t, err)
			assert.Equal(t, status, parsed)
		}
	})

	t.Run("should reject unknown names", func(t *testing.T) {
		for _, s := range []string{"", "unknown", "shipped"} {
			status, err := order.ParseStatus(s)

			require.ErrorIs(t, err, errs.ErrValueIsInvalid)
			assert.Equal(t, order.Unknown, status)
		}
	})
}

func TestStatus_Predicates(t *testing.T) {
	terminal := map[order.Status]bool{order.Completed: true, order.Cancelled: true}
	debited := map[order.Status]bool{order.Processing: true, order.Delivering: true, order.Completed: true}

	for _, status := range allStatuses {
		t.Run(status.String(), func(t *testing.T) {
			assert.Equal(t, terminal[status], status.IsTerminal())
			assert.Equal(t, debited[status], status.IsDebited())
		})
	}
}

func TestStatus_Transitions(t *testing.T) {
	type transition func(order.Status) (order.Status, error)

	testCases := []struct {
		action  string
		apply   transition
		allowed map[order.Status]order.Status
	}{
		{
			action:  "process",
			apply:   order.Status.Process,
			allowed: map[order.Status]order.Status{order.Created: order.Processing},
		},
		{
			action:  "dispatch",
			apply:   order.Status.Dispatch,
			allowed: map[order.Status]order.Status{order.Processing: order.Delivering},
		},
		{
			action: "complete",
			apply:  order.Status.Complete,
			allowed: map[order.Status]order.Status{
				order.Processing: order.Completed,
				order.Delivering: order.Completed,
			},
		},
		{
			action: "cancel",
			apply:  order.Status.Cancel,
			allowed: map[order.Status]order.Status{
				order.Created:    order.Cancelled,
				order.Processing: order.Cancelled,
				order.Delivering: order.Cancelled,
			},
		},
	}

	for _, tc := range testCases {
		for _, from := range append([]order.Status{order.Unknown}, allStatuses...) {
			t.Run(fmt.Sprintf("%s from %s", tc.action, from), func(t *testing.T) {
				to, err := tc.apply(from)

				if expected, ok := tc.allowed[from]; ok {
					require.NoError(t, err)
					assert.Equal(t, expected, to)
					return
				}

				require.ErrorIs(t, err, errs.ErrValueIsInvalid)
				assert.Equal(t, order.Status(0), to)
				assert.Contains(t, err.Error(), fmt.Sprintf("%s is not a valid status to %s", from, tc.action))
			})
		}
	}
}
