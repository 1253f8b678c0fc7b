package order

import (
	"fmt"
	"strings"

	"marketplace/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
//	Created ──> Processing ──> Delivering ──> Completed
//	   │            │  └──────────────────────────┘
//	   │            │               │
//	   └────────────┴───────────────┴──> Cancelled
//
// Processing and Delivering orders have been paid for; cancelling them
// refunds the account.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota
	// Created orders are open for new line items and not yet paid for.
	Created
	// Processing orders have been paid for and wait for dispatch.
	Processing
	// Delivering orders are on their way to the customer.
	Delivering
	// Completed orders were delivered. The state is final.
	Completed
	// Cancelled orders were declined or called off. The state is final.
	Cancelled
)

var statusNames = map[Status]string{
	Created:    "Created",
	Processing: "Processing",
	Delivering: "Delivering",
	Completed:  "Completed",
	Cancelled:  "Cancelled",
}

// ParseStatus accepts a status name in any letter case.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// Code is the lower-case name used in persisted data and routing keys.
func (s Status) Code() string {
	return strings.ToLower(s.String())
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// IsDebited reports whether an order in this status has been paid for.
func (s Status) IsDebited() bool {
	return s == Processing || s == Delivering || s == Completed
}

// Process transitions Created -> Processing.
func (s Status) Process() (Status, error) {
	if s != Created {
		return 0, invalidTransition(s, "process")
	}
	return Processing, nil
}

// Dispatch transitions Processing -> Delivering.
func (s Status) Dispatch() (Status, error) {
	if s != Processing {
		return 0, invalidTransition(s, "dispatch")
	}
	return Delivering, nil
}

// Complete transitions Processing or Delivering -> Completed.
func (s Status) Complete() (Status, error) {
	if s != Processing && s != Delivering {
		return 0, invalidTransition(s, "complete")
	}
	return Completed, nil
}

// Cancel transitions any non-terminal status -> Cancelled.
func (s Status) Cancel() (Status, error) {
	if s != Created && s != Processing && s != Delivering {
		return 0, invalidTransition(s, "cancel")
	}
	return Cancelled, nil
}

func invalidTransition(s Status, action string) error {
	return errs.NewValueIsInvalidErrorWithCause(
		"status",
		fmt.Errorf("%s is not a valid status to %s", s, action),
	)
}
