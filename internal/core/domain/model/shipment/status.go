package shipment

import (
	"fmt"

	"tracking/internal/pkg/errs"
)

// Status is the lifecycle state of a package.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota
	Created
	InTransit
	Delivered
	Cancelled
)

var statusNames = map[Status]string{
	Created:   "CREATED",
	InTransit: "IN_TRANSIT",
	Delivered: "DELIVERED",
	Cancelled: "CANCELLED",
}

// ParseStatus accepts the upper-case wire names only.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	for _, r := range transitionTable {
		if r.from == s {
			return false
		}
	}
	return true
}
