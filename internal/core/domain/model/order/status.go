package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status is the order lifecycle state.
//
//	Created ──> Assigned ──> Completed
//
// Transitions are monotonic: an order is assigned once, to one courier, and
// completed once. There is no reassignment and no cancellation.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota
	Created
	Assigned
	Completed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Created:   "Created",
		Assigned:  "Assigned",
		Completed: "Completed",
	}
}

// StatusFromFlags maps the stored is_assign/is_complete pair to a Status.
// A completed but unassigned order is rejected.
func StatusFromFlags(isAssign, isComplete bool) (Status, error) {
	switch {
	case !isAssign && !isComplete:
		return Created, nil
	case isAssign && !isComplete:
		return Assigned, nil
	case isAssign && isComplete:
		return Completed, nil
	default:
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("order cannot be complete without being assigned"),
		)
	}
}

// Flags is the inverse of StatusFromFlags.
func (s Status) Flags() (isAssign, isComplete bool) {
	return s == Assigned || s == Completed, s == Completed
}

func (s Status) Validate() error {
	if s != Created && s != Assigned && s != Completed {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// ValidateCanHaveCourier checks that a courier is set exactly for Assigned and Completed orders.
func (s Status) ValidateCanHaveCourier(courier bool) error {
	if courier && s != Assigned && s != Completed {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have a courier", s.String()),
		)
	}

	if !courier && (s == Assigned || s == Completed) {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no courier", s.String()),
		)
	}

	return nil
}

// Assign transitions Created -> Assigned.
func (s Status) Assign() (Status, error) {
	if s != Created {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to assign", s.String()),
		)
	}
	return Assigned, nil
}

// Complete transitions Assigned -> Completed.
func (s Status) Complete() (Status, error) {
	if s != Assigned {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to complete", s.String()),
		)
	}
	return Completed, nil
}
