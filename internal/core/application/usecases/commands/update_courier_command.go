package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrUpdateCourierCommandIsNotConstructed = errors.New(
	"UpdateCourierCommand must be created via NewUpdateCourierCommand constructor",
)

// CourierChanges lists the courier attributes to replace. Nil fields stay as they are.
type CourierChanges struct {
	Type         *string
	Regions      *[]int
	WorkingHours *[]kernel.TimeInterval
}

func (c CourierChanges) isEmpty() bool {
	return c.Type == nil && c.Regions == nil && c.WorkingHours == nil
}

// UpdateCourierCommand replaces some of a courier's attributes.
type UpdateCourierCommand struct {
	courierID int64
	changes   CourierChanges
	guard     guard.ConstructorGuard
}

func NewUpdateCourierCommand(courierID int64, changes CourierChanges) (UpdateCourierCommand, error) {
	if courierID <= 0 {
		return UpdateCourierCommand{}, errs.NewValueIsInvalidError("courier_id")
	}
	if changes.isEmpty() {
		return UpdateCourierCommand{}, errs.NewValueIsRequiredError("courier_type, regions or working_hours")
	}

	return UpdateCourierCommand{
		courierID: courierID,
		changes:   changes,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateCourierCommand) Validate() error {
	return c.guard.Validate(ErrUpdateCourierCommandIsNotConstructed)
}

func (c UpdateCourierCommand) CourierID() int64 {
	return c.courierID
}

func (c UpdateCourierCommand) Changes() CourierChanges {
	return c.changes
}
