package commands

import (
	"errors"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrAssignOrdersCommandIsNotConstructed = errors.New(
	"AssignOrdersCommand must be created via NewAssignOrdersCommand constructor",
)

// AssignOrdersCommand asks for a batch of orders for one courier.
type AssignOrdersCommand struct {
	courierID int64
	guard     guard.ConstructorGuard
}

func NewAssignOrdersCommand(courierID int64) (AssignOrdersCommand, error) {
	if courierID <= 0 {
		return AssignOrdersCommand{}, errs.NewValueIsInvalidError("courier_id")
	}

	return AssignOrdersCommand{
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c AssignOrdersCommand) Validate() error {
	return c.guard.Validate(ErrAssignOrdersCommandIsNotConstructed)
}

func (c AssignOrdersCommand) CourierID() int64 {
	return c.courierID
}
