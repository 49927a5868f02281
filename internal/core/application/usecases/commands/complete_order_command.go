package commands

import (
	"errors"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrCompleteOrderCommandIsNotConstructed = errors.New(
	"CompleteOrderCommand must be created via NewCompleteOrderCommand constructor",
)

// CompleteOrderCommand reports that a courier delivered an order at completeTime.
// The time is kept in UTC at the microsecond resolution of the store.
type CompleteOrderCommand struct {
	courierID    int64
	orderID      int64
	completeTime time.Time
	guard        guard.ConstructorGuard
}

func NewCompleteOrderCommand(courierID, orderID int64, completeTime time.Time) (CompleteOrderCommand, error) {
	if courierID <= 0 {
		return CompleteOrderCommand{}, errs.NewValueIsInvalidError("courier_id")
	}
	if orderID <= 0 {
		return CompleteOrderCommand{}, errs.NewValueIsInvalidError("order_id")
	}
	if completeTime.IsZero() {
		return CompleteOrderCommand{}, errs.NewValueIsRequiredError("complete_time")
	}

	return CompleteOrderCommand{
		courierID:    courierID,
		orderID:      orderID,
		completeTime: completeTime.UTC().Truncate(time.Microsecond),
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c CompleteOrderCommand) Validate() error {
	return c.guard.Validate(ErrCompleteOrderCommandIsNotConstructed)
}

func (c CompleteOrderCommand) CourierID() int64 {
	return c.courierID
}

func (c CompleteOrderCommand) OrderID() int64 {
	return c.orderID
}

func (c CompleteOrderCommand) CompleteTime() time.Time {
	return c.completeTime
}
