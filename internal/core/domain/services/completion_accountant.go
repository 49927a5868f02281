package services

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

var (
	ErrOrderIsNotOwned      = errors.New("order is assigned to another courier")
	ErrOrderIsNotAssigned   = errors.New("order is not assigned")
	ErrCompletionIsTooEarly = errors.New("complete time is not after the previous milestone")
)

// CompletionAccountant records a delivery against the courier that made it.
//
// Deliveries of a batch are sequential: the first one is measured from the batch
// assign time, every following one from the previous completion. When the last
// outstanding order of the batch is delivered the courier is paid and the
// milestone is cleared.
type CompletionAccountant struct{}

func NewCompletionAccountant() CompletionAccountant {
	return CompletionAccountant{}
}

// Complete mutates c and o in memory. outstanding is the courier's active batch as
// loaded before the call; o may be part of it. The returned flag reports whether
// the batch was closed.
//
// Completing an order that is already completed is a no-op.
func (a CompletionAccountant) Complete(
	c *courier.Courier,
	o *order.Order,
	outstanding []*order.Order,
	completeTime time.Time,
) (bool, error) {
	if err := errors.Join(c.Validate(), o.Validate()); err != nil {
		return false, err
	}

	if !o.BelongsTo(c.ID()) {
		return false, errs.NewValueIsInvalidErrorWithCause("order_id",
			fmt.Errorf("%w: order %d, courier %d", ErrOrderIsNotOwned, o.ID(), c.ID()))
	}

	if o.IsCompleted() {
		return false, nil
	}

	if !o.IsOutstanding() {
		return false, errs.NewValueIsInvalidErrorWithCause("order_id",
			fmt.Errorf("%w: order %d", ErrOrderIsNotAssigned, o.ID()))
	}

	milestone, err := c.Milestone(o)
	if err != nil {
		return false, err
	}

	if !completeTime.After(milestone) {
		return false, errs.NewValueIsInvalidErrorWithCause("complete_time",
			fmt.Errorf("%w: %s is not after %s", ErrCompletionIsTooEarly,
				completeTime.Format(time.RFC3339Nano), milestone.Format(time.RFC3339Nano)))
	}

	if err = o.Complete(); err != nil {
		return false, err
	}

	if err = c.RecordDelivery(o.Region(), completeTime, completeTime.Sub(milestone)); err != nil {
		return false, err
	}

	for _, other := range outstanding {
		if !other.IsEqual(o) && other.IsOutstanding() {
			return false, nil
		}
	}

	c.CloseBatch()
	return true, nil
}
