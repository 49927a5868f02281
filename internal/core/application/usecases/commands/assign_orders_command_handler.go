package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
)

// AssignOrdersResult is the courier's active batch. AssignTime is nil when the
// batch is empty.
type AssignOrdersResult struct {
	OrderIDs   []int64
	AssignTime *time.Time
}

// AssignOrdersCommandHandler hands a courier its batch.
//
// The courier row is locked first. If the courier still has outstanding orders
// the existing batch is returned untouched, which makes repeated calls
// idempotent. Otherwise a new batch is dispatched from the unassigned orders and
// every accepted order is claimed with a conditional write; orders another
// courier claimed first are silently dropped.
type AssignOrdersCommandHandler struct {
	uowFactory UoWFactory
	dispatcher services.BatchDispatcher
	clock      func() time.Time
}

// NewAssignOrdersCommandHandler uses time.Now when clock is nil.
func NewAssignOrdersCommandHandler(uowFactory UoWFactory, clock func() time.Time) AssignOrdersCommandHandler {
	if clock == nil {
		clock = time.Now
	}
	return AssignOrdersCommandHandler{
		uowFactory: uowFactory,
		dispatcher: services.NewBatchDispatcher(),
		clock:      clock,
	}
}

func (h AssignOrdersCommandHandler) Handle(ctx context.Context, cmd AssignOrdersCommand) (AssignOrdersResult, error) {
	if err := cmd.Validate(); err != nil {
		return AssignOrdersResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return AssignOrdersResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierRepo := uow.CourierRepository()
	orderRepo := uow.OrderRepository()

	aggregate, err := courierRepo.GetForUpdate(ctx, cmd.CourierID())
	if err != nil {
		return AssignOrdersResult{}, err
	}

	outstanding, err := orderRepo.GetOutstandingByCourier(ctx, aggregate.ID())
	if err != nil {
		return AssignOrdersResult{}, err
	}
	if len(outstanding) > 0 {
		return newAssignOrdersResult(outstanding), nil
	}

	candidates, err := orderRepo.GetAllUnassigned(ctx)
	if err != nil {
		return AssignOrdersResult{}, err
	}

	// Stored timestamps keep microseconds; truncating here keeps the first
	// response equal to every repeated one.
	assignTime := h.clock().UTC().Truncate(time.Microsecond)

	batch, err := h.dispatcher.Dispatch(aggregate, candidates, assignTime, func(o *order.Order) error {
		return orderRepo.Claim(ctx, o)
	})
	if err != nil {
		return AssignOrdersResult{}, err
	}
	if len(batch) == 0 {
		return newAssignOrdersResult(batch), nil
	}

	if err = uow.Commit(ctx); err != nil {
		return AssignOrdersResult{}, err
	}

	return newAssignOrdersResult(batch), nil
}

func newAssignOrdersResult(batch []*order.Order) AssignOrdersResult {
	result := AssignOrdersResult{OrderIDs: make([]int64, 0, len(batch))}
	for _, o := range batch {
		result.OrderIDs = append(result.OrderIDs, o.ID())
		if result.AssignTime == nil {
			result.AssignTime = o.AssignTime()
		}
	}
	return result
}
