package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"
)

// CompleteOrderCommandHandler records a delivery. The order, the region ledger,
// the courier milestone and, for the last order of a batch, the payment are all
// written in one transaction under the courier row lock.
type CompleteOrderCommandHandler struct {
	uowFactory UoWFactory
	accountant services.CompletionAccountant
}

func NewCompleteOrderCommandHandler(uowFactory UoWFactory) CompleteOrderCommandHandler {
	return CompleteOrderCommandHandler{
		uowFactory: uowFactory,
		accountant: services.NewCompletionAccountant(),
	}
}

// Handle returns the id of the completed order. Unknown couriers and orders are
// reported as errs.ErrValueIsInvalid since both ids come from the request body.
func (h CompleteOrderCommandHandler) Handle(ctx context.Context, cmd CompleteOrderCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierRepo := uow.CourierRepository()
	orderRepo := uow.OrderRepository()

	aggregate, err := courierRepo.GetForUpdate(ctx, cmd.CourierID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return 0, errs.NewValueIsInvalidErrorWithCause("courier_id", err)
	}
	if err != nil {
		return 0, err
	}

	delivered, err := orderRepo.Get(ctx, cmd.OrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return 0, errs.NewValueIsInvalidErrorWithCause("order_id", err)
	}
	if err != nil {
		return 0, err
	}

	if delivered.IsCompleted() && delivered.BelongsTo(aggregate.ID()) {
		return delivered.ID(), nil
	}

	outstanding, err := orderRepo.GetOutstandingByCourier(ctx, aggregate.ID())
	if err != nil {
		return 0, err
	}

	if _, err = h.accountant.Complete(aggregate, delivered, outstanding, cmd.CompleteTime()); err != nil {
		return 0, err
	}

	if err = orderRepo.Update(ctx, delivered); err != nil {
		return 0, err
	}
	if err = courierRepo.Update(ctx, aggregate); err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return delivered.ID(), nil
}
