package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// CreateOrdersCommandHandler persists an import request. Taken ids and aggregate
// rule violations reject the whole request with errs.BatchIsInvalidError.
type CreateOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewCreateOrdersCommandHandler(uowFactory OrderUoWFactory) CreateOrdersCommandHandler {
	return CreateOrdersCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle returns the ids of the created orders in request order.
func (h CreateOrdersCommandHandler) Handle(ctx context.Context, cmd CreateOrdersCommand) ([]int64, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if len(cmd.Orders()) == 0 {
		return []int64{}, nil
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	existing, err := orderRepo.ExistingIDs(ctx, cmd.IDs())
	if err != nil {
		return nil, err
	}
	taken := make(map[int64]struct{}, len(existing))
	for _, id := range existing {
		taken[id] = struct{}{}
	}

	aggregates := make([]*order.Order, 0, len(cmd.Orders()))
	invalid := make([]int64, 0)

	for _, data := range cmd.Orders() {
		if _, ok := taken[data.ID]; ok {
			invalid = append(invalid, data.ID)
			continue
		}

		aggregate, newErr := order.NewOrder(data.ID, data.Weight, data.Region, data.DeliveryHours)
		if newErr != nil {
			invalid = append(invalid, data.ID)
			continue
		}
		aggregates = append(aggregates, aggregate)
	}

	if len(invalid) > 0 {
		return nil, errs.NewBatchIsInvalidError("orders", invalid, nil)
	}

	ids := make([]int64, 0, len(aggregates))
	for _, aggregate := range aggregates {
		if err = orderRepo.Add(ctx, aggregate); err != nil {
			if errors.Is(err, errs.ErrObjectAlreadyExists) {
				return nil, errs.NewBatchIsInvalidError("orders", []int64{aggregate.ID()}, err)
			}
			return nil, err
		}
		ids = append(ids, aggregate.ID())
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return ids, nil
}
