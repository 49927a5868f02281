package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/pkg/errs"
)

// CreateCouriersCommandHandler persists a registration request.
//
// Every courier is checked before anything is written: an id that is already
// taken, an unknown courier type or an aggregate rule violation marks that id as
// invalid. Any invalid id rejects the whole request with errs.BatchIsInvalidError
// listing all of them.
type CreateCouriersCommandHandler struct {
	uowFactory CourierUoWFactory
}

func NewCreateCouriersCommandHandler(uowFactory CourierUoWFactory) CreateCouriersCommandHandler {
	return CreateCouriersCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle returns the ids of the created couriers in request order.
func (h CreateCouriersCommandHandler) Handle(ctx context.Context, cmd CreateCouriersCommand) ([]int64, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if len(cmd.Couriers()) == 0 {
		return []int64{}, nil
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierRepo := uow.CourierRepository()
	typeRepo := uow.CourierTypeRepository()

	existing, err := courierRepo.ExistingIDs(ctx, cmd.IDs())
	if err != nil {
		return nil, err
	}
	taken := make(map[int64]struct{}, len(existing))
	for _, id := range existing {
		taken[id] = struct{}{}
	}

	types := make(map[string]courier.Type)
	aggregates := make([]*courier.Courier, 0, len(cmd.Couriers()))
	invalid := make([]int64, 0)

	for _, data := range cmd.Couriers() {
		if _, ok := taken[data.ID]; ok {
			invalid = append(invalid, data.ID)
			continue
		}

		courierType, ok := types[data.Type]
		if !ok {
			courierType, err = typeRepo.Get(ctx, data.Type)
			if errors.Is(err, errs.ErrObjectNotFound) {
				invalid = append(invalid, data.ID)
				continue
			}
			if err != nil {
				return nil, err
			}
			types[data.Type] = courierType
		}

		aggregate, newErr := courier.NewCourier(data.ID, courierType, data.Regions, data.WorkingHours)
		if newErr != nil {
			invalid = append(invalid, data.ID)
			continue
		}
		aggregates = append(aggregates, aggregate)
	}

	if len(invalid) > 0 {
		return nil, errs.NewBatchIsInvalidError("couriers", invalid, nil)
	}

	ids := make([]int64, 0, len(aggregates))
	for _, aggregate := range aggregates {
		if err = courierRepo.Add(ctx, aggregate); err != nil {
			if errors.Is(err, errs.ErrObjectAlreadyExists) {
				return nil, errs.NewBatchIsInvalidError("couriers", []int64{aggregate.ID()}, err)
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
