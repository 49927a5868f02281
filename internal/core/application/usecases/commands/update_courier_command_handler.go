package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/pkg/errs"
)

// UpdateCourierCommandHandler applies a partial courier update under the courier
// row lock, so it never interleaves with an assignment or a completion of the
// same courier.
type UpdateCourierCommandHandler struct {
	uowFactory UoWFactory
}

func NewUpdateCourierCommandHandler(uowFactory UoWFactory) UpdateCourierCommandHandler {
	return UpdateCourierCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle returns the updated courier. A missing courier yields errs.ErrObjectNotFound,
// an unknown type or a region still owed a delivery yields errs.ErrValueIsInvalid.
func (h UpdateCourierCommandHandler) Handle(ctx context.Context, cmd UpdateCourierCommand) (*courier.Courier, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierRepo := uow.CourierRepository()

	aggregate, err := courierRepo.GetForUpdate(ctx, cmd.CourierID())
	if err != nil {
		return nil, err
	}

	changes := cmd.Changes()

	if changes.Type != nil {
		courierType, typeErr := uow.CourierTypeRepository().Get(ctx, *changes.Type)
		if errors.Is(typeErr, errs.ErrObjectNotFound) {
			return nil, errs.NewValueIsInvalidErrorWithCause("courier_type", typeErr)
		}
		if typeErr != nil {
			return nil, typeErr
		}
		if err = aggregate.ChangeType(courierType); err != nil {
			return nil, err
		}
	}

	if changes.Regions != nil {
		outstanding, batchErr := uow.OrderRepository().GetOutstandingByCourier(ctx, aggregate.ID())
		if batchErr != nil {
			return nil, batchErr
		}
		if err = aggregate.ReplaceRegions(*changes.Regions, outstanding); err != nil {
			return nil, err
		}
	}

	if changes.WorkingHours != nil {
		if err = aggregate.ReplaceWorkingHours(*changes.WorkingHours); err != nil {
			return nil, err
		}
	}

	if err = courierRepo.Update(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}
