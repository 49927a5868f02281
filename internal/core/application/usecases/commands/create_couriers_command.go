package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrCreateCouriersCommandIsNotConstructed = errors.New(
	"CreateCouriersCommand must be created via NewCreateCouriersCommand constructor",
)

// NewCourierData is one courier of a registration request, already parsed by the transport.
type NewCourierData struct {
	ID           int64
	Type         string
	Regions      []int
	WorkingHours []kernel.TimeInterval
}

// CreateCouriersCommand registers a set of couriers at once. The set is
// accepted or rejected as a whole.
//
// Example:
//
//	hours, _ := kernel.ParseTimeIntervals([]string{"11:35-14:05", "09:00-11:00"})
//	cmd, err := NewCreateCouriersCommand([]NewCourierData{
//	    {ID: 1, Type: "foot", Regions: []int{1, 12, 22}, WorkingHours: hours},
//	})
//	ids, err := handler.Handle(ctx, cmd)
type CreateCouriersCommand struct {
	couriers []NewCourierData
	guard    guard.ConstructorGuard
}

// NewCreateCouriersCommand reports non-positive or repeated ids through
// errs.BatchIsInvalidError. An empty request is valid and creates nothing.
func NewCreateCouriersCommand(couriers []NewCourierData) (CreateCouriersCommand, error) {
	ids := make([]int64, 0, len(couriers))
	for _, c := range couriers {
		ids = append(ids, c.ID)
	}
	if invalid := invalidBatchIDs(ids); len(invalid) > 0 {
		return CreateCouriersCommand{}, errs.NewBatchIsInvalidError("couriers", invalid, nil)
	}

	return CreateCouriersCommand{
		couriers: couriers,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c CreateCouriersCommand) Validate() error {
	return c.guard.Validate(ErrCreateCouriersCommandIsNotConstructed)
}

func (c CreateCouriersCommand) Couriers() []NewCourierData {
	return c.couriers
}

func (c CreateCouriersCommand) IDs() []int64 {
	ids := make([]int64, 0, len(c.couriers))
	for _, d := range c.couriers {
		ids = append(ids, d.ID)
	}
	return ids
}

// invalidBatchIDs lists, in request order and once each, ids that are not
// positive or appear more than once.
func invalidBatchIDs(ids []int64) []int64 {
	seen := make(map[int64]int, len(ids))
	for _, id := range ids {
		seen[id]++
	}

	invalid := make([]int64, 0)
	reported := make(map[int64]struct{})
	for _, id := range ids {
		if id > 0 && seen[id] == 1 {
			continue
		}
		if _, ok := reported[id]; ok {
			continue
		}
		reported[id] = struct{}{}
		invalid = append(invalid, id)
	}
	return invalid
}
