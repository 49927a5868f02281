package order

import (
	"errors"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// Order is the aggregate root for a delivery request.
//
// Order follows these invariants:
//   - identifier is supplied by the client and positive
//   - weight is strictly positive; its upper bound is a transport rule
//   - at least one delivery window is present, windows are immutable
//   - courierID and assignTime are set together, exactly once
//   - a completed order is always assigned
type Order struct {
	id            int64
	weight        decimal.Decimal
	region        int
	deliveryHours []kernel.TimeInterval
	status        Status
	courierID     *int64
	assignTime    *time.Time
	guard         guard.ConstructorGuard
}

// NewOrder creates an unassigned order.
//
// Example:
//
//	hours, _ := kernel.ParseTimeIntervals([]string{"10:00-12:00"})
//	o, err := order.NewOrder(42, decimal.RequireFromString("2.5"), 7, hours)
func NewOrder(id int64, weight decimal.Decimal, region int, deliveryHours []kernel.TimeInterval) (*Order, error) {
	return RestoreOrder(id, weight, region, deliveryHours, Created, nil, nil)
}

// RestoreOrder rehydrates the aggregate from storage and re-checks that status,
// courier and assign time are consistent.
func RestoreOrder(
	id int64,
	weight decimal.Decimal,
	region int,
	deliveryHours []kernel.TimeInterval,
	status Status,
	courierID *int64,
	assignTime *time.Time,
) (*Order, error) {
	o := &Order{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		o.setID(id),
		o.setWeight(weight),
		o.setRegion(region),
		o.setDeliveryHours(deliveryHours),
		o.setAssignment(status, courierID, assignTime),
	); err != nil {
		return nil, err
	}

	return o, nil
}

func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id == other.id
}

func (o *Order) ID() int64 {
	return o.id
}

func (o *Order) Weight() decimal.Decimal {
	return o.weight
}

func (o *Order) Region() int {
	return o.region
}

func (o *Order) DeliveryHours() []kernel.TimeInterval {
	return slices.Clone(o.deliveryHours)
}

func (o *Order) Status() Status {
	return o.status
}

// CourierID is nil until the order is assigned.
func (o *Order) CourierID() *int64 {
	return o.courierID
}

// AssignTime is nil until the order is assigned.
func (o *Order) AssignTime() *time.Time {
	return o.assignTime
}

func (o *Order) BelongsTo(courierID int64) bool {
	return o.courierID != nil && *o.courierID == courierID
}

// IsOutstanding reports an order of an active batch: assigned, not yet delivered.
func (o *Order) IsOutstanding() bool {
	return o.status == Assigned
}

func (o *Order) IsCompleted() bool {
	return o.status == Completed
}

// Assign hands the order to a courier as part of the batch formed at assignTime.
func (o *Order) Assign(courierID int64, assignTime time.Time) error {
	if courierID <= 0 {
		return errs.NewValueIsInvalidError("courier_id")
	}

	next, err := o.status.Assign()
	if err != nil {
		return err
	}

	o.status = next
	o.courierID = &courierID
	o.assignTime = &assignTime
	return nil
}

func (o *Order) Complete() error {
	next, err := o.status.Complete()
	if err != nil {
		return err
	}
	o.status = next
	return nil
}

func (o *Order) setID(id int64) error {
	if id <= 0 {
		return errs.NewValueIsInvalidError("order_id")
	}
	o.id = id
	return nil
}

func (o *Order) setWeight(weight decimal.Decimal) error {
	if !weight.IsPositive() {
		return errs.NewValueIsInvalidError("weight")
	}
	o.weight = weight
	return nil
}

func (o *Order) setRegion(region int) error {
	if region <= 0 {
		return errs.NewValueIsInvalidError("region")
	}
	o.region = region
	return nil
}

func (o *Order) setDeliveryHours(hours []kernel.TimeInterval) error {
	if len(hours) == 0 {
		return errs.NewValueIsRequiredError("delivery_hours")
	}
	for _, h := range hours {
		if err := h.Validate(); err != nil {
			return err
		}
	}
	o.deliveryHours = slices.Clone(hours)
	return nil
}

func (o *Order) setAssignment(status Status, courierID *int64, assignTime *time.Time) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if err := status.ValidateCanHaveCourier(courierID != nil); err != nil {
		return err
	}
	if (courierID == nil) != (assignTime == nil) {
		return errs.NewValueIsInvalidError("assign_time")
	}
	o.status = status
	o.courierID = courierID
	o.assignTime = assignTime
	return nil
}
