package courier

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// BatchPayment is what a closed batch earns before the type coefficient is applied.
const BatchPayment = 500

var (
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")
	ErrRegionIsNotServed       = errors.New("region is not served by courier")
	ErrRegionHasActiveOrders   = errors.New("region still has undelivered orders of the active batch")
)

// Courier is the aggregate root for a delivery worker. It owns the region ledgers
// and the working hours, and tracks the running earning and the milestone of the
// batch currently being delivered.
//
// Business rules:
//   - identifiers are supplied by clients and are positive
//   - regions are unique per courier
//   - earning never decreases
//   - lastCompletedAt is set only while a batch is partially delivered
type Courier struct {
	id              int64
	courierType     Type
	earning         int64
	lastCompletedAt *time.Time
	regions         []*Region
	workingHours    []kernel.TimeInterval
	guard           guard.ConstructorGuard
}

// NewCourier registers a courier with zero-initialized ledgers for every region.
//
// Example:
//
//	foot, _ := courier.NewType("foot", 10, 2)
//	hours, _ := kernel.ParseTimeIntervals([]string{"09:00-18:00"})
//	c, err := courier.NewCourier(1, foot, []int{1, 12}, hours)
func NewCourier(id int64, courierType Type, regions []int, workingHours []kernel.TimeInterval) (*Courier, error) {
	ledgers, err := newRegions(regions)
	if err != nil {
		return nil, err
	}
	return RestoreCourier(id, courierType, 0, nil, ledgers, workingHours)
}

// RestoreCourier rehydrates the aggregate from storage.
func RestoreCourier(
	id int64,
	courierType Type,
	earning int64,
	lastCompletedAt *time.Time,
	regions []*Region,
	workingHours []kernel.TimeInterval,
) (*Courier, error) {
	c := &Courier{
		lastCompletedAt: lastCompletedAt,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setType(courierType),
		c.setEarning(earning),
		c.setRegions(regions),
		c.setWorkingHours(workingHours),
	); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

func (c *Courier) IsEqual(other *Courier) bool {
	return other != nil && c.id == other.id
}

func (c *Courier) ID() int64 {
	return c.id
}

func (c *Courier) Type() Type {
	return c.courierType
}

func (c *Courier) Earning() int64 {
	return c.earning
}

// LastCompletedAt is the completion time of the previous delivery in the active batch.
func (c *Courier) LastCompletedAt() *time.Time {
	return c.lastCompletedAt
}

func (c *Courier) Regions() []*Region {
	return slices.Clone(c.regions)
}

func (c *Courier) RegionNumbers() []int {
	numbers := make([]int, 0, len(c.regions))
	for _, r := range c.regions {
		numbers = append(numbers, r.number)
	}
	return numbers
}

func (c *Courier) WorkingHours() []kernel.TimeInterval {
	return slices.Clone(c.workingHours)
}

func (c *Courier) Region(number int) (*Region, error) {
	for _, r := range c.regions {
		if r.number == number {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrRegionIsNotServed, number)
}

func (c *Courier) ServesRegion(number int) bool {
	_, err := c.Region(number)
	return err == nil
}

// CanTake checks region, remaining capacity and time windows for a candidate
// order, given the weight already loaded into the batch being built.
func (c *Courier) CanTake(o *order.Order, loaded decimal.Decimal) bool {
	if !c.ServesRegion(o.Region()) {
		return false
	}
	if loaded.Add(o.Weight()).GreaterThan(c.courierType.CarryingWeight()) {
		return false
	}
	return kernel.AnyOverlap(c.workingHours, o.DeliveryHours())
}

func (c *Courier) ChangeType(courierType Type) error {
	return c.setType(courierType)
}

// ReplaceRegions makes numbers the serviced set. Surviving regions keep their
// ledgers, new ones start at zero. Dropping a region that an outstanding order
// of the active batch still has to be delivered to is rejected.
func (c *Courier) ReplaceRegions(numbers []int, outstanding []*order.Order) error {
	if err := uniqueRegions(numbers); err != nil {
		return err
	}

	for _, o := range outstanding {
		if !slices.Contains(numbers, o.Region()) {
			return errors.Join(
				errs.NewValueIsInvalidError("regions"),
				fmt.Errorf("%w: region %d, order %d", ErrRegionHasActiveOrders, o.Region(), o.ID()),
			)
		}
	}

	next := make([]*Region, 0, len(numbers))
	for _, n := range numbers {
		if existing, err := c.Region(n); err == nil {
			next = append(next, existing)
			continue
		}
		r, err := NewRegion(n)
		if err != nil {
			return err
		}
		next = append(next, r)
	}

	c.regions = next
	return nil
}

func (c *Courier) ReplaceWorkingHours(hours []kernel.TimeInterval) error {
	return c.setWorkingHours(hours)
}

// Milestone is the instant the next delivery duration is measured from:
// the previous completion in the batch, or the batch assignment time.
func (c *Courier) Milestone(o *order.Order) (time.Time, error) {
	if c.lastCompletedAt != nil {
		return *c.lastCompletedAt, nil
	}
	if o.AssignTime() == nil {
		return time.Time{}, errs.NewValueIsInvalidErrorWithCause("order",
			fmt.Errorf("order %d has no assign time", o.ID()))
	}
	return *o.AssignTime(), nil
}

// RecordDelivery attributes a completed delivery to the region ledger and moves
// the milestone to completedAt.
func (c *Courier) RecordDelivery(region int, completedAt time.Time, d time.Duration) error {
	r, err := c.Region(region)
	if err != nil {
		return errors.Join(errs.NewValueIsInvalidError("region"), err)
	}
	if err = r.record(d); err != nil {
		return err
	}
	c.lastCompletedAt = &completedAt
	return nil
}

// CloseBatch pays for a fully delivered batch and clears the milestone.
func (c *Courier) CloseBatch() {
	c.earning += int64(BatchPayment * c.courierType.coefficient)
	c.lastCompletedAt = nil
}

func (c *Courier) setID(id int64) error {
	if id <= 0 {
		return errs.NewValueIsInvalidError("courier_id")
	}
	c.id = id
	return nil
}

func (c *Courier) setType(courierType Type) error {
	if err := courierType.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("courier_type", err)
	}
	c.courierType = courierType
	return nil
}

func (c *Courier) setEarning(earning int64) error {
	if earning < 0 {
		return errs.NewValueIsInvalidError("earning")
	}
	c.earning = earning
	return nil
}

func (c *Courier) setRegions(regions []*Region) error {
	numbers := make([]int, 0, len(regions))
	for _, r := range regions {
		if err := r.Validate(); err != nil {
			return err
		}
		numbers = append(numbers, r.number)
	}
	if err := uniqueRegions(numbers); err != nil {
		return err
	}
	c.regions = regions
	return nil
}

func (c *Courier) setWorkingHours(hours []kernel.TimeInterval) error {
	next := make([]kernel.TimeInterval, 0, len(hours))
	for _, h := range hours {
		if err := h.Validate(); err != nil {
			return err
		}
		if slices.ContainsFunc(next, h.IsEqual) {
			continue
		}
		next = append(next, h)
	}
	c.workingHours = next
	return nil
}

func newRegions(numbers []int) ([]*Region, error) {
	regions := make([]*Region, 0, len(numbers))
	for _, n := range numbers {
		r, err := NewRegion(n)
		if err != nil {
			return nil, err
		}
		regions = append(regions, r)
	}
	return regions, nil
}

func uniqueRegions(numbers []int) error {
	seen := make(map[int]struct{}, len(numbers))
	for _, n := range numbers {
		if _, dup := seen[n]; dup {
			return errs.NewValueIsInvalidErrorWithCause("regions", fmt.Errorf("region %d is listed twice", n))
		}
		seen[n] = struct{}{}
	}
	return nil
}
