package courier

import (
	"errors"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrRegionIsNotConstructed = errors.New("Region must be created via NewRegion constructor")

// Region is the per-courier ledger for one region number. It counts completed
// deliveries and the total time spent on them. It is not a geographic record.
//
// A region starts at zero when the courier begins servicing it and only ever grows,
// so OrdersCount() == 0 exactly when SumTime() == 0.
type Region struct {
	number      int
	ordersCount int
	sumTime     time.Duration
	guard       guard.ConstructorGuard
}

func NewRegion(number int) (*Region, error) {
	return RestoreRegion(number, 0, 0)
}

// RestoreRegion rehydrates a ledger from storage.
func RestoreRegion(number, ordersCount int, sumTime time.Duration) (*Region, error) {
	if number <= 0 {
		return nil, errs.NewValueIsInvalidError("region")
	}
	if ordersCount < 0 || sumTime < 0 {
		return nil, errs.NewValueIsInvalidError("region ledger")
	}
	if (ordersCount == 0) != (sumTime == 0) {
		return nil, errs.NewValueIsInvalidErrorWithCause("region ledger",
			errors.New("orders count and sum time must be zero together"))
	}

	return &Region{
		number:      number,
		ordersCount: ordersCount,
		sumTime:     sumTime,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (r *Region) Number() int {
	return r.number
}

func (r *Region) OrdersCount() int {
	return r.ordersCount
}

func (r *Region) SumTime() time.Duration {
	return r.sumTime
}

// AverageTime is the mean delivery time; ok is false while nothing was delivered.
func (r *Region) AverageTime() (avg time.Duration, ok bool) {
	if r.ordersCount == 0 {
		return 0, false
	}
	return r.sumTime / time.Duration(r.ordersCount), true
}

func (r *Region) Validate() error {
	if r == nil {
		return ErrRegionIsNotConstructed
	}
	return r.guard.Validate(ErrRegionIsNotConstructed)
}

// record attributes one delivery. A zero duration still counts as a delivery,
// which is why callers only pass strictly positive durations.
func (r *Region) record(d time.Duration) error {
	if d <= 0 {
		return errs.NewValueIsInvalidError("delivery duration")
	}
	r.ordersCount++
	r.sumTime += d
	return nil
}
