// Package queries contains the read use cases of the dispatch service. Queries
// read straight from the database and return read models shaped for the caller.
package queries

import (
	"errors"

	"github.com/shopspring/decimal"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrGetCourierQueryIsNotConstructed = errors.New(
	"GetCourierQuery must be created via NewGetCourierQuery constructor",
)

// GetCourierQuery reads one courier's profile and performance.
//
// Example:
//
//	query, err := NewGetCourierQuery(2)
//	courier, err := handler.Handle(ctx, query)
//	if courier.Rating != nil {
//	    fmt.Println(courier.Rating.StringFixed(2))
//	}
type GetCourierQuery struct {
	courierID int64
	guard     guard.ConstructorGuard
}

func NewGetCourierQuery(courierID int64) (GetCourierQuery, error) {
	if courierID <= 0 {
		return GetCourierQuery{}, errs.NewValueIsInvalidError("courier_id")
	}
	return GetCourierQuery{courierID: courierID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetCourierQuery) Validate() error {
	return q.guard.Validate(ErrGetCourierQueryIsNotConstructed)
}

func (q GetCourierQuery) CourierID() int64 {
	return q.courierID
}

// GetCourierQueryResponse is the courier read model. Regions and working hours
// keep the order they were added in. Earnings and Rating are nil until the
// courier closes a first batch.
type GetCourierQueryResponse struct {
	ID           int64
	Type         string
	Regions      []int
	WorkingHours []string
	Earnings     *int64
	Rating       *decimal.Decimal
}
