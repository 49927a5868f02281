package services

import (
	"time"

	"github.com/shopspring/decimal"

	"dispatch/internal/core/domain/model/courier"
)

// maxRatedTime is the average delivery time that yields a zero rating.
const maxRatedTime = time.Hour

var (
	maxRatedSeconds = decimal.NewFromFloat(maxRatedTime.Seconds())
	ratingScale     = decimal.NewFromInt(5)
)

// Performance is the read-time summary of a courier. Couriers that never closed
// a batch expose nothing.
type Performance struct {
	Earnings int64
	Rating   decimal.Decimal
	Visible  bool
}

// PerformanceEvaluator derives the rating from the fastest region:
//
//	minAvg = min(3600, min over regions with deliveries of sumTime/ordersCount)
//	rating = round((3600 - minAvg) / 3600 * 5, 2)
type PerformanceEvaluator struct{}

func NewPerformanceEvaluator() PerformanceEvaluator {
	return PerformanceEvaluator{}
}

func (e PerformanceEvaluator) Evaluate(earning int64, regions []*courier.Region) Performance {
	if earning == 0 {
		return Performance{}
	}

	minAvg := maxRatedSeconds
	for _, r := range regions {
		if r.OrdersCount() == 0 {
			continue
		}
		avg := decimal.NewFromFloat(r.SumTime().Seconds()).Div(decimal.NewFromInt(int64(r.OrdersCount())))
		minAvg = decimal.Min(minAvg, avg)
	}

	rating := maxRatedSeconds.Sub(minAvg).Div(maxRatedSeconds).Mul(ratingScale).Round(2)

	return Performance{
		Earnings: earning,
		Rating:   rating,
		Visible:  true,
	}
}
