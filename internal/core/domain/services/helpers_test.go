package services_test

import (
	"testing"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func hours(t *testing.T, raw ...string) []kernel.TimeInterval {
	t.Helper()
	out, err := kernel.ParseTimeIntervals(raw)
	require.NoError(t, err)
	return out
}

func newCourier(t *testing.T, id int64, title string, regions ...int) *courier.Courier {
	t.Helper()
	catalog := map[string][2]int{"foot": {10, 2}, "bike": {15, 5}, "car": {50, 9}}
	tp, err := courier.NewType(title, catalog[title][0], catalog[title][1])
	require.NoError(t, err)
	c, err := courier.NewCourier(id, tp, regions, hours(t, "09:00-18:00"))
	require.NoError(t, err)
	return c
}

func newOrder(t *testing.T, id int64, weight string, region int, windows ...string) *order.Order {
	t.Helper()
	if len(windows) == 0 {
		windows = []string{"10:00-12:00"}
	}
	o, err := order.NewOrder(id, decimal.RequireFromString(weight), region, hours(t, windows...))
	require.NoError(t, err)
	return o
}

func ids(orders []*order.Order) []int64 {
	out := make([]int64, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID())
	}
	return out
}
