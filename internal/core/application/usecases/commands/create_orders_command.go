package commands

import (
	"errors"

	"github.com/shopspring/decimal"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrCreateOrdersCommandIsNotConstructed = errors.New(
	"CreateOrdersCommand must be created via NewCreateOrdersCommand constructor",
)

// NewOrderData is one order of an import request, already parsed by the transport.
type NewOrderData struct {
	ID            int64
	Weight        decimal.Decimal
	Region        int
	DeliveryHours []kernel.TimeInterval
}

// CreateOrdersCommand imports a set of orders at once, all or nothing.
type CreateOrdersCommand struct {
	orders []NewOrderData
	guard  guard.ConstructorGuard
}

// NewCreateOrdersCommand accepts an empty request; it creates nothing.
func NewCreateOrdersCommand(orders []NewOrderData) (CreateOrdersCommand, error) {
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	if invalid := invalidBatchIDs(ids); len(invalid) > 0 {
		return CreateOrdersCommand{}, errs.NewBatchIsInvalidError("orders", invalid, nil)
	}

	return CreateOrdersCommand{
		orders: orders,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c CreateOrdersCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrdersCommandIsNotConstructed)
}

func (c CreateOrdersCommand) Orders() []NewOrderData {
	return c.orders
}

func (c CreateOrdersCommand) IDs() []int64 {
	ids := make([]int64, 0, len(c.orders))
	for _, o := range c.orders {
		ids = append(ids, o.ID)
	}
	return ids
}
