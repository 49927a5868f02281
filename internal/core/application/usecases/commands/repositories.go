// Package commands contains the write use cases of the dispatch service.
// Every command is built through its constructor, validated by a guard, and
// handled inside one unit of work: either everything it changes is committed
// or nothing is.
package commands

import (
	"context"

	"dispatch/internal/core/ports"
)

// Unit of Work interfaces narrowed to what each handler touches.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// CourierRepoFactory provides access to courier repository within a transaction.
	CourierRepoFactory interface {
		CourierRepository() ports.CourierRepository
	}

	// CourierTypeRepoFactory provides access to the courier type catalog within a transaction.
	CourierTypeRepoFactory interface {
		CourierTypeRepository() ports.CourierTypeRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// CourierUoW manages transactions that register couriers.
	CourierUoW interface {
		TxManager
		CourierRepoFactory
		CourierTypeRepoFactory
	}

	// CourierUoWFactory creates new courier unit of work instances.
	CourierUoWFactory interface {
		Create() CourierUoW
	}

	// UoW spans couriers, the type catalog and orders. Used when a command reads
	// a courier's batch and changes it.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   c, err := uow.CourierRepository().GetForUpdate(ctx, id)
	//   batch, err := uow.OrderRepository().GetOutstandingByCourier(ctx, id)
	//   // ... mutate aggregates
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		CourierRepoFactory
		CourierTypeRepoFactory
		OrderRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)
