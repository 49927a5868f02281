package ports

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

// OrderRepository stores order aggregates and their delivery windows.
type OrderRepository interface {
	// Add persists a new order. A taken id yields errs.ErrObjectAlreadyExists.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists the state of an existing order.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get loads an order. Missing orders yield errs.ErrObjectNotFound.
	Get(ctx context.Context, id int64) (*order.Order, error)

	// GetAllUnassigned lists every order still waiting for a courier.
	GetAllUnassigned(ctx context.Context) ([]*order.Order, error)

	// GetOutstandingByCourier lists the courier's active batch: assigned, not completed.
	GetOutstandingByCourier(ctx context.Context, courierID int64) ([]*order.Order, error)

	// Claim persists an assignment only if the order is still unassigned.
	// Losing the race yields errs.ErrObjectConflict and writes nothing.
	Claim(ctx context.Context, aggregate *order.Order) error

	// ExistingIDs returns the subset of ids that are already stored.
	ExistingIDs(ctx context.Context, ids []int64) ([]int64, error)
}
