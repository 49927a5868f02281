// Package ports defines the persistence contracts the application core depends on.
// Implementations live in the outbound adapters.
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/courier"
)

// CourierRepository stores courier aggregates together with their region ledgers
// and working hours.
type CourierRepository interface {
	// Add persists a new courier. A taken id yields errs.ErrObjectAlreadyExists.
	Add(ctx context.Context, aggregate *courier.Courier) error

	// Update persists changes of an existing courier. Regions and working hours
	// are reconciled by difference against the stored rows; surviving regions
	// keep their ledgers.
	Update(ctx context.Context, aggregate *courier.Courier) error

	// Get loads a courier without locking. Missing couriers yield errs.ErrObjectNotFound.
	Get(ctx context.Context, id int64) (*courier.Courier, error)

	// GetForUpdate loads a courier and locks its row until the surrounding
	// transaction ends. Every operation that reads then writes a courier's batch
	// state goes through it, which serializes them per courier.
	GetForUpdate(ctx context.Context, id int64) (*courier.Courier, error)

	// ExistingIDs returns the subset of ids that are already stored.
	ExistingIDs(ctx context.Context, ids []int64) ([]int64, error)
}

// CourierTypeRepository reads the courier type catalog.
type CourierTypeRepository interface {
	// Get yields errs.ErrObjectNotFound for unknown titles.
	Get(ctx context.Context, title string) (courier.Type, error)
}
