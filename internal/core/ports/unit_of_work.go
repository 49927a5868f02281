package ports

import (
	"context"
)

// UnitOfWorkFactory hands out a fresh UnitOfWork per command, so concurrent
// requests never share a transaction.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork scopes one database transaction. Repositories obtained from it
// after Begin read and write inside that transaction; Commit or Rollback ends it.
// A UnitOfWork is not reusable across goroutines.
type UnitOfWork interface {
	// Begin opens the transaction. Calling it twice keeps the first one.
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	// Rollback is safe to defer: after Commit it only reports that nothing is open.
	Rollback(ctx context.Context) error

	CourierRepository() CourierRepository
	CourierTypeRepository() CourierTypeRepository
	OrderRepository() OrderRepository
}
