package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork for every business operation.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// PackageRepository is bound to the transaction started by Begin.
	PackageRepository() PackageRepository
}
