// Package commands contains business operations that modify tracking state.
// Every command follows the same pattern: constructor validation, a unit of
// work around the repository calls, and an explicit retry policy where the
// store may report contention.
package commands

import (
	"context"
	"time"

	"tracking/internal/core/domain/model/shipment"
	"tracking/internal/core/ports"
)

type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// PackageRepoFactory provides the package repository bound to a transaction.
	PackageRepoFactory interface {
		PackageRepository() ports.PackageRepository
	}

	// PackageUoW manages transactions for package operations.
	PackageUoW interface {
		TxManager
		PackageRepoFactory
	}

	// PackageUoWFactory creates a fresh unit of work per attempt.
	PackageUoWFactory interface {
		Create() PackageUoW
	}

	// PackageEnricher annotates a package before it is created.
	PackageEnricher interface {
		Enrich(ctx context.Context, estimatedDeliveryDate time.Time) shipment.Enrichment
	}
)

// Clock returns the current time used to stamp packages.
type Clock func() time.Time

// SystemClock reads the wall clock in UTC at the precision of the store.
func SystemClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
