// Package ports defines the contracts between the tracking core and its infrastructure.
package ports

import (
	"context"
	"errors"
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/shipment"
)

// ErrConcurrentModification is returned by Update when the stored version no
// longer matches the version the package was loaded with.
var ErrConcurrentModification = errors.New("package was modified concurrently")

// ErrEventAlreadyRecorded is returned by AddEvent when an event with the same
// id is already stored. Redelivered events produce it.
var ErrEventAlreadyRecorded = errors.New("tracking event already recorded")

// PackageRepository defines the persistence contract for package aggregates.
type PackageRepository interface {
	// Add persists a new package.
	Add(ctx context.Context, aggregate *shipment.Package) error

	// Update persists the mutable state of a package when its stored version still
	// equals aggregate.Version(), then advances the version.
	// Returns ErrConcurrentModification otherwise.
	Update(ctx context.Context, aggregate *shipment.Package) error

	// Get loads a package; events are loaded only when includeEvents is true.
	// Returns *errs.ObjectNotFoundError when the package does not exist.
	Get(ctx context.Context, id kernel.UUID, includeEvents bool) (*shipment.Package, error)

	// AddEvent appends a tracking event to an existing package.
	// Returns ErrEventAlreadyRecorded when the event id is already stored.
	AddEvent(ctx context.Context, packageID kernel.UUID, event *shipment.TrackingEvent) error

	// DeleteDeliveredBefore removes packages delivered strictly before cutoff
	// together with their events and returns how many packages were removed.
	DeleteDeliveredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
