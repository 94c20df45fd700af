package queries

import (
	"errors"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/guard"
)

var ErrGetPackageDetailsQueryIsNotConstructed = errors.New(
	"GetPackageDetailsQuery must be created via NewGetPackageDetailsQuery constructor",
)

// GetPackageDetailsQuery fetches one package, optionally with its events.
type GetPackageDetailsQuery struct {
	packageID     kernel.UUID
	includeEvents bool

	guard guard.ConstructorGuard
}

func NewGetPackageDetailsQuery(packageID kernel.UUID, includeEvents bool) (GetPackageDetailsQuery, error) {
	if err := packageID.Validate(); err != nil {
		return GetPackageDetailsQuery{}, err
	}

	return GetPackageDetailsQuery{
		packageID:     packageID,
		includeEvents: includeEvents,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (q GetPackageDetailsQuery) Validate() error {
	return q.guard.Validate(ErrGetPackageDetailsQueryIsNotConstructed)
}

func (q GetPackageDetailsQuery) PackageID() kernel.UUID {
	return q.packageID
}

func (q GetPackageDetailsQuery) IncludeEvents() bool {
	return q.includeEvents
}

// GetPackageDetailsQueryResponse is a package with its events.
// Events is nil when they were not requested.
type GetPackageDetailsQueryResponse struct {
	PackageResponse
	Events []TrackingEventResponse
}
