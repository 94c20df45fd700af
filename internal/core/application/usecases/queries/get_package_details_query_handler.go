package queries

import (
	"context"
	"database/sql"
	"errors"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetPackageDetailsQueryHandler struct {
	db *gorm.DB
}

func NewGetPackageDetailsQueryHandler(db *gorm.DB) GetPackageDetailsQueryHandler {
	return GetPackageDetailsQueryHandler{db: db}
}

// Handle returns *errs.ObjectNotFoundError when the package does not exist.
// Events are ordered by their timestamp.
func (h GetPackageDetailsQueryHandler) Handle(
	ctx context.Context,
	query GetPackageDetailsQuery,
) (GetPackageDetailsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetPackageDetailsQueryResponse{}, err
	}

	db := h.db.WithContext(ctx)
	id := query.PackageID()

	row := db.Raw(`SELECT `+packageColumns+` FROM packages WHERE id = ?`, id.Raw()).Row()
	pkg, err := scanPackage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetPackageDetailsQueryResponse{}, errs.NewObjectNotFoundError("package", id.String())
		}
		return GetPackageDetailsQueryResponse{}, err
	}

	response := GetPackageDetailsQueryResponse{PackageResponse: pkg}
	if !query.IncludeEvents() {
		return response, nil
	}

	rows, err := db.Raw(`
		SELECT
			id,
			location,
			description,
			occurred_at
		FROM tracking_events
		WHERE package_id = ?
		ORDER BY occurred_at, id
	`, id.Raw()).Rows()
	if err != nil {
		return GetPackageDetailsQueryResponse{}, err
	}
	defer rows.Close()

	response.Events = make([]TrackingEventResponse, 0)
	for rows.Next() {
		event := TrackingEventResponse{PackageID: id}
		var eventID uuid.UUID

		if err = rows.Scan(&eventID, &event.Location, &event.Description, &event.Timestamp); err != nil {
			return GetPackageDetailsQueryResponse{}, err
		}

		if event.ID, err = kernel.RestoreUUID(eventID); err != nil {
			return GetPackageDetailsQueryResponse{}, err
		}
		event.Timestamp = event.Timestamp.UTC()
		response.Events = append(response.Events, event)
	}

	if err = rows.Err(); err != nil {
		return GetPackageDetailsQueryResponse{}, err
	}

	return response, nil
}
