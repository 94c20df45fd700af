// Package queries contains read operations over packages and their events.
// Handlers read straight from the database and return flat read models.
package queries

import (
	"database/sql"
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/shipment"

	"github.com/google/uuid"
)

// PackageResponse is the read model of a package without its events.
type PackageResponse struct {
	ID                    kernel.UUID
	Description           string
	Sender                string
	Recipient             string
	Status                shipment.Status
	CreatedAt             time.Time
	UpdatedAt             time.Time
	DeliveredAt           *time.Time
	EstimatedDeliveryDate time.Time
	IsHoliday             bool
	FunFact               string
}

// TrackingEventResponse is the read model of one tracking event.
type TrackingEventResponse struct {
	ID          kernel.UUID
	PackageID   kernel.UUID
	Location    string
	Description string
	Timestamp   time.Time
}

const packageColumns = `
	id,
	description,
	sender,
	recipient,
	status,
	created_at,
	updated_at,
	delivered_at,
	estimated_delivery_date,
	is_holiday,
	fun_fact`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPackage(row rowScanner) (PackageResponse, error) {
	var (
		response    PackageResponse
		id          uuid.UUID
		status      string
		deliveredAt sql.NullTime
	)

	if err := row.Scan(
		&id,
		&response.Description,
		&response.Sender,
		&response.Recipient,
		&status,
		&response.CreatedAt,
		&response.UpdatedAt,
		&deliveredAt,
		&response.EstimatedDeliveryDate,
		&response.IsHoliday,
		&response.FunFact,
	); err != nil {
		return PackageResponse{}, err
	}

	packageID, err := kernel.RestoreUUID(id)
	if err != nil {
		return PackageResponse{}, err
	}
	response.ID = packageID
	response.CreatedAt = response.CreatedAt.UTC()
	response.UpdatedAt = response.UpdatedAt.UTC()

	if response.Status, err = shipment.ParseStatus(status); err != nil {
		return PackageResponse{}, err
	}

	if deliveredAt.Valid {
		stamp := deliveredAt.Time.UTC()
		response.DeliveredAt = &stamp
	}

	return response, nil
}
