// Package packagerepo persists package aggregates and their tracking events with GORM.
package packagerepo

import (
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/shipment"

	"github.com/google/uuid"
)

// PackageDTO maps the packages table. Timestamps are written by the domain,
// so GORM's automatic time tracking is disabled.
type PackageDTO struct {
	ID                    uuid.UUID          `gorm:"type:uuid;primaryKey"`
	Description           string             `gorm:"type:text;not null"`
	Sender                string             `gorm:"type:text;not null"`
	Recipient             string             `gorm:"type:text;not null"`
	Status                string             `gorm:"type:varchar(16);not null;index"`
	CreatedAt             time.Time          `gorm:"type:timestamptz;not null;index;autoCreateTime:false"`
	UpdatedAt             time.Time          `gorm:"type:timestamptz;not null;autoUpdateTime:false"`
	DeliveredAt           *time.Time         `gorm:"type:timestamptz;index"`
	EstimatedDeliveryDate time.Time          `gorm:"type:date;not null"`
	IsHoliday             bool               `gorm:"not null"`
	FunFact               string             `gorm:"type:text;not null"`
	Version               int                `gorm:"not null"`
	Events                []TrackingEventDTO `gorm:"foreignKey:PackageID;constraint:OnDelete:CASCADE"`
}

func (PackageDTO) TableName() string {
	return "packages"
}

// TrackingEventDTO maps the tracking_events table.
type TrackingEventDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	PackageID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Location    string    `gorm:"type:text;not null"`
	Description string    `gorm:"type:text;not null"`
	OccurredAt  time.Time `gorm:"type:timestamptz;not null"`
}

func (TrackingEventDTO) TableName() string {
	return "tracking_events"
}

func fromDomain(aggregate *shipment.Package) PackageDTO {
	return PackageDTO{
		ID:                    aggregate.ID().Raw(),
		Description:           aggregate.Description(),
		Sender:                aggregate.Sender(),
		Recipient:             aggregate.Recipient(),
		Status:                aggregate.Status().String(),
		CreatedAt:             aggregate.CreatedAt(),
		UpdatedAt:             aggregate.UpdatedAt(),
		DeliveredAt:           aggregate.DeliveredAt(),
		EstimatedDeliveryDate: aggregate.EstimatedDeliveryDate(),
		IsHoliday:             aggregate.IsHoliday(),
		FunFact:               aggregate.FunFact(),
		Version:               aggregate.Version(),
	}
}

func eventFromDomain(packageID kernel.UUID, event *shipment.TrackingEvent) TrackingEventDTO {
	return TrackingEventDTO{
		ID:          event.ID().Raw(),
		PackageID:   packageID.Raw(),
		Location:    event.Location(),
		Description: event.Description(),
		OccurredAt:  event.Timestamp(),
	}
}

// toDomain restores the aggregate. Events are attached only when they were loaded.
func toDomain(dto PackageDTO, withEvents bool) (*shipment.Package, error) {
	id, err := kernel.RestoreUUID(dto.ID)
	if err != nil {
		return nil, err
	}

	status, err := shipment.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	var deliveredAt *time.Time
	if dto.DeliveredAt != nil {
		stamp := dto.DeliveredAt.UTC()
		deliveredAt = &stamp
	}

	var events []*shipment.TrackingEvent
	if withEvents {
		events = make([]*shipment.TrackingEvent, 0, len(dto.Events))
		for _, e := range dto.Events {
			event, eventErr := eventToDomain(e)
			if eventErr != nil {
				return nil, eventErr
			}
			events = append(events, event)
		}
	}

	return shipment.RestorePackage(shipment.RestoreParams{
		ID:                    id,
		Description:           dto.Description,
		Sender:                dto.Sender,
		Recipient:             dto.Recipient,
		Status:                status,
		CreatedAt:             dto.CreatedAt.UTC(),
		UpdatedAt:             dto.UpdatedAt.UTC(),
		DeliveredAt:           deliveredAt,
		EstimatedDeliveryDate: dto.EstimatedDeliveryDate,
		Enrichment: shipment.Enrichment{
			IsHoliday: dto.IsHoliday,
			FunFact:   dto.FunFact,
		},
		Version: dto.Version,
		Events:  events,
	})
}

func eventToDomain(dto TrackingEventDTO) (*shipment.TrackingEvent, error) {
	id, err := kernel.RestoreUUID(dto.ID)
	if err != nil {
		return nil, err
	}
	return shipment.RestoreTrackingEvent(id, dto.Location, dto.Description, dto.OccurredAt.UTC())
}
