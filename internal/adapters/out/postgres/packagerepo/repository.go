package packagerepo

import (
	"context"
	"errors"
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/shipment"
	"tracking/internal/core/ports"
	"tracking/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPackageRepository implements ports.PackageRepository using GORM.
type GormPackageRepository struct {
	db *gorm.DB
}

func NewGormPackageRepository(db *gorm.DB) *GormPackageRepository {
	return &GormPackageRepository{db: db}
}

func (r *GormPackageRepository) Add(ctx context.Context, aggregate *shipment.Package) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Omit("Events").Create(&dto).Error
}

// Update writes the mutable columns guarded by the version the aggregate was
// loaded with. A stale version yields ports.ErrConcurrentModification.
func (r *GormPackageRepository) Update(ctx context.Context, aggregate *shipment.Package) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&PackageDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Updates(map[string]any{
			"status":       dto.Status,
			"updated_at":   dto.UpdatedAt,
			"delivered_at": dto.DeliveredAt,
			"version":      dto.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ports.ErrConcurrentModification
	}

	aggregate.AdvanceVersion()
	return nil
}

func (r *GormPackageRepository) Get(ctx context.Context, id kernel.UUID, includeEvents bool) (*shipment.Package, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	tx := r.db.WithContext(ctx)
	if includeEvents {
		tx = tx.Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Order("occurred_at, id")
		})
	}

	var dto PackageDTO
	if err := tx.First(&dto, "id = ?", id.Raw()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("package", id.String())
		}
		return nil, err
	}

	return toDomain(dto, includeEvents)
}

// AddEvent inserts the event unless a row with the same id exists, in which
// case it returns ports.ErrEventAlreadyRecorded.
func (r *GormPackageRepository) AddEvent(ctx context.Context, packageID kernel.UUID, event *shipment.TrackingEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	dto := eventFromDomain(packageID, event)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrEventAlreadyRecorded
	}
	return nil
}

// DeleteDeliveredBefore relies on the foreign key cascade to remove events.
func (r *GormPackageRepository) DeleteDeliveredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("delivered_at IS NOT NULL AND delivered_at < ?", cutoff).
		Delete(&PackageDTO{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
