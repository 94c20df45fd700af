package commands_test

import (
	"context"
	"errors"
	"time"

	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/shipment"
	"tracking/internal/core/ports"
	"tracking/internal/pkg/retry"

	"github.com/stretchr/testify/mock"
)

type MockPackageRepository struct{ mock.Mock }

func (m *MockPackageRepository) Add(ctx context.Context, p *shipment.Package) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPackageRepository) Update(ctx context.Context, p *shipment.Package) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPackageRepository) Get(ctx context.Context, id kernel.UUID, includeEvents bool) (*shipment.Package, error) {
	args := m.Called(ctx, id, includeEvents)
	p, _ := args.Get(0).(*shipment.Package)
	return p, args.Error(1)
}

func (m *MockPackageRepository) AddEvent(ctx context.Context, packageID kernel.UUID, event *shipment.TrackingEvent) error {
	args := m.Called(ctx, packageID, event)
	return args.Error(0)
}

func (m *MockPackageRepository) DeleteDeliveredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockPackageUoW struct{ mock.Mock }

func (m *MockPackageUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPackageUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPackageUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPackageUoW) PackageRepository() ports.PackageRepository {
	args := m.Called()
	return args.Get(0).(ports.PackageRepository)
}

type MockPackageUoWFactory struct{ mock.Mock }

func (m *MockPackageUoWFactory) Create() commands.PackageUoW {
	args := m.Called()
	return args.Get(0).(commands.PackageUoW)
}

type MockEnricher struct{ mock.Mock }

func (m *MockEnricher) Enrich(ctx context.Context, date time.Time) shipment.Enrichment {
	args := m.Called(ctx, date)
	return args.Get(0).(shipment.Enrichment)
}

var (
	fixedNow   = time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)
	errConnect = errors.New("connection reset")
)

func fixedClock() time.Time {
	return fixedNow
}

func isConflict(err error) bool {
	return errors.Is(err, ports.ErrConcurrentModification)
}

// fastTransitionPolicy mirrors the production schedule shape with tiny waits.
func fastTransitionPolicy() retry.Policy {
	return retry.Exponential(5, time.Millisecond, isConflict)
}

func fastIngestionPolicy() retry.Policy {
	return retry.Fixed(3, time.Millisecond, isConflict)
}

func newStoredPackage(status shipment.Status) *shipment.Package {
	var deliveredAt *time.Time
	if status == shipment.Delivered {
		stamp := fixedNow.Add(-time.Hour)
		deliveredAt = &stamp
	}

	p, err := shipment.RestorePackage(shipment.RestoreParams{
		ID:                    kernel.NewUUID(),
		Description:           "Books",
		Sender:                "Sender A",
		Recipient:             "Recipient B",
		Status:                status,
		CreatedAt:             fixedNow.Add(-24 * time.Hour),
		UpdatedAt:             fixedNow.Add(-24 * time.Hour),
		DeliveredAt:           deliveredAt,
		EstimatedDeliveryDate: time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC),
		Version:               1,
	})
	if err != nil {
		panic(err)
	}
	return p
}
