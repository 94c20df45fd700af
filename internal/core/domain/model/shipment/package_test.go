package shipment_test

import (
	"testing"
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/shipment"
	"tracking/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var createdAt = time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)

func newTestPackage(t *testing.T) *shipment.Package {
	t.Helper()

	p, err := shipment.NewPackage(
		kernel.NewUUID(),
		"Books",
		"Sender A",
		"Recipient B",
		time.Date(2025, 10, 10, 15, 4, 5, 0, time.UTC),
		shipment.Enrichment{IsHoliday: false, FunFact: "Dogs can smell time"},
		createdAt,
	)
	require.NoError(t, err)
	return p
}

func TestNewPackage(t *testing.T) {
	t.Run("should create package in CREATED status", func(t *testing.T) {
		p := newTestPackage(t)

		require.NoError(t, p.Validate())
		assert.Equal(t, shipment.Created, p.Status())
		assert.Nil(t, p.DeliveredAt())
		assert.Equal(t, createdAt, p.CreatedAt())
		assert.Equal(t, createdAt, p.UpdatedAt())
		assert.Equal(t, time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC), p.EstimatedDeliveryDate())
		assert.Equal(t, "Books", p.Description())
		assert.Equal(t, "Sender A", p.Sender())
		assert.Equal(t, "Recipient B", p.Recipient())
		assert.False(t, p.IsHoliday())
		assert.Equal(t, "Dogs can smell time", p.FunFact())
		assert.Equal(t, 0, p.Version())
		assert.Empty(t, p.Events())
		assert.NotNil(t, p.Events())
	})

	t.Run("should reject missing fields", func(t *testing.T) {
		p, err := shipment.NewPackage(kernel.UUID{}, "", " ", "", time.Time{}, shipment.Enrichment{}, createdAt)

		require.Error(t, err)
		assert.Nil(t, p)
		assert.True(t, errs.IsValidation(err))
		assert.Contains(t, err.Error(), "sender")
		assert.Contains(t, err.Error(), "recipient")
		assert.Contains(t, err.Error(), "estimatedDeliveryDate")
	})

	t.Run("description is optional", func(t *testing.T) {
		_, err := shipment.NewPackage(kernel.NewUUID(), "", "a", "b", createdAt, shipment.Enrichment{}, createdAt)

		assert.NoError(t, err)
	})
}

func TestRestorePackage(t *testing.T) {
	deliveredAt := createdAt.Add(48 * time.Hour)
	base := shipment.RestoreParams{
		ID:                    kernel.NewUUID(),
		Description:           "Books",
		Sender:                "Sender A",
		Recipient:             "Recipient B",
		Status:                shipment.Delivered,
		CreatedAt:             createdAt,
		UpdatedAt:             deliveredAt,
		DeliveredAt:           &deliveredAt,
		EstimatedDeliveryDate: createdAt,
		Enrichment:            shipment.Enrichment{IsHoliday: true, FunFact: "fact"},
		Version:               3,
	}

	t.Run("should restore persisted state", func(t *testing.T) {
		p, err := shipment.RestorePackage(base)

		require.NoError(t, err)
		assert.Equal(t, shipment.Delivered, p.Status())
		assert.Equal(t, deliveredAt, *p.DeliveredAt())
		assert.Equal(t, 3, p.Version())
		assert.True(t, p.IsHoliday())
		assert.Nil(t, p.Events())
	})

	t.Run("should reject delivery stamp without DELIVERED status", func(t *testing.T) {
		params := base
		params.Status = shipment.InTransit

		_, err := shipment.RestorePackage(params)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject DELIVERED status without delivery stamp", func(t *testing.T) {
		params := base
		params.DeliveredAt = nil

		_, err := shipment.RestorePackage(params)

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should keep loaded events", func(t *testing.T) {
		event, err := shipment.NewTrackingEvent(kernel.NewUUID(), "hub", "scanned", createdAt)
		require.NoError(t, err)
		params := base
		params.Events = []*shipment.TrackingEvent{event}

		p, err := shipment.RestorePackage(params)

		require.NoError(t, err)
		require.Len(t, p.Events(), 1)
		assert.Equal(t, event.ID(), p.Events()[0].ID())
	})

	t.Run("should reject unconstructed events", func(t *testing.T) {
		params := base
		params.Events = []*shipment.TrackingEvent{{}}

		_, err := shipment.RestorePackage(params)

		assert.ErrorIs(t, err, shipment.ErrTrackingEventIsNotConstructed)
	})
}

func TestPackage_DeliveryLifecycle(t *testing.T) {
	p := newTestPackage(t)
	inTransitAt := createdAt.Add(time.Hour)
	deliveredAt := createdAt.Add(24 * time.Hour)

	require.NoError(t, p.UpdateStatus(shipment.InTransit, inTransitAt))
	assert.Equal(t, shipment.InTransit, p.Status())
	assert.Nil(t, p.DeliveredAt())
	assert.Equal(t, inTransitAt, p.UpdatedAt())

	require.NoError(t, p.UpdateStatus(shipment.Delivered, deliveredAt))
	assert.Equal(t, shipment.Delivered, p.Status())
	require.NotNil(t, p.DeliveredAt())
	assert.Equal(t, deliveredAt, *p.DeliveredAt())
	assert.Equal(t, deliveredAt, p.UpdatedAt())

	err := p.UpdateStatus(shipment.InTransit, deliveredAt.Add(time.Hour))
	assert.ErrorIs(t, err, shipment.ErrInvalidTransition)
	assert.Equal(t, shipment.Delivered, p.Status())
	assert.Equal(t, deliveredAt, p.UpdatedAt())
	assert.Equal(t, createdAt, p.CreatedAt())
}

func TestPackage_CancelLifecycle(t *testing.T) {
	p := newTestPackage(t)
	cancelledAt := createdAt.Add(time.Minute)

	require.NoError(t, p.Cancel(cancelledAt))
	assert.Equal(t, shipment.Cancelled, p.Status())
	assert.Equal(t, cancelledAt, p.UpdatedAt())
	assert.Nil(t, p.DeliveredAt())

	err := p.Cancel(cancelledAt.Add(time.Minute))
	assert.ErrorIs(t, err, shipment.ErrCannotCancel)
	assert.Equal(t, cancelledAt, p.UpdatedAt())
}

func TestPackage_DeliveredAtNeverPrecedesCreation(t *testing.T) {
	p := newTestPackage(t)
	skewed := createdAt.Add(-time.Hour)

	require.NoError(t, p.UpdateStatus(shipment.InTransit, skewed))
	require.NoError(t, p.UpdateStatus(shipment.Delivered, skewed))

	require.NotNil(t, p.DeliveredAt())
	assert.False(t, p.DeliveredAt().Before(p.CreatedAt()))
	assert.False(t, p.UpdatedAt().Before(p.CreatedAt()))
}

func TestPackage_DeliveredAtIsACopy(t *testing.T) {
	p := newTestPackage(t)
	deliveredAt := createdAt.Add(time.Hour)
	require.NoError(t, p.UpdateStatus(shipment.InTransit, deliveredAt))
	require.NoError(t, p.UpdateStatus(shipment.Delivered, deliveredAt))

	stamp := p.DeliveredAt()
	*stamp = time.Time{}

	assert.Equal(t, deliveredAt, *p.DeliveredAt())
}

func TestPackage_RecordEvent(t *testing.T) {
	t.Run("should append event and bump updatedAt", func(t *testing.T) {
		p := newTestPackage(t)
		event, err := shipment.NewTrackingEvent(kernel.NewUUID(), "hub", "scanned", createdAt)
		require.NoError(t, err)
		receivedAt := createdAt.Add(time.Hour)

		require.NoError(t, p.RecordEvent(event, receivedAt))

		assert.Equal(t, receivedAt, p.UpdatedAt())
		require.Len(t, p.Events(), 1)
	})

	t.Run("should reject event predating the package", func(t *testing.T) {
		p := newTestPackage(t)
		event, err := shipment.NewTrackingEvent(kernel.NewUUID(), "hub", "scanned", createdAt.Add(-time.Nanosecond))
		require.NoError(t, err)

		err = p.RecordEvent(event, createdAt.Add(time.Hour))

		require.Error(t, err)
		assert.ErrorIs(t, err, shipment.ErrEventPredatesPackage)
		assert.Empty(t, p.Events())
		assert.Equal(t, createdAt, p.UpdatedAt())
	})

	t.Run("should not materialize events that were not loaded", func(t *testing.T) {
		p, err := shipment.RestorePackage(shipment.RestoreParams{
			ID:                    kernel.NewUUID(),
			Sender:                "a",
			Recipient:             "b",
			Status:                shipment.InTransit,
			CreatedAt:             createdAt,
			UpdatedAt:             createdAt,
			EstimatedDeliveryDate: createdAt,
		})
		require.NoError(t, err)
		event, err := shipment.NewTrackingEvent(kernel.NewUUID(), "hub", "scanned", createdAt)
		require.NoError(t, err)

		require.NoError(t, p.RecordEvent(event, createdAt))

		assert.Nil(t, p.Events())
	})

	t.Run("should reject unconstructed event", func(t *testing.T) {
		p := newTestPackage(t)

		assert.ErrorIs(t, p.RecordEvent(nil, createdAt), shipment.ErrTrackingEventIsNotConstructed)
	})
}

func TestPackage_AdvanceVersion(t *testing.T) {
	p := newTestPackage(t)

	p.AdvanceVersion()
	p.AdvanceVersion()

	assert.Equal(t, 2, p.Version())
}
