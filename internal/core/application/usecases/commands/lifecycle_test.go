package commands_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/shipment"
	"tracking/internal/core/domain/services"
	"tracking/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type calendarStub struct {
	holidays []ports.Holiday
	err      error
}

func (c calendarStub) PublicHolidays(context.Context, int, string) ([]ports.Holiday, error) {
	return c.holidays, c.err
}

type factStub struct {
	fact string
	err  error
}

func (f factStub) FunFact(context.Context) (string, error) {
	return f.fact, f.err
}

// lifecycle wires every handler against one in-memory store and a movable clock.
type lifecycle struct {
	store  *memoryStore
	now    time.Time
	create commands.CreatePackageCommandHandler
	update commands.UpdatePackageStatusCommandHandler
	cancel commands.CancelPackageCommandHandler
	record commands.RecordTrackingEventCommandHandler
	purge  commands.PurgeDeliveredPackagesCommandHandler
}

func newLifecycle(holidays ports.HolidayProvider, facts ports.FunFactProvider) *lifecycle {
	l := &lifecycle{store: newMemoryStore(), now: fixedNow}
	clock := func() time.Time { return l.now }
	enricher := services.NewEnricher(holidays, facts, services.EnricherConfig{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	l.create = commands.NewCreatePackageCommandHandler(l.store, enricher, clock)
	l.update = commands.NewUpdatePackageStatusCommandHandler(l.store, fastTransitionPolicy(), clock)
	l.cancel = commands.NewCancelPackageCommandHandler(l.store, fastTransitionPolicy(), clock)
	l.record = commands.NewRecordTrackingEventCommandHandler(l.store, fastIngestionPolicy(), clock)
	l.purge = commands.NewPurgeDeliveredPackagesCommandHandler(l.store)
	return l
}

func (l *lifecycle) createPackage(t *testing.T, estimated time.Time) *shipment.Package {
	t.Helper()
	cmd, err := commands.NewCreatePackageCommand(kernel.NewUUID(), "Books", "Sender A", "Recipient B", estimated)
	require.NoError(t, err)
	p, err := l.create.Handle(t.Context(), cmd)
	require.NoError(t, err)
	return p
}

func (l *lifecycle) transition(t *testing.T, id kernel.UUID, status shipment.Status) (*shipment.Package, error) {
	t.Helper()
	cmd, err := commands.NewUpdatePackageStatusCommand(id, status)
	require.NoError(t, err)
	return l.update.Handle(t.Context(), cmd)
}

func (l *lifecycle) cancelPackage(t *testing.T, id kernel.UUID) (*shipment.Package, error) {
	t.Helper()
	cmd, err := commands.NewCancelPackageCommand(id)
	require.NoError(t, err)
	return l.cancel.Handle(t.Context(), cmd)
}

func (l *lifecycle) purgeAt(t *testing.T, now time.Time) int64 {
	t.Helper()
	cmd, err := commands.NewPurgeDeliveredPackagesCommand(now)
	require.NoError(t, err)
	deleted, err := l.purge.Handle(t.Context(), cmd)
	require.NoError(t, err)
	return deleted
}

func unreachable() (calendarStub, factStub) {
	err := errors.New("dial tcp: connection refused")
	return calendarStub{err: err}, factStub{err: err}
}

func TestLifecycle_CreateTransitDeliver(t *testing.T) {
	l := newLifecycle(calendarStub{}, factStub{fact: "Dogs sweat through their paws."})

	p := l.createPackage(t, time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, shipment.Created, p.Status())
	assert.Nil(t, p.DeliveredAt())

	l.now = fixedNow.Add(time.Hour)
	p, err := l.transition(t, p.ID(), shipment.InTransit)
	require.NoError(t, err)
	assert.Equal(t, shipment.InTransit, p.Status())

	l.now = fixedNow.Add(26 * time.Hour)
	p, err = l.transition(t, p.ID(), shipment.Delivered)
	require.NoError(t, err)
	assert.Equal(t, shipment.Delivered, p.Status())
	require.NotNil(t, p.DeliveredAt())
	assert.Equal(t, l.now, *p.DeliveredAt())
	assert.False(t, p.DeliveredAt().Before(p.CreatedAt()))

	_, err = l.transition(t, p.ID(), shipment.InTransit)
	var transitionErr *shipment.InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, shipment.Delivered, transitionErr.From)
	assert.Equal(t, shipment.InTransit, transitionErr.To)
}

func TestLifecycle_CreateCancelCancel(t *testing.T) {
	l := newLifecycle(calendarStub{}, factStub{fact: "fact"})
	p := l.createPackage(t, time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC))

	p, err := l.cancelPackage(t, p.ID())
	require.NoError(t, err)
	assert.Equal(t, shipment.Cancelled, p.Status())

	_, err = l.cancelPackage(t, p.ID())
	require.ErrorIs(t, err, shipment.ErrCannotCancel)
}

func TestLifecycle_HolidayRoundTrip(t *testing.T) {
	calendar := calendarStub{holidays: []ports.Holiday{
		{Date: time.Date(2025, 10, 12, 0, 0, 0, 0, time.UTC), Name: "Our Lady of Aparecida"},
	}}
	l := newLifecycle(calendar, factStub{fact: "fact"})

	assert.True(t, l.createPackage(t, time.Date(2025, 10, 12, 0, 0, 0, 0, time.UTC)).IsHoliday())
	assert.False(t, l.createPackage(t, time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)).IsHoliday())
}

func TestLifecycle_EnrichmentFailureIsolation(t *testing.T) {
	calendar, facts := unreachable()
	l := newLifecycle(calendar, facts)

	p := l.createPackage(t, time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, shipment.Created, p.Status())
	assert.False(t, p.IsHoliday())
	assert.Equal(t, "Fun fact not available", p.FunFact())
	assert.Equal(t, 1, l.store.writeCount())
}

func TestLifecycle_EventPredatingPackageWritesNothing(t *testing.T) {
	l := newLifecycle(unreachable())
	p := l.createPackage(t, time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC))
	writes := l.store.writeCount()

	cmd, err := commands.NewRecordTrackingEventCommand(p.ID(), kernel.NewUUID(), "hub", "scanned", p.CreatedAt().Add(-time.Minute))
	require.NoError(t, err)
	err = l.record.Handle(t.Context(), cmd)

	require.ErrorIs(t, err, shipment.ErrEventPredatesPackage)
	assert.Equal(t, writes, l.store.writeCount())
	assert.Zero(t, l.store.eventCount(p.ID()))
}

func TestLifecycle_RecordEventTouchesPackage(t *testing.T) {
	l := newLifecycle(unreachable())
	p := l.createPackage(t, time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC))

	l.now = fixedNow.Add(3 * time.Hour)
	cmd, err := commands.NewRecordTrackingEventCommand(p.ID(), kernel.NewUUID(), "hub", "scanned", fixedNow.Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, l.record.Handle(t.Context(), cmd))

	stored, err := l.store.Create().PackageRepository().Get(t.Context(), p.ID(), true)
	require.NoError(t, err)
	assert.Equal(t, l.now, stored.UpdatedAt())
	assert.Equal(t, 1, stored.Version())
	require.Len(t, stored.Events(), 1)
	assert.Equal(t, "hub", stored.Events()[0].Location())
}

func TestLifecycle_PurgeIsIdempotentAndKeepsUndelivered(t *testing.T) {
	l := newLifecycle(unreachable())
	estimated := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)

	l.now = time.Date(2023, 4, 1, 10, 0, 0, 0, time.UTC)
	expired := l.createPackage(t, estimated)
	_, err := l.transition(t, expired.ID(), shipment.InTransit)
	require.NoError(t, err)
	_, err = l.transition(t, expired.ID(), shipment.Delivered)
	require.NoError(t, err)

	recent := l.createPackage(t, estimated)
	l.now = time.Date(2024, 9, 1, 10, 0, 0, 0, time.UTC)
	_, err = l.transition(t, recent.ID(), shipment.InTransit)
	require.NoError(t, err)
	_, err = l.transition(t, recent.ID(), shipment.Delivered)
	require.NoError(t, err)

	created := l.createPackage(t, estimated)
	cancelled := l.createPackage(t, estimated)
	_, err = l.cancelPackage(t, cancelled.ID())
	require.NoError(t, err)

	purgeTime := time.Date(2025, 3, 1, 3, 0, 0, 0, time.UTC)
	assert.Equal(t, int64(1), l.purgeAt(t, purgeTime))
	assert.Equal(t, int64(0), l.purgeAt(t, purgeTime))

	repo := l.store.Create().PackageRepository()
	for _, id := range []kernel.UUID{recent.ID(), created.ID(), cancelled.ID()} {
		_, err = repo.Get(t.Context(), id, false)
		assert.NoError(t, err)
	}
	_, err = repo.Get(t.Context(), expired.ID(), false)
	assert.Error(t, err)
}

func TestLifecycle_PurgeCutoffIsStrict(t *testing.T) {
	l := newLifecycle(unreachable())
	deliveredAt := time.Date(2024, 3, 1, 3, 0, 0, 0, time.UTC)

	l.now = deliveredAt.Add(-time.Hour)
	p := l.createPackage(t, deliveredAt)
	_, err := l.transition(t, p.ID(), shipment.InTransit)
	require.NoError(t, err)
	l.now = deliveredAt
	_, err = l.transition(t, p.ID(), shipment.Delivered)
	require.NoError(t, err)

	assert.Equal(t, int64(0), l.purgeAt(t, deliveredAt.AddDate(1, 0, 0)))
	assert.Equal(t, int64(1), l.purgeAt(t, deliveredAt.AddDate(1, 0, 0).Add(time.Microsecond)))
}
