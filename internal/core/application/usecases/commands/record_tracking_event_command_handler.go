package commands

import (
	"context"
	"errors"

	"tracking/internal/core/domain/model/shipment"
	"tracking/internal/core/ports"
	"tracking/internal/pkg/retry"
)

// RecordTrackingEventCommandHandler appends a tracking event and touches the
// package in one transaction.
//
// A missing package or an event older than the package is rejected before
// anything is written. Contention is retried under policy. An event whose id
// is already stored is a no-op, so redelivery does not touch the package again.
type RecordTrackingEventCommandHandler struct {
	uowFactory PackageUoWFactory
	policy     retry.Policy
	now        Clock
}

func NewRecordTrackingEventCommandHandler(
	uowFactory PackageUoWFactory,
	policy retry.Policy,
	now Clock,
) RecordTrackingEventCommandHandler {
	return RecordTrackingEventCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		now:        now,
	}
}

func (h *RecordTrackingEventCommandHandler) Handle(ctx context.Context, cmd RecordTrackingEventCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.policy.Do(ctx, func(ctx context.Context) error {
		return h.record(ctx, cmd)
	})
}

func (h *RecordTrackingEventCommandHandler) record(ctx context.Context, cmd RecordTrackingEventCommand) error {
	event, err := shipment.NewTrackingEvent(cmd.EventID(), cmd.Location(), cmd.Description(), cmd.Timestamp())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.PackageRepository()
	aggregate, err := repo.Get(ctx, cmd.PackageID(), false)
	if err != nil {
		return err
	}

	if err = aggregate.RecordEvent(event, h.now()); err != nil {
		return err
	}

	if err = repo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = repo.AddEvent(ctx, aggregate.ID(), event); err != nil {
		if errors.Is(err, ports.ErrEventAlreadyRecorded) {
			return nil
		}
		return err
	}

	return uow.Commit(ctx)
}
