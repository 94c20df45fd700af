package commands

import (
	"context"

	"tracking/internal/core/domain/model/shipment"
)

// CreatePackageCommandHandler enriches and stores a new package.
// The lookups run before the transaction opens so no connection is held
// while external services answer.
type CreatePackageCommandHandler struct {
	uowFactory PackageUoWFactory
	enricher   PackageEnricher
	now        Clock
}

func NewCreatePackageCommandHandler(
	uowFactory PackageUoWFactory,
	enricher PackageEnricher,
	now Clock,
) CreatePackageCommandHandler {
	return CreatePackageCommandHandler{
		uowFactory: uowFactory,
		enricher:   enricher,
		now:        now,
	}
}

func (h *CreatePackageCommandHandler) Handle(ctx context.Context, cmd CreatePackageCommand) (*shipment.Package, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	enrichment := h.enricher.Enrich(ctx, cmd.EstimatedDeliveryDate())

	aggregate, err := shipment.NewPackage(
		cmd.PackageID(),
		cmd.Description(),
		cmd.Sender(),
		cmd.Recipient(),
		cmd.EstimatedDeliveryDate(),
		enrichment,
		h.now(),
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.PackageRepository().Add(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}
