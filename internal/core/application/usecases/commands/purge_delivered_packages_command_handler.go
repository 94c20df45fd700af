package commands

import (
	"context"
)

// PurgeDeliveredPackagesCommandHandler deletes expired deliveries and their
// events. Packages that were never delivered are kept.
type PurgeDeliveredPackagesCommandHandler struct {
	uowFactory PackageUoWFactory
}

func NewPurgeDeliveredPackagesCommandHandler(uowFactory PackageUoWFactory) PurgeDeliveredPackagesCommandHandler {
	return PurgeDeliveredPackagesCommandHandler{uowFactory: uowFactory}
}

// Handle returns the number of packages removed.
func (h *PurgeDeliveredPackagesCommandHandler) Handle(
	ctx context.Context,
	cmd PurgeDeliveredPackagesCommand,
) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	deleted, err := uow.PackageRepository().DeleteDeliveredBefore(ctx, cmd.Cutoff())
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return deleted, nil
}
