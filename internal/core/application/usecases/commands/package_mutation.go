package commands

import (
	"context"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/shipment"
)

// mutatePackage runs load, mutate, persist and commit as one unit of work.
// Nothing is written when load or mutate fails.
func mutatePackage(
	ctx context.Context,
	uowFactory PackageUoWFactory,
	id kernel.UUID,
	mutate func(aggregate *shipment.Package) error,
) (*shipment.Package, error) {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.PackageRepository()
	aggregate, err := repo.Get(ctx, id, false)
	if err != nil {
		return nil, err
	}

	if err = mutate(aggregate); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}
