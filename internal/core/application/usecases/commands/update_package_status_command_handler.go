package commands

import (
	"context"

	"tracking/internal/core/domain/model/shipment"
	"tracking/internal/pkg/retry"
)

// UpdatePackageStatusCommandHandler applies a status transition.
//
// The whole unit of work is retried under policy when the store reports
// contention. Business rule failures end the operation on the first attempt.
// When the policy gives up, the returned error is a *retry.ExhaustedError.
type UpdatePackageStatusCommandHandler struct {
	uowFactory PackageUoWFactory
	policy     retry.Policy
	now        Clock
}

func NewUpdatePackageStatusCommandHandler(
	uowFactory PackageUoWFactory,
	policy retry.Policy,
	now Clock,
) UpdatePackageStatusCommandHandler {
	return UpdatePackageStatusCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		now:        now,
	}
}

func (h *UpdatePackageStatusCommandHandler) Handle(
	ctx context.Context,
	cmd UpdatePackageStatusCommand,
) (*shipment.Package, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var updated *shipment.Package
	err := h.policy.Do(ctx, func(ctx context.Context) error {
		aggregate, err := mutatePackage(ctx, h.uowFactory, cmd.PackageID(), func(p *shipment.Package) error {
			return p.UpdateStatus(cmd.Status(), h.now())
		})
		if err != nil {
			return err
		}
		updated = aggregate
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}
