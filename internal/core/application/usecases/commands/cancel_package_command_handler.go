package commands

import (
	"context"

	"tracking/internal/core/domain/model/shipment"
	"tracking/internal/pkg/retry"
)

// CancelPackageCommandHandler cancels a package under the same retry policy
// as status updates.
type CancelPackageCommandHandler struct {
	uowFactory PackageUoWFactory
	policy     retry.Policy
	now        Clock
}

func NewCancelPackageCommandHandler(
	uowFactory PackageUoWFactory,
	policy retry.Policy,
	now Clock,
) CancelPackageCommandHandler {
	return CancelPackageCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		now:        now,
	}
}

func (h *CancelPackageCommandHandler) Handle(ctx context.Context, cmd CancelPackageCommand) (*shipment.Package, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var cancelled *shipment.Package
	err := h.policy.Do(ctx, func(ctx context.Context) error {
		aggregate, err := mutatePackage(ctx, h.uowFactory, cmd.PackageID(), func(p *shipment.Package) error {
			return p.Cancel(h.now())
		})
		if err != nil {
			return err
		}
		cancelled = aggregate
		return nil
	})
	if err != nil {
		return nil, err
	}

	return cancelled, nil
}
