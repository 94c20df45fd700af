package commands

import (
	"errors"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/shipment"
	"tracking/internal/pkg/guard"
)

var ErrUpdatePackageStatusCommandIsNotConstructed = errors.New(
	"UpdatePackageStatusCommand must be created via NewUpdatePackageStatusCommand constructor",
)

// UpdatePackageStatusCommand requests a generic status transition.
// Whether the transition is allowed is decided against the stored status.
type UpdatePackageStatusCommand struct { //nolint:recvcheck //using for validation
	packageID kernel.UUID
	status    shipment.Status

	guard guard.ConstructorGuard
}

func NewUpdatePackageStatusCommand(packageID kernel.UUID, status shipment.Status) (UpdatePackageStatusCommand, error) {
	cmd := UpdatePackageStatusCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setPackageID(packageID),
		cmd.setStatus(status),
	); err != nil {
		return UpdatePackageStatusCommand{}, err
	}

	return cmd, nil
}

func (c UpdatePackageStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdatePackageStatusCommandIsNotConstructed)
}

func (c UpdatePackageStatusCommand) PackageID() kernel.UUID {
	return c.packageID
}

func (c UpdatePackageStatusCommand) Status() shipment.Status {
	return c.status
}

func (c *UpdatePackageStatusCommand) setPackageID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.packageID = id
	return nil
}

func (c *UpdatePackageStatusCommand) setStatus(status shipment.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	c.status = status
	return nil
}
