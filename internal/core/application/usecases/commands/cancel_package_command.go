package commands

import (
	"errors"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/guard"
)

var ErrCancelPackageCommandIsNotConstructed = errors.New(
	"CancelPackageCommand must be created via NewCancelPackageCommand constructor",
)

// CancelPackageCommand requests the cancellation of a package.
type CancelPackageCommand struct { //nolint:recvcheck //using for validation
	packageID kernel.UUID

	guard guard.ConstructorGuard
}

func NewCancelPackageCommand(packageID kernel.UUID) (CancelPackageCommand, error) {
	if err := packageID.Validate(); err != nil {
		return CancelPackageCommand{}, err
	}

	return CancelPackageCommand{
		packageID: packageID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c CancelPackageCommand) Validate() error {
	return c.guard.Validate(ErrCancelPackageCommandIsNotConstructed)
}

func (c CancelPackageCommand) PackageID() kernel.UUID {
	return c.packageID
}
