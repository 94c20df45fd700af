package commands

import (
	"errors"
	"strings"
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/errs"
	"tracking/internal/pkg/guard"
)

var ErrCreatePackageCommandIsNotConstructed = errors.New(
	"CreatePackageCommand must be created via NewCreatePackageCommand constructor",
)

// CreatePackageCommand registers a new shipment.
type CreatePackageCommand struct { //nolint:recvcheck //using for validation
	packageID             kernel.UUID
	description           string
	sender                string
	recipient             string
	estimatedDeliveryDate time.Time

	guard guard.ConstructorGuard
}

func NewCreatePackageCommand(
	packageID kernel.UUID,
	description string,
	sender string,
	recipient string,
	estimatedDeliveryDate time.Time,
) (CreatePackageCommand, error) {
	cmd := CreatePackageCommand{
		description: description,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPackageID(packageID),
		cmd.setSender(sender),
		cmd.setRecipient(recipient),
		cmd.setEstimatedDeliveryDate(estimatedDeliveryDate),
	); err != nil {
		return CreatePackageCommand{}, err
	}

	return cmd, nil
}

func (c CreatePackageCommand) Validate() error {
	return c.guard.Validate(ErrCreatePackageCommandIsNotConstructed)
}

func (c CreatePackageCommand) PackageID() kernel.UUID {
	return c.packageID
}

func (c CreatePackageCommand) Description() string {
	return c.description
}

func (c CreatePackageCommand) Sender() string {
	return c.sender
}

func (c CreatePackageCommand) Recipient() string {
	return c.recipient
}

func (c CreatePackageCommand) EstimatedDeliveryDate() time.Time {
	return c.estimatedDeliveryDate
}

func (c *CreatePackageCommand) setPackageID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.packageID = id
	return nil
}

func (c *CreatePackageCommand) setSender(sender string) error {
	if strings.TrimSpace(sender) == "" {
		return errs.NewValueIsRequiredError("sender")
	}
	c.sender = sender
	return nil
}

func (c *CreatePackageCommand) setRecipient(recipient string) error {
	if strings.TrimSpace(recipient) == "" {
		return errs.NewValueIsRequiredError("recipient")
	}
	c.recipient = recipient
	return nil
}

func (c *CreatePackageCommand) setEstimatedDeliveryDate(date time.Time) error {
	if date.IsZero() {
		return errs.NewValueIsRequiredError("estimatedDeliveryDate")
	}
	c.estimatedDeliveryDate = date
	return nil
}
