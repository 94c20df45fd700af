package commands

import (
	"errors"
	"strings"
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/errs"
	"tracking/internal/pkg/guard"
)

var ErrRecordTrackingEventCommandIsNotConstructed = errors.New(
	"RecordTrackingEventCommand must be created via NewRecordTrackingEventCommand constructor",
)

// RecordTrackingEventCommand appends a checkpoint to a package.
// The event id is fixed at construction so every retry inserts the same row.
type RecordTrackingEventCommand struct { //nolint:recvcheck //using for validation
	packageID   kernel.UUID
	eventID     kernel.UUID
	location    string
	description string
	timestamp   time.Time

	guard guard.ConstructorGuard
}

func NewRecordTrackingEventCommand(
	packageID kernel.UUID,
	eventID kernel.UUID,
	location string,
	description string,
	timestamp time.Time,
) (RecordTrackingEventCommand, error) {
	cmd := RecordTrackingEventCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setPackageID(packageID),
		cmd.setEventID(eventID),
		cmd.setLocation(location),
		cmd.setDescription(description),
		cmd.setTimestamp(timestamp),
	); err != nil {
		return RecordTrackingEventCommand{}, err
	}

	return cmd, nil
}

func (c RecordTrackingEventCommand) Validate() error {
	return c.guard.Validate(ErrRecordTrackingEventCommandIsNotConstructed)
}

func (c RecordTrackingEventCommand) PackageID() kernel.UUID {
	return c.packageID
}

func (c RecordTrackingEventCommand) EventID() kernel.UUID {
	return c.eventID
}

func (c RecordTrackingEventCommand) Location() string {
	return c.location
}

func (c RecordTrackingEventCommand) Description() string {
	return c.description
}

func (c RecordTrackingEventCommand) Timestamp() time.Time {
	return c.timestamp
}

func (c *RecordTrackingEventCommand) setPackageID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.packageID = id
	return nil
}

func (c *RecordTrackingEventCommand) setEventID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.eventID = id
	return nil
}

func (c *RecordTrackingEventCommand) setLocation(location string) error {
	if strings.TrimSpace(location) == "" {
		return errs.NewValueIsRequiredError("location")
	}
	c.location = location
	return nil
}

func (c *RecordTrackingEventCommand) setDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return errs.NewValueIsRequiredError("description")
	}
	c.description = description
	return nil
}

func (c *RecordTrackingEventCommand) setTimestamp(timestamp time.Time) error {
	if timestamp.IsZero() {
		return errs.NewValueIsRequiredError("timestamp")
	}
	c.timestamp = timestamp
	return nil
}
