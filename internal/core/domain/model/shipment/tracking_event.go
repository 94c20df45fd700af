package shipment

import (
	"errors"
	"strings"
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/errs"
	"tracking/internal/pkg/guard"
)

var ErrTrackingEventIsNotConstructed = errors.New("TrackingEvent must be created via NewTrackingEvent constructor")

// TrackingEvent is a timestamped checkpoint of a package. It is immutable.
type TrackingEvent struct {
	id          kernel.UUID
	location    string
	description string
	timestamp   time.Time
	guard       guard.ConstructorGuard
}

func NewTrackingEvent(id kernel.UUID, location, description string, timestamp time.Time) (*TrackingEvent, error) {
	event := &TrackingEvent{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		event.setID(id),
		event.setLocation(location),
		event.setDescription(description),
		event.setTimestamp(timestamp),
	); err != nil {
		return nil, err
	}

	return event, nil
}

// RestoreTrackingEvent rebuilds an event loaded from storage.
func RestoreTrackingEvent(id kernel.UUID, location, description string, timestamp time.Time) (*TrackingEvent, error) {
	return NewTrackingEvent(id, location, description, timestamp)
}

func (e *TrackingEvent) Validate() error {
	if e == nil {
		return ErrTrackingEventIsNotConstructed
	}
	return e.guard.Validate(ErrTrackingEventIsNotConstructed)
}

func (e *TrackingEvent) ID() kernel.UUID {
	return e.id
}

func (e *TrackingEvent) Location() string {
	return e.location
}

func (e *TrackingEvent) Description() string {
	return e.description
}

func (e *TrackingEvent) Timestamp() time.Time {
	return e.timestamp
}

func (e *TrackingEvent) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	e.id = id
	return nil
}

func (e *TrackingEvent) setLocation(location string) error {
	if strings.TrimSpace(location) == "" {
		return errs.NewValueIsRequiredError("location")
	}
	e.location = location
	return nil
}

func (e *TrackingEvent) setDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return errs.NewValueIsRequiredError("description")
	}
	e.description = description
	return nil
}

func (e *TrackingEvent) setTimestamp(timestamp time.Time) error {
	if timestamp.IsZero() {
		return errs.NewValueIsRequiredError("timestamp")
	}
	e.timestamp = timestamp
	return nil
}
