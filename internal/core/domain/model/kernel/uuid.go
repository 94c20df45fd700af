package kernel

import (
	"fmt"

	"tracking/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrUUIDIsNotConstructed is returned when validating a nil identifier.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError("UUID must be created via NewUUID or UUIDFromString")

// UUID identifies packages and tracking events. It wraps github.com/google/uuid
// so the domain never depends on the library type directly.
//
// The zero value is invalid. Construct a UUID with NewUUID, UUIDFromString or
// RestoreUUID; each rejects the nil UUID. UUID is immutable and safe to share
// between goroutines.
//
// Example usage:
//
//	id := kernel.NewUUID()
//
//	parsed, err := kernel.UUIDFromString("550e8400-e29b-41d4-a716-446655440000")
//	if err != nil {
//		return err
//	}
//
//	if id.IsEqual(parsed) {
//		// same identity
//	}
type UUID struct {
	id uuid.UUID
}

// NewUUID generates a random (version 4) identifier.
func NewUUID() UUID {
	return UUID{id: uuid.New()}
}

// UUIDFromString parses the textual forms accepted by google/uuid and rejects the nil UUID.
func UUIDFromString(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, errs.NewValueIsInvalidErrorWithCause("id", fmt.Errorf("invalid UUID format: %w", err))
	}
	return RestoreUUID(id)
}

// RestoreUUID wraps an identifier loaded from storage.
func RestoreUUID(id uuid.UUID) (UUID, error) {
	restored := UUID{id: id}
	if err := restored.Validate(); err != nil {
		return UUID{}, err
	}
	return restored, nil
}

// String returns the canonical hyphenated lower-case form.
func (u UUID) String() string {
	return u.id.String()
}

// Raw returns the underlying google/uuid value for persistence.
func (u UUID) Raw() uuid.UUID {
	return u.id
}

// IsEqual reports whether both values carry the same identifier.
func (u UUID) IsEqual(other UUID) bool {
	return u.id == other.id
}

// Validate returns ErrUUIDIsNotConstructed for the zero value.
func (u UUID) Validate() error {
	if u.id == uuid.Nil {
		return ErrUUIDIsNotConstructed
	}
	return nil
}
