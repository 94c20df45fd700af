// Package kernel provides the domain primitives shared by every aggregate of the
// tracking system.
//
// The package includes:
//   - UUID: a value object identifying packages and tracking events
//
// Values are created through constructors that validate their input, so a value
// obtained without an error is always usable. The zero value is never valid and
// Validate reports it, which lets aggregates reject fields that were left unset.
//
// Values are immutable and compare with IsEqual rather than by inspecting the
// wrapped representation. Adapters convert to and from storage and wire formats
// with Raw, String, UUIDFromString and RestoreUUID:
//
//	id, err := kernel.UUIDFromString(req.PackageID)
//	if err != nil {
//		return err // a validation error naming the "id" field
//	}
//	row.ID = id.Raw()
package kernel
