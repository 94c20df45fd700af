// Package shipment models a tracked package and its lifecycle. It implements the
// Package aggregate root together with the TrackingEvents it owns.
//
// The package includes:
//   - Package: the aggregate root holding sender, recipient, enrichment and status
//   - Status: the lifecycle states and their text forms
//   - Transition and Cancel: the state machine deciding every status change
//   - TrackingEvent: an immutable, timestamped location report
//
// A Package moves through a small state machine:
//
//	CREATED ──> IN_TRANSIT ──> DELIVERED
//	   │
//	   └──(cancel)──> CANCELLED
//
// DELIVERED and CANCELLED are terminal. Every permitted move is listed once in
// the transition table, tagged with the operation that may trigger it; both the
// generic status update and the dedicated cancel operation consult that table.
//
// Key business rules:
//   - A package needs a description, sender and recipient; blanks are rejected
//   - Entering DELIVERED stamps deliveredAt, and no other transition touches it
//   - Every accepted change advances updatedAt to the time supplied by the caller
//   - A tracking event may not precede the creation of its package
//
// NewPackage and NewTrackingEvent validate new values. RestorePackage and
// RestoreTrackingEvent rebuild values loaded from storage and check the same
// invariants. Version is an optimistic concurrency counter owned by the
// persistence layer; the aggregate only carries it between load and save.
package shipment
