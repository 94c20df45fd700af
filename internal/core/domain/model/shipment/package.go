package shipment

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/errs"
	"tracking/internal/pkg/guard"
)

var (
	ErrPackageIsNotConstructed = errors.New("Package must be created via NewPackage constructor")

	// ErrEventPredatesPackage rejects tracking events stamped before the package existed.
	ErrEventPredatesPackage = errors.New("event timestamp precedes package creation")
)

// Enrichment is the best-effort annotation computed when a package is created.
type Enrichment struct {
	IsHoliday bool
	FunFact   string
}

// Package is the aggregate root of the tracking domain.
//
// Invariants:
//   - deliveredAt is set if and only if status is DELIVERED
//   - status only moves along the transition table
//   - createdAt never changes, updatedAt moves on every mutation
type Package struct {
	id                    kernel.UUID
	description           string
	sender                string
	recipient             string
	status                Status
	createdAt             time.Time
	updatedAt             time.Time
	deliveredAt           *time.Time
	estimatedDeliveryDate time.Time
	enrichment            Enrichment
	version               int
	events                []*TrackingEvent
	guard                 guard.ConstructorGuard
}

// NewPackage creates a package in CREATED status. estimatedDeliveryDate is
// truncated to a calendar date.
func NewPackage(
	id kernel.UUID,
	description string,
	sender string,
	recipient string,
	estimatedDeliveryDate time.Time,
	enrichment Enrichment,
	now time.Time,
) (*Package, error) {
	p := &Package{
		description: description,
		status:      Created,
		createdAt:   now,
		updatedAt:   now,
		enrichment:  enrichment,
		events:      []*TrackingEvent{},
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setSender(sender),
		p.setRecipient(recipient),
		p.setEstimatedDeliveryDate(estimatedDeliveryDate),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// RestoreParams holds the persisted state of a package.
// A nil Events slice means the events were not loaded.
type RestoreParams struct {
	ID                    kernel.UUID
	Description           string
	Sender                string
	Recipient             string
	Status                Status
	CreatedAt             time.Time
	UpdatedAt             time.Time
	DeliveredAt           *time.Time
	EstimatedDeliveryDate time.Time
	Enrichment            Enrichment
	Version               int
	Events                []*TrackingEvent
}

// RestorePackage rebuilds a package from storage and rechecks its invariants.
func RestorePackage(params RestoreParams) (*Package, error) {
	p := &Package{
		description: params.Description,
		createdAt:   params.CreatedAt,
		updatedAt:   params.UpdatedAt,
		enrichment:  params.Enrichment,
		version:     params.Version,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(params.ID),
		p.setSender(params.Sender),
		p.setRecipient(params.Recipient),
		p.setEstimatedDeliveryDate(params.EstimatedDeliveryDate),
		p.setStatus(params.Status, params.DeliveredAt),
		p.setEvents(params.Events),
	); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Package) Validate() error {
	if p == nil {
		return ErrPackageIsNotConstructed
	}
	return p.guard.Validate(ErrPackageIsNotConstructed)
}

func (p *Package) IsEqual(other *Package) bool {
	return other != nil && p.id.IsEqual(other.id)
}

func (p *Package) ID() kernel.UUID {
	return p.id
}

func (p *Package) Description() string {
	return p.description
}

func (p *Package) Sender() string {
	return p.sender
}

func (p *Package) Recipient() string {
	return p.recipient
}

func (p *Package) Status() Status {
	return p.status
}

func (p *Package) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Package) UpdatedAt() time.Time {
	return p.updatedAt
}

func (p *Package) EstimatedDeliveryDate() time.Time {
	return p.estimatedDeliveryDate
}

func (p *Package) IsHoliday() bool {
	return p.enrichment.IsHoliday
}

func (p *Package) FunFact() string {
	return p.enrichment.FunFact
}

// Version is the optimistic concurrency counter of the stored row.
func (p *Package) Version() int {
	return p.version
}

// AdvanceVersion records that a write of the package has been persisted.
func (p *Package) AdvanceVersion() {
	p.version++
}

// DeliveredAt returns a copy so callers cannot rewrite the delivery stamp.
func (p *Package) DeliveredAt() *time.Time {
	if p.deliveredAt == nil {
		return nil
	}
	deliveredAt := *p.deliveredAt
	return &deliveredAt
}

// Events returns nil when the events were not loaded with the package.
func (p *Package) Events() []*TrackingEvent {
	if p.events == nil {
		return nil
	}
	return slices.Clone(p.events)
}

// UpdateStatus applies a generic status update.
func (p *Package) UpdateStatus(requested Status, now time.Time) error {
	now = p.notBeforeCreation(now)

	outcome, err := Transition(p.status, requested, now)
	if err != nil {
		return err
	}

	p.status = outcome.Status
	if outcome.DeliveredAt != nil {
		p.deliveredAt = outcome.DeliveredAt
	}
	p.updatedAt = now
	return nil
}

// Cancel moves the package to CANCELLED.
func (p *Package) Cancel(now time.Time) error {
	status, err := Cancel(p.status)
	if err != nil {
		return err
	}

	p.status = status
	p.updatedAt = p.notBeforeCreation(now)
	return nil
}

// RecordEvent attaches a tracking event. The event may not predate the package.
func (p *Package) RecordEvent(event *TrackingEvent, now time.Time) error {
	if err := event.Validate(); err != nil {
		return err
	}
	if event.Timestamp().Before(p.createdAt) {
		return fmt.Errorf("%w: event at %s, package created at %s",
			ErrEventPredatesPackage,
			event.Timestamp().Format(time.RFC3339Nano),
			p.createdAt.Format(time.RFC3339Nano),
		)
	}

	if p.events != nil {
		p.events = append(p.events, event)
	}
	p.updatedAt = p.notBeforeCreation(now)
	return nil
}

// notBeforeCreation keeps every stamp at or after createdAt when clocks drift.
func (p *Package) notBeforeCreation(now time.Time) time.Time {
	if now.Before(p.createdAt) {
		return p.createdAt
	}
	return now
}

func (p *Package) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Package) setSender(sender string) error {
	if strings.TrimSpace(sender) == "" {
		return errs.NewValueIsRequiredError("sender")
	}
	p.sender = sender
	return nil
}

func (p *Package) setRecipient(recipient string) error {
	if strings.TrimSpace(recipient) == "" {
		return errs.NewValueIsRequiredError("recipient")
	}
	p.recipient = recipient
	return nil
}

func (p *Package) setEstimatedDeliveryDate(date time.Time) error {
	if date.IsZero() {
		return errs.NewValueIsRequiredError("estimatedDeliveryDate")
	}
	p.estimatedDeliveryDate = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return nil
}

func (p *Package) setStatus(status Status, deliveredAt *time.Time) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if (status == Delivered) != (deliveredAt != nil) {
		return errs.NewValueIsInvalidErrorWithCause(
			"deliveredAt",
			fmt.Errorf("delivery stamp does not match status %s", status),
		)
	}
	p.status = status
	if deliveredAt != nil {
		stamp := *deliveredAt
		p.deliveredAt = &stamp
	}
	return nil
}

func (p *Package) setEvents(events []*TrackingEvent) error {
	if events == nil {
		return nil
	}
	for _, event := range events {
		if err := event.Validate(); err != nil {
			return err
		}
	}
	p.events = slices.Clone(events)
	return nil
}
