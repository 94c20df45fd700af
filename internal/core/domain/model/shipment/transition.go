package shipment

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrCannotCancel      = errors.New("package cannot be cancelled")
)

// InvalidTransitionError carries both sides of a rejected status update.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s from %s to %s", ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// CannotCancelError is returned when cancel is requested outside CREATED.
type CannotCancelError struct {
	Status Status
}

func (e *CannotCancelError) Error() string {
	return fmt.Sprintf("%s, current status: %s", ErrCannotCancel, e.Status)
}

func (e *CannotCancelError) Unwrap() error {
	return ErrCannotCancel
}

// Trigger names the operation allowed to fire a transition.
type Trigger int

const (
	TriggerUpdate Trigger = iota + 1
	TriggerCancel
)

type transitionRule struct {
	from           Status
	to             Status
	trigger        Trigger
	stampsDelivery bool
}

var transitionTable = []transitionRule{
	{from: Created, to: InTransit, trigger: TriggerUpdate},
	{from: InTransit, to: Delivered, trigger: TriggerUpdate, stampsDelivery: true},
	{from: Created, to: Cancelled, trigger: TriggerCancel},
}

func findRule(from, to Status, trigger Trigger) (transitionRule, bool) {
	for _, r := range transitionTable {
		if r.from == from && r.to == to && r.trigger == trigger {
			return r, true
		}
	}
	return transitionRule{}, false
}

// Outcome is the result of an accepted transition. DeliveredAt is set only
// when the transition enters DELIVERED.
type Outcome struct {
	Status      Status
	DeliveredAt *time.Time
}

// Transition decides a generic status update. Cancellation is not reachable
// through it, even though CREATED -> CANCELLED is a valid move.
func Transition(current, requested Status, now time.Time) (Outcome, error) {
	r, ok := findRule(current, requested, TriggerUpdate)
	if !ok {
		return Outcome{}, &InvalidTransitionError{From: current, To: requested}
	}

	outcome := Outcome{Status: r.to}
	if r.stampsDelivery {
		deliveredAt := now
		outcome.DeliveredAt = &deliveredAt
	}
	return outcome, nil
}

// Cancel decides a cancel request.
func Cancel(current Status) (Status, error) {
	r, ok := findRule(current, Cancelled, TriggerCancel)
	if !ok {
		return Unknown, &CannotCancelError{Status: current}
	}
	return r.to, nil
}
