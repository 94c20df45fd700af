package commands

import (
	"errors"
	"time"

	"tracking/internal/pkg/errs"
	"tracking/internal/pkg/guard"
)

// RetentionPeriodYears is how long delivered packages are kept.
const RetentionPeriodYears = 1

var ErrPurgeDeliveredPackagesCommandIsNotConstructed = errors.New(
	"PurgeDeliveredPackagesCommand must be created via NewPurgeDeliveredPackagesCommand constructor",
)

// PurgeDeliveredPackagesCommand removes packages delivered before the retention cutoff.
type PurgeDeliveredPackagesCommand struct { //nolint:recvcheck //using for validation
	now time.Time

	guard guard.ConstructorGuard
}

func NewPurgeDeliveredPackagesCommand(now time.Time) (PurgeDeliveredPackagesCommand, error) {
	if now.IsZero() {
		return PurgeDeliveredPackagesCommand{}, errs.NewValueIsRequiredError("now")
	}

	return PurgeDeliveredPackagesCommand{
		now:   now,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c PurgeDeliveredPackagesCommand) Validate() error {
	return c.guard.Validate(ErrPurgeDeliveredPackagesCommandIsNotConstructed)
}

func (c PurgeDeliveredPackagesCommand) Now() time.Time {
	return c.now
}

// Cutoff is one calendar year before Now. Packages delivered strictly
// before it are purged.
func (c PurgeDeliveredPackagesCommand) Cutoff() time.Time {
	return c.now.AddDate(-RetentionPeriodYears, 0, 0)
}
