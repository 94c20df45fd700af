package commands

import (
	"fmt"
	"strings"
	"time"

	"tracking/internal/pkg/errs"
)

// timestampLayouts are tried in order. Values without a zone are taken as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

// ParseTimestamp reads an event timestamp from an inbound message and
// normalizes it to UTC with microsecond precision.
func ParseTimestamp(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errs.NewValueIsRequiredError(field)
	}

	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.UTC().Truncate(time.Microsecond), nil
		}
	}

	return time.Time{}, errs.NewValueIsInvalidErrorWithCause(field, fmt.Errorf("unsupported timestamp %q", value))
}
