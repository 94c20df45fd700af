package ports

import (
	"context"
	"time"
)

// FailedTrackingEvent is a tracking event that could not be recorded.
type FailedTrackingEvent struct {
	PackageID   string
	Location    string
	Description string
	Timestamp   time.Time
	Reason      string
	Attempts    int
	FailedAt    time.Time
}

// DeadLetterPublisher hands failed events to an out-of-band channel for inspection.
type DeadLetterPublisher interface {
	PublishDeadLetter(ctx context.Context, failed FailedTrackingEvent) error
}
