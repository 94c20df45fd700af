package jobs

import (
	"fmt"
	"log/slog"

	"tracking/internal/metrics"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	purgeJob *PurgeJob
}

func NewJobManager(purgeHandler Purger, purgeSchedule string, m *metrics.Metrics, logger *slog.Logger) *JobManager {
	return &JobManager{
		purgeJob: NewPurgeJob(purgeHandler, purgeSchedule, m, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.purgeJob.Start(); err != nil {
		return fmt.Errorf("failed to start purge job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs and waits for running ones.
func (jm *JobManager) StopAll() {
	jm.purgeJob.Stop()
}
