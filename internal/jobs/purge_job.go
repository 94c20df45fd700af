package jobs

import (
	"context"
	"log/slog"
	"time"

	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/metrics"

	"github.com/robfig/cron/v3"
)

// DefaultPurgeSchedule fires every day at 03:00:00.
const DefaultPurgeSchedule = "0 0 3 * * *"

// Purger deletes delivered packages older than the command's cutoff.
type Purger interface {
	Handle(ctx context.Context, cmd commands.PurgeDeliveredPackagesCommand) (int64, error)
}

// PurgeJob runs the retention sweep on a cron schedule.
type PurgeJob struct {
	handler  Purger
	schedule string
	metrics  *metrics.Metrics
	now      func() time.Time
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewPurgeJob(handler Purger, schedule string, m *metrics.Metrics, logger *slog.Logger) *PurgeJob {
	if schedule == "" {
		schedule = DefaultPurgeSchedule
	}

	logger = logger.With("component", "purge_job")
	return &PurgeJob{
		handler:  handler,
		schedule: schedule,
		metrics:  m,
		now:      func() time.Time { return time.Now().UTC() },
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger})),
		),
		logger: logger,
	}
}

// Start registers the sweep and starts the scheduler.
func (j *PurgeJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		_, _ = j.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Purge job started", "schedule", j.schedule)
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (j *PurgeJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Purge job stopped")
}

// RunOnce performs a single sweep relative to the current time.
func (j *PurgeJob) RunOnce(ctx context.Context) (int64, error) {
	cmd, err := commands.NewPurgeDeliveredPackagesCommand(j.now())
	if err != nil {
		return 0, err
	}

	deleted, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Purge job failed", "cutoff", cmd.Cutoff(), "error", err)
		return 0, err
	}

	if j.metrics != nil {
		j.metrics.Purged(deleted)
	}
	j.logger.InfoContext(ctx, "Purged delivered packages", "deleted", deleted, "cutoff", cmd.Cutoff())
	return deleted, nil
}

// cronLogger routes scheduler messages into slog.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Info(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error(msg, append(keysAndValues, "error", err)...)
}
