// Package jobs provides scheduled background tasks for the tracking service.
//
// Jobs are built on github.com/robfig/cron/v3 with a seconds field and are
// managed through JobManager:
//
//	jobManager := jobs.NewJobManager(purgeHandler, cfg.PurgeSchedule, m, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Available Jobs
//
// PurgeJob removes packages delivered more than a year ago. It runs daily at
// 03:00 by default and never overlaps with a previous run still in progress.
package jobs
