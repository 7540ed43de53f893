// Package jobs provides scheduled background tasks for the kiosk.
//
// Jobs are built on github.com/robfig/cron/v3 and managed through JobManager:
//
//	jobManager := jobs.NewJobManager(workflow, cfg.IdleTimeout, logger)
//	if err := jobManager.StartAll(); err != nil {
//		logger.Fatal("Failed to start jobs", zap.Error(err))
//	}
//	defer jobManager.StopAll()
//
// # Available Jobs
//
// SessionReaperJob runs every minute and ends kiosk sessions that have been idle
// longer than the configured timeout, stopping their window pollers.
package jobs
