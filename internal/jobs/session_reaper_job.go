package jobs

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// IdleReaper ends sessions idle longer than maxIdle and reports how many were ended
type IdleReaper interface {
	ReapIdle(maxIdle time.Duration) int
}

// SessionReaperJob periodically ends idle kiosk sessions
type SessionReaperJob struct {
	reaper   IdleReaper
	maxIdle  time.Duration
	schedule string
	cron     *cron.Cron
	logger   *zap.Logger
}

// NewSessionReaperJob creates a reaper running every minute
func NewSessionReaperJob(reaper IdleReaper, maxIdle time.Duration, logger *zap.Logger) *SessionReaperJob {
	return &SessionReaperJob{
		reaper:   reaper,
		maxIdle:  maxIdle,
		schedule: "@every 1m",
		cron:     cron.New(),
		logger:   logger.With(zap.String("component", "session_reaper_job")),
	}
}

// Start schedules the job
func (j *SessionReaperJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Session reaper started",
		zap.String("schedule", j.schedule),
		zap.Duration("max_idle", j.maxIdle),
	)
	return nil
}

// Stop stops the scheduler and waits for a running pass to finish
func (j *SessionReaperJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Session reaper stopped")
}

func (j *SessionReaperJob) run() {
	if n := j.reaper.ReapIdle(j.maxIdle); n > 0 {
		j.logger.Info("Idle sessions ended", zap.Int("count", n))
	}
}
