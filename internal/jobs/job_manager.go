package jobs

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// JobManager coordinates all scheduled jobs in the application
type JobManager struct {
	sessionReaperJob *SessionReaperJob
}

// NewJobManager creates a new job manager with all required jobs
func NewJobManager(reaper IdleReaper, maxIdle time.Duration, logger *zap.Logger) *JobManager {
	return &JobManager{
		sessionReaperJob: NewSessionReaperJob(reaper, maxIdle, logger),
	}
}

// StartAll starts all scheduled jobs
func (jm *JobManager) StartAll() error {
	if err := jm.sessionReaperJob.Start(); err != nil {
		return fmt.Errorf("failed to start session reaper job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs
func (jm *JobManager) StopAll() {
	jm.sessionReaperJob.Stop()
}
