package job

import (
	"context"
	"time"

	"go.uber.org/zap"

	"collab-board-api/internal/repository"
)

// CleanupJob prunes rendered activity feed entries older than the
// retention window. Audit entries are never touched; the ledger is
// append-only and kept forever.
type CleanupJob struct {
	activityRepo  repository.ActivityRepository
	retentionDays int
	logger        *zap.Logger
}

// NewCleanupJob creates a CleanupJob
func NewCleanupJob(activityRepo repository.ActivityRepository, retentionDays int, logger *zap.Logger) *CleanupJob {
	return &CleanupJob{
		activityRepo:  activityRepo,
		retentionDays: retentionDays,
		logger:        logger,
	}
}

// Run executes one retention pass. It satisfies cron.Job.
func (j *CleanupJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cutoff := time.Now().AddDate(0, 0, -j.retentionDays)
	j.logger.Info("Starting activity retention cleanup",
		zap.Time("cutoff", cutoff),
	)

	deleted, err := j.activityRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		j.logger.Error("Activity retention cleanup failed", zap.Error(err))
		return
	}

	j.logger.Info("Activity retention cleanup finished",
		zap.Int64("deleted", deleted),
	)
}
