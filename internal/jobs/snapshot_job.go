package jobs

import (
	"context"

	"marketplace/internal/core/ports"

	"go.uber.org/zap"
)

// SnapshotSaver is the part of the store the snapshot job needs.
type SnapshotSaver interface {
	SaveTo(ctx context.Context, repo ports.SnapshotRepository) error
}

// SnapshotJob periodically persists the whole store.
type SnapshotJob struct {
	scheduler
	store SnapshotSaver
	repo  ports.SnapshotRepository
}

// NewSnapshotJob creates a job that saves store into repo on the cron spec.
func NewSnapshotJob(store SnapshotSaver, repo ports.SnapshotRepository, spec string, logger *zap.Logger) *SnapshotJob {
	return &SnapshotJob{
		scheduler: newScheduler("snapshot_job", spec, logger),
		store:     store,
		repo:      repo,
	}
}

// Name identifies the job in logs and start errors.
func (j *SnapshotJob) Name() string { return j.name }

// Run saves one snapshot. Failures are logged and returned.
func (j *SnapshotJob) Run(ctx context.Context) error {
	if err := j.store.SaveTo(ctx, j.repo); err != nil {
		j.logger.Error("snapshot save failed", zap.Error(err))
		return err
	}
	j.logger.Debug("snapshot saved")
	return nil
}

// Start schedules Run on the configured cron spec.
func (j *SnapshotJob) Start() error {
	return j.start(func(ctx context.Context) { _ = j.Run(ctx) })
}

// Stop halts the schedule. A save in progress is allowed to finish.
func (j *SnapshotJob) Stop() {
	j.stop()
}
