package usecase

import (
	"context"

	"media-analysis-api/internal/domain/model"
	"media-analysis-api/internal/domain/ports/repository"
	"media-analysis-api/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ ProcessingLogUseCase = (*processingLogUC)(nil)

// ProcessingLogUseCase records and reads the per-stage audit trail of a job.
type ProcessingLogUseCase interface {
	Record(ctx context.Context, jobID string, stage model.ProcessingStage, status model.ProcessingLogStatus, message string, details map[string]interface{}, durationMs *int) (*model.ProcessingLog, error)
	Get(ctx context.Context, id string) (*model.ProcessingLog, error)
	ListByJob(ctx context.Context, jobID string, offset, limit int) ([]*model.ProcessingLog, int, error)
	ByStage(ctx context.Context, jobID string, stage model.ProcessingStage) ([]*model.ProcessingLog, error)
	LatestByStage(ctx context.Context, jobID string, stage model.ProcessingStage) (*model.ProcessingLog, error)
	Failures(ctx context.Context, jobID string) ([]*model.ProcessingLog, error)
}

type processingLogUC struct {
	jobs repository.JobRepository
	logs repository.ProcessingLogRepository
	log  *zerolog.Logger
}

func NewProcessingLogUseCase(jobs repository.JobRepository, logs repository.ProcessingLogRepository, logger *zerolog.Logger) *processingLogUC {
	return &processingLogUC{jobs: jobs, logs: logs, log: logger}
}

func (u *processingLogUC) Record(ctx context.Context, jobID string, stage model.ProcessingStage, status model.ProcessingLogStatus, message string, details map[string]interface{}, durationMs *int) (*model.ProcessingLog, error) {
	defer logging.TraceDuration(u.log, "ProcessingLogUC.Record")()

	if _, err := u.jobs.FindByID(ctx, repository.NoTX, jobID); err != nil {
		return nil, err
	}
	entry, err := model.NewProcessingLog("", jobID, stage, status, message)
	if err != nil {
		return nil, err
	}
	entry.Details = details
	entry.DurationMs = durationMs
	if err := u.logs.Append(ctx, repository.NoTX, entry); err != nil {
		u.log.Error().Err(err).Str("job_id", jobID).Msg("failed to append processing log")
		return nil, err
	}
	return entry, nil
}

func (u *processingLogUC) Get(ctx context.Context, id string) (*model.ProcessingLog, error) {
	defer logging.TraceDuration(u.log, "ProcessingLogUC.Get")()
	return u.logs.FindByID(ctx, repository.NoTX, id)
}

func (u *processingLogUC) ListByJob(ctx context.Context, jobID string, offset, limit int) ([]*model.ProcessingLog, int, error) {
	defer logging.TraceDuration(u.log, "ProcessingLogUC.ListByJob")()

	if _, err := u.jobs.FindByID(ctx, repository.NoTX, jobID); err != nil {
		return nil, 0, err
	}
	items, err := u.logs.FindByJobID(ctx, repository.NoTX, jobID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := u.logs.CountByJob(ctx, repository.NoTX, jobID)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (u *processingLogUC) ByStage(ctx context.Context, jobID string, stage model.ProcessingStage) ([]*model.ProcessingLog, error) {
	defer logging.TraceDuration(u.log, "ProcessingLogUC.ByStage")()
	return u.logs.FindByStage(ctx, repository.NoTX, jobID, stage)
}

func (u *processingLogUC) LatestByStage(ctx context.Context, jobID string, stage model.ProcessingStage) (*model.ProcessingLog, error) {
	defer logging.TraceDuration(u.log, "ProcessingLogUC.LatestByStage")()
	return u.logs.LatestByStage(ctx, repository.NoTX, jobID, stage)
}

func (u *processingLogUC) Failures(ctx context.Context, jobID string) ([]*model.ProcessingLog, error) {
	defer logging.TraceDuration(u.log, "ProcessingLogUC.Failures")()
	return u.logs.FindFailures(ctx, repository.NoTX, jobID)
}
