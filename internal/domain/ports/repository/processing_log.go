package repository

import (
	"context"

	"media-analysis-api/internal/domain/model"
)

// ProcessingLogRepository is append-only: entries are never updated and only
// removed by the job's delete cascade.
type ProcessingLogRepository interface {
	Append(ctx context.Context, tx Tx, entry *model.ProcessingLog) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.ProcessingLog, error)
	// FindByJobID returns entries in chronological (oldest-first) order.
	FindByJobID(ctx context.Context, tx Tx, jobID string, offset, limit int) ([]*model.ProcessingLog, error)
	FindByStage(ctx context.Context, tx Tx, jobID string, stage model.ProcessingStage) ([]*model.ProcessingLog, error)
	LatestByStage(ctx context.Context, tx Tx, jobID string, stage model.ProcessingStage) (*model.ProcessingLog, error)
	FindFailures(ctx context.Context, tx Tx, jobID string) ([]*model.ProcessingLog, error)
	CountByJob(ctx context.Context, tx Tx, jobID string) (int, error)
}
