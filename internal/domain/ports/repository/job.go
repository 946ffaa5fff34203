package repository

import (
	"context"
	"time"

	"media-analysis-api/internal/domain/model"
)

// JobPatch carries a partial update; nil fields are left unchanged.
type JobPatch struct {
	Status       *model.JobStatus
	CompletedAt  *time.Time
	ErrorMessage *string
	Metadata     map[string]interface{}
}

type JobRepository interface {
	Create(ctx context.Context, tx Tx, job *model.AnalysisJob) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.AnalysisJob, error)
	FindByIDWithDeleted(ctx context.Context, tx Tx, id string) (*model.AnalysisJob, error)
	List(ctx context.Context, tx Tx, opts ListOptions) ([]*model.AnalysisJob, error)
	Count(ctx context.Context, tx Tx, filters map[string]interface{}) (int, error)
	Exists(ctx context.Context, tx Tx, filters map[string]interface{}) (bool, error)
	Update(ctx context.Context, tx Tx, id string, patch JobPatch) (*model.AnalysisJob, error)
	SoftDelete(ctx context.Context, tx Tx, id string) error
	HardDelete(ctx context.Context, tx Tx, id string) error
	Restore(ctx context.Context, tx Tx, id string) (*model.AnalysisJob, error)

	FindByStatus(ctx context.Context, tx Tx, status model.JobStatus, offset, limit int) ([]*model.AnalysisJob, error)
	CountByStatus(ctx context.Context, tx Tx, status model.JobStatus) (int, error)
	FindByMediaType(ctx context.Context, tx Tx, mediaType model.MediaType, offset, limit int) ([]*model.AnalysisJob, error)
	FindRecent(ctx context.Context, tx Tx, limit int, includeCompleted bool, since *time.Time) ([]*model.AnalysisJob, error)

	// FindPending returns pending jobs oldest-first. This is an advisory read:
	// nothing stops two callers from seeing the same job. Use ClaimNextPending
	// for exclusive consumption.
	FindPending(ctx context.Context, tx Tx, limit int) ([]*model.AnalysisJob, error)
	FindProcessing(ctx context.Context, tx Tx, limit int) ([]*model.AnalysisJob, error)
	FindFailed(ctx context.Context, tx Tx, since *time.Time, limit int) ([]*model.AnalysisJob, error)
	FindCompleted(ctx context.Context, tx Tx, since *time.Time, limit int) ([]*model.AnalysisJob, error)
	FindStaleProcessing(ctx context.Context, tx Tx, olderThan time.Duration) ([]*model.AnalysisJob, error)

	UpdateStatus(ctx context.Context, tx Tx, id string, status model.JobStatus, errorMessage string) (*model.AnalysisJob, error)
	MarkAsProcessing(ctx context.Context, tx Tx, id string) (*model.AnalysisJob, error)
	MarkAsCompleted(ctx context.Context, tx Tx, id string) (*model.AnalysisJob, error)
	MarkAsFailed(ctx context.Context, tx Tx, id string, errorMessage string) (*model.AnalysisJob, error)

	// ClaimNextPending atomically picks the oldest pending job and marks it
	// processing (row-locked, skip locked). Returns domain.ErrNoPendingJobs
	// when the queue is empty.
	ClaimNextPending(ctx context.Context) (*model.AnalysisJob, error)
	// RequeueStale flips processing jobs idle longer than olderThan back to
	// pending; FailStale marks them failed instead. Both are single
	// conditional UPDATEs and return the number of affected rows.
	RequeueStale(ctx context.Context, olderThan time.Duration) (int64, error)
	FailStale(ctx context.Context, olderThan time.Duration, errorMessage string) (int64, error)

	Statistics(ctx context.Context, tx Tx) (*model.JobStatistics, error)
	Search(ctx context.Context, tx Tx, query string, offset, limit int) ([]*model.AnalysisJob, error)
}
