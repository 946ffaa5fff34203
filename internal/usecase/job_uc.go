package usecase

import (
	"context"
	"time"

	"media-analysis-api/internal/domain/model"
	"media-analysis-api/internal/domain/ports/repository"
	"media-analysis-api/internal/infra/logging"
	"media-analysis-api/internal/infra/metrics"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ JobUseCase = (*jobUC)(nil)

// StatisticsCache is the optional snapshot cache in front of the statistics
// query. A nil cache disables caching; all reads fall through.
type StatisticsCache interface {
	Get(ctx context.Context) (*model.JobStatistics, error)
	Set(ctx context.Context, stats *model.JobStatistics) error
	Invalidate(ctx context.Context) error
}

// JobWithRelations bundles a job with everything hanging off it.
type JobWithRelations struct {
	Job            *model.AnalysisJob
	MediaFiles     []*model.MediaFile
	Results        []*model.AnalysisResult
	Transcriptions []*model.Transcription
	Logs           []*model.ProcessingLog
}

// JobUseCase exposes the job lifecycle: creation, listing, status
// transitions, queue consumption and maintenance.
type JobUseCase interface {
	Create(ctx context.Context, mediaType model.MediaType, sourceURL string, metadata map[string]interface{}) (*model.AnalysisJob, error)
	Get(ctx context.Context, id string) (*model.AnalysisJob, error)
	GetWithRelations(ctx context.Context, id string) (*JobWithRelations, error)
	List(ctx context.Context, opts repository.ListOptions) ([]*model.AnalysisJob, int, error)
	Update(ctx context.Context, id string, patch repository.JobPatch) (*model.AnalysisJob, error)
	Delete(ctx context.Context, id string) error
	HardDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) (*model.AnalysisJob, error)

	UpdateStatus(ctx context.Context, id string, status model.JobStatus, errorMessage string) (*model.AnalysisJob, error)
	MarkAsProcessing(ctx context.Context, id string) (*model.AnalysisJob, error)
	MarkAsCompleted(ctx context.Context, id string) (*model.AnalysisJob, error)
	MarkAsFailed(ctx context.Context, id string, errorMessage string) (*model.AnalysisJob, error)

	Pending(ctx context.Context, limit int) ([]*model.AnalysisJob, error)
	Claim(ctx context.Context) (*model.AnalysisJob, error)
	Stale(ctx context.Context, olderThan time.Duration) ([]*model.AnalysisJob, error)
	Recent(ctx context.Context, limit int, includeCompleted bool, since *time.Time) ([]*model.AnalysisJob, error)

	Statistics(ctx context.Context) (*model.JobStatistics, error)
	Search(ctx context.Context, query string, offset, limit int) ([]*model.AnalysisJob, error)
}

type jobUC struct {
	jobs           repository.JobRepository
	media          repository.MediaFileRepository
	results        repository.ResultRepository
	transcriptions repository.TranscriptionRepository
	logs           repository.ProcessingLogRepository
	tm             repository.TransactionManager
	statsCache     StatisticsCache
	log            *zerolog.Logger
}

func NewJobUseCase(
	jobs repository.JobRepository,
	media repository.MediaFileRepository,
	results repository.ResultRepository,
	transcriptions repository.TranscriptionRepository,
	logs repository.ProcessingLogRepository,
	tm repository.TransactionManager,
	statsCache StatisticsCache,
	logger *zerolog.Logger,
) *jobUC {
	return &jobUC{
		jobs:           jobs,
		media:          media,
		results:        results,
		transcriptions: transcriptions,
		logs:           logs,
		tm:             tm,
		statsCache:     statsCache,
		log:            logger,
	}
}

func (u *jobUC) invalidateStats(ctx context.Context) {
	if u.statsCache == nil {
		return
	}
	if err := u.statsCache.Invalidate(ctx); err != nil {
		u.log.Warn().Err(err).Msg("failed to invalidate stats cache")
	}
}

func (u *jobUC) Create(ctx context.Context, mediaType model.MediaType, sourceURL string, metadata map[string]interface{}) (*model.AnalysisJob, error) {
	defer logging.TraceDuration(u.log, "JobUC.Create")()

	job, err := model.NewAnalysisJob("", mediaType, sourceURL, metadata)
	if err != nil {
		return nil, err
	}
	if err := u.jobs.Create(ctx, repository.NoTX, job); err != nil {
		u.log.Error().Err(err).Msg("failed to create job")
		return nil, err
	}
	metrics.IncJobTransition(string(model.JobStatusPending))
	u.invalidateStats(ctx)
	return job, nil
}

func (u *jobUC) Get(ctx context.Context, id string) (*model.AnalysisJob, error) {
	defer logging.TraceDuration(u.log, "JobUC.Get")()
	return u.jobs.FindByID(ctx, repository.NoTX, id)
}

// GetWithRelations reads the job and all its children inside one
// repeatable-read transaction so the composite view is a consistent snapshot.
func (u *jobUC) GetWithRelations(ctx context.Context, id string) (*JobWithRelations, error) {
	defer logging.TraceDuration(u.log, "JobUC.GetWithRelations")()

	var out *JobWithRelations
	txOpts := pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
	err := u.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		job, err := u.jobs.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		files, err := u.media.FindByJobID(ctx, tx, id, 0, 1000)
		if err != nil {
			return err
		}
		results, err := u.results.FindByJobID(ctx, tx, id, 0, 1000)
		if err != nil {
			return err
		}
		transcriptions, err := u.transcriptions.FindByJobID(ctx, tx, id, 0, 1000)
		if err != nil {
			return err
		}
		logs, err := u.logs.FindByJobID(ctx, tx, id, 0, 1000)
		if err != nil {
			return err
		}
		out = &JobWithRelations{
			Job:            job,
			MediaFiles:     files,
			Results:        results,
			Transcriptions: transcriptions,
			Logs:           logs,
		}
		return nil
	})
	return out, err
}

func (u *jobUC) List(ctx context.Context, opts repository.ListOptions) ([]*model.AnalysisJob, int, error) {
	defer logging.TraceDuration(u.log, "JobUC.List")()

	items, err := u.jobs.List(ctx, repository.NoTX, opts)
	if err != nil {
		return nil, 0, err
	}
	total, err := u.jobs.Count(ctx, repository.NoTX, opts.Filters)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (u *jobUC) Update(ctx context.Context, id string, patch repository.JobPatch) (*model.AnalysisJob, error) {
	defer logging.TraceDuration(u.log, "JobUC.Update")()

	job, err := u.jobs.Update(ctx, repository.NoTX, id, patch)
	if err != nil {
		return nil, err
	}
	if patch.Status != nil {
		metrics.IncJobTransition(string(*patch.Status))
		u.invalidateStats(ctx)
	}
	return job, nil
}

func (u *jobUC) Delete(ctx context.Context, id string) error {
	defer logging.TraceDuration(u.log, "JobUC.Delete")()

	if err := u.jobs.SoftDelete(ctx, repository.NoTX, id); err != nil {
		return err
	}
	u.invalidateStats(ctx)
	return nil
}

func (u *jobUC) HardDelete(ctx context.Context, id string) error {
	defer logging.TraceDuration(u.log, "JobUC.HardDelete")()

	if err := u.jobs.HardDelete(ctx, repository.NoTX, id); err != nil {
		return err
	}
	u.log.Info().Str("job_id", id).Msg("job hard-deleted")
	u.invalidateStats(ctx)
	return nil
}

func (u *jobUC) Restore(ctx context.Context, id string) (*model.AnalysisJob, error) {
	defer logging.TraceDuration(u.log, "JobUC.Restore")()

	job, err := u.jobs.Restore(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	u.invalidateStats(ctx)
	return job, nil
}

func (u *jobUC) UpdateStatus(ctx context.Context, id string, status model.JobStatus, errorMessage string) (*model.AnalysisJob, error) {
	defer logging.TraceDuration(u.log, "JobUC.UpdateStatus")()

	job, err := u.jobs.UpdateStatus(ctx, repository.NoTX, id, status, errorMessage)
	if err != nil {
		return nil, err
	}
	metrics.IncJobTransition(string(status))
	u.invalidateStats(ctx)
	return job, nil
}

func (u *jobUC) MarkAsProcessing(ctx context.Context, id string) (*model.AnalysisJob, error) {
	return u.UpdateStatus(ctx, id, model.JobStatusProcessing, "")
}

func (u *jobUC) MarkAsCompleted(ctx context.Context, id string) (*model.AnalysisJob, error) {
	return u.UpdateStatus(ctx, id, model.JobStatusCompleted, "")
}

func (u *jobUC) MarkAsFailed(ctx context.Context, id string, errorMessage string) (*model.AnalysisJob, error) {
	defer logging.TraceDuration(u.log, "JobUC.MarkAsFailed")()

	job, err := u.jobs.MarkAsFailed(ctx, repository.NoTX, id, errorMessage)
	if err != nil {
		return nil, err
	}
	metrics.IncJobTransition(string(model.JobStatusFailed))
	u.invalidateStats(ctx)
	return job, nil
}

func (u *jobUC) Pending(ctx context.Context, limit int) ([]*model.AnalysisJob, error) {
	defer logging.TraceDuration(u.log, "JobUC.Pending")()
	return u.jobs.FindPending(ctx, repository.NoTX, limit)
}

func (u *jobUC) Claim(ctx context.Context) (*model.AnalysisJob, error) {
	defer logging.TraceDuration(u.log, "JobUC.Claim")()

	job, err := u.jobs.ClaimNextPending(ctx)
	if err != nil {
		return nil, err
	}
	metrics.IncJobClaimed()
	metrics.IncJobTransition(string(model.JobStatusProcessing))
	u.invalidateStats(ctx)
	return job, nil
}

func (u *jobUC) Stale(ctx context.Context, olderThan time.Duration) ([]*model.AnalysisJob, error) {
	defer logging.TraceDuration(u.log, "JobUC.Stale")()
	return u.jobs.FindStaleProcessing(ctx, repository.NoTX, olderThan)
}

func (u *jobUC) Recent(ctx context.Context, limit int, includeCompleted bool, since *time.Time) ([]*model.AnalysisJob, error) {
	defer logging.TraceDuration(u.log, "JobUC.Recent")()
	return u.jobs.FindRecent(ctx, repository.NoTX, limit, includeCompleted, since)
}

func (u *jobUC) Statistics(ctx context.Context) (*model.JobStatistics, error) {
	defer logging.TraceDuration(u.log, "JobUC.Statistics")()

	if u.statsCache != nil {
		if cached, err := u.statsCache.Get(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}
	stats, err := u.jobs.Statistics(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	metrics.SetJobsByStatus(stats.Pending, stats.Processing, stats.Completed, stats.Failed)
	if u.statsCache != nil {
		if err := u.statsCache.Set(ctx, stats); err != nil {
			u.log.Warn().Err(err).Msg("failed to cache job statistics")
		}
	}
	return stats, nil
}

func (u *jobUC) Search(ctx context.Context, query string, offset, limit int) ([]*model.AnalysisJob, error) {
	defer logging.TraceDuration(u.log, "JobUC.Search")()
	return u.jobs.Search(ctx, repository.NoTX, query, offset, limit)
}
