package usecase

import (
	"context"

	"media-analysis-api/internal/domain/model"
	"media-analysis-api/internal/domain/ports/repository"
	"media-analysis-api/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ ResultUseCase = (*resultUC)(nil)

// JobResultSummary aggregates result bookkeeping for one job.
type JobResultSummary struct {
	Count         int      `json:"count"`
	TotalTokens   int64    `json:"total_tokens"`
	TotalLatency  int64    `json:"total_latency_ms"`
	AvgConfidence *float64 `json:"avg_confidence,omitempty"`
}

// ResultUseCase manages provider analysis outputs attached to jobs.
type ResultUseCase interface {
	Attach(ctx context.Context, jobID string, provider model.AnalysisProvider, modelName string, result map[string]interface{}, confidence *float64, tokensUsed, latencyMs *int) (*model.AnalysisResult, error)
	Get(ctx context.Context, id string) (*model.AnalysisResult, error)
	List(ctx context.Context, opts repository.ListOptions) ([]*model.AnalysisResult, int, error)
	ListByJob(ctx context.Context, jobID string, offset, limit int) ([]*model.AnalysisResult, int, error)
	Delete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) (*model.AnalysisResult, error)
	SummaryByJob(ctx context.Context, jobID string) (*JobResultSummary, error)
	StatisticsByProvider(ctx context.Context) ([]*model.ProviderStatistics, error)
	HighConfidence(ctx context.Context, minConfidence float64, limit int) ([]*model.AnalysisResult, error)
	Latest(ctx context.Context, limit int) ([]*model.AnalysisResult, error)
}

type resultUC struct {
	jobs    repository.JobRepository
	results repository.ResultRepository
	log     *zerolog.Logger
}

func NewResultUseCase(jobs repository.JobRepository, results repository.ResultRepository, logger *zerolog.Logger) *resultUC {
	return &resultUC{jobs: jobs, results: results, log: logger}
}

func (u *resultUC) Attach(ctx context.Context, jobID string, provider model.AnalysisProvider, modelName string, result map[string]interface{}, confidence *float64, tokensUsed, latencyMs *int) (*model.AnalysisResult, error) {
	defer logging.TraceDuration(u.log, "ResultUC.Attach")()

	if _, err := u.jobs.FindByID(ctx, repository.NoTX, jobID); err != nil {
		return nil, err
	}
	res, err := model.NewAnalysisResult("", jobID, provider, modelName, result)
	if err != nil {
		return nil, err
	}
	res.Confidence = confidence
	res.TokensUsed = tokensUsed
	res.LatencyMs = latencyMs
	if err := u.results.Create(ctx, repository.NoTX, res); err != nil {
		u.log.Error().Err(err).Str("job_id", jobID).Msg("failed to attach analysis result")
		return nil, err
	}
	return res, nil
}

func (u *resultUC) Get(ctx context.Context, id string) (*model.AnalysisResult, error) {
	defer logging.TraceDuration(u.log, "ResultUC.Get")()
	return u.results.FindByID(ctx, repository.NoTX, id)
}

func (u *resultUC) List(ctx context.Context, opts repository.ListOptions) ([]*model.AnalysisResult, int, error) {
	defer logging.TraceDuration(u.log, "ResultUC.List")()

	items, err := u.results.List(ctx, repository.NoTX, opts)
	if err != nil {
		return nil, 0, err
	}
	total, err := u.results.Count(ctx, repository.NoTX, opts.Filters)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (u *resultUC) ListByJob(ctx context.Context, jobID string, offset, limit int) ([]*model.AnalysisResult, int, error) {
	defer logging.TraceDuration(u.log, "ResultUC.ListByJob")()

	if _, err := u.jobs.FindByID(ctx, repository.NoTX, jobID); err != nil {
		return nil, 0, err
	}
	items, err := u.results.FindByJobID(ctx, repository.NoTX, jobID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := u.results.CountByJob(ctx, repository.NoTX, jobID)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (u *resultUC) Delete(ctx context.Context, id string) error {
	defer logging.TraceDuration(u.log, "ResultUC.Delete")()
	return u.results.SoftDelete(ctx, repository.NoTX, id)
}

func (u *resultUC) Restore(ctx context.Context, id string) (*model.AnalysisResult, error) {
	defer logging.TraceDuration(u.log, "ResultUC.Restore")()
	return u.results.Restore(ctx, repository.NoTX, id)
}

func (u *resultUC) SummaryByJob(ctx context.Context, jobID string) (*JobResultSummary, error) {
	defer logging.TraceDuration(u.log, "ResultUC.SummaryByJob")()

	if _, err := u.jobs.FindByID(ctx, repository.NoTX, jobID); err != nil {
		return nil, err
	}
	count, err := u.results.CountByJob(ctx, repository.NoTX, jobID)
	if err != nil {
		return nil, err
	}
	tokens, err := u.results.TotalTokensByJob(ctx, repository.NoTX, jobID)
	if err != nil {
		return nil, err
	}
	latency, err := u.results.TotalLatencyByJob(ctx, repository.NoTX, jobID)
	if err != nil {
		return nil, err
	}
	avg, err := u.results.AverageConfidenceByJob(ctx, repository.NoTX, jobID)
	if err != nil {
		return nil, err
	}
	return &JobResultSummary{
		Count:         count,
		TotalTokens:   tokens,
		TotalLatency:  latency,
		AvgConfidence: avg,
	}, nil
}

func (u *resultUC) StatisticsByProvider(ctx context.Context) ([]*model.ProviderStatistics, error) {
	defer logging.TraceDuration(u.log, "ResultUC.StatisticsByProvider")()
	return u.results.StatisticsByProvider(ctx, repository.NoTX)
}

func (u *resultUC) HighConfidence(ctx context.Context, minConfidence float64, limit int) ([]*model.AnalysisResult, error) {
	defer logging.TraceDuration(u.log, "ResultUC.HighConfidence")()
	return u.results.FindHighConfidence(ctx, repository.NoTX, minConfidence, limit)
}

func (u *resultUC) Latest(ctx context.Context, limit int) ([]*model.AnalysisResult, error) {
	defer logging.TraceDuration(u.log, "ResultUC.Latest")()
	return u.results.FindLatest(ctx, repository.NoTX, limit)
}
