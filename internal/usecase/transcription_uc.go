package usecase

import (
	"context"
	"strings"

	"media-analysis-api/internal/domain/model"
	"media-analysis-api/internal/domain/ports/repository"
	"media-analysis-api/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ TranscriptionUseCase = (*transcriptionUC)(nil)

// JobTranscriptionSummary aggregates transcription bookkeeping for one job.
type JobTranscriptionSummary struct {
	Count         int            `json:"count"`
	TotalWords    int64          `json:"total_words"`
	TotalDuration float64        `json:"total_duration_seconds"`
	AvgConfidence *float64       `json:"avg_confidence,omitempty"`
	Languages     map[string]int `json:"languages"`
}

// TranscriptionInput carries the optional fields of a new transcription.
type TranscriptionInput struct {
	Model           string
	Segments        []map[string]interface{}
	DurationSeconds float64
	WordCount       *int
	Confidence      *float64
	TokensUsed      *int
	LatencyMs       *int
}

// TranscriptionUseCase manages speech-to-text outputs attached to jobs.
type TranscriptionUseCase interface {
	Attach(ctx context.Context, jobID string, provider model.TranscriptionProvider, text, language string, input TranscriptionInput) (*model.Transcription, error)
	Get(ctx context.Context, id string) (*model.Transcription, error)
	List(ctx context.Context, opts repository.ListOptions) ([]*model.Transcription, int, error)
	ListByJob(ctx context.Context, jobID string, offset, limit int) ([]*model.Transcription, int, error)
	UpdateText(ctx context.Context, id, text string, wordCount *int) (*model.Transcription, error)
	Delete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) (*model.Transcription, error)
	SummaryByJob(ctx context.Context, jobID string) (*JobTranscriptionSummary, error)
	StatisticsByProvider(ctx context.Context) ([]*model.ProviderStatistics, error)
	WithSegments(ctx context.Context, jobID string) ([]*model.Transcription, error)
	Search(ctx context.Context, query string, offset, limit int) ([]*model.Transcription, error)
}

type transcriptionUC struct {
	jobs           repository.JobRepository
	transcriptions repository.TranscriptionRepository
	log            *zerolog.Logger
}

func NewTranscriptionUseCase(jobs repository.JobRepository, transcriptions repository.TranscriptionRepository, logger *zerolog.Logger) *transcriptionUC {
	return &transcriptionUC{jobs: jobs, transcriptions: transcriptions, log: logger}
}

func (u *transcriptionUC) Attach(ctx context.Context, jobID string, provider model.TranscriptionProvider, text, language string, input TranscriptionInput) (*model.Transcription, error) {
	defer logging.TraceDuration(u.log, "TranscriptionUC.Attach")()

	if _, err := u.jobs.FindByID(ctx, repository.NoTX, jobID); err != nil {
		return nil, err
	}
	tr, err := model.NewTranscription("", jobID, provider, text, language)
	if err != nil {
		return nil, err
	}
	tr.Model = input.Model
	tr.Segments = input.Segments
	tr.DurationSeconds = input.DurationSeconds
	tr.Confidence = input.Confidence
	tr.TokensUsed = input.TokensUsed
	tr.LatencyMs = input.LatencyMs
	if input.WordCount != nil {
		tr.WordCount = input.WordCount
	} else if n := len(strings.Fields(text)); n > 0 {
		tr.WordCount = &n
	}
	if err := u.transcriptions.Create(ctx, repository.NoTX, tr); err != nil {
		u.log.Error().Err(err).Str("job_id", jobID).Msg("failed to attach transcription")
		return nil, err
	}
	return tr, nil
}

func (u *transcriptionUC) Get(ctx context.Context, id string) (*model.Transcription, error) {
	defer logging.TraceDuration(u.log, "TranscriptionUC.Get")()
	return u.transcriptions.FindByID(ctx, repository.NoTX, id)
}

func (u *transcriptionUC) List(ctx context.Context, opts repository.ListOptions) ([]*model.Transcription, int, error) {
	defer logging.TraceDuration(u.log, "TranscriptionUC.List")()

	items, err := u.transcriptions.List(ctx, repository.NoTX, opts)
	if err != nil {
		return nil, 0, err
	}
	total, err := u.transcriptions.Count(ctx, repository.NoTX, opts.Filters)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (u *transcriptionUC) ListByJob(ctx context.Context, jobID string, offset, limit int) ([]*model.Transcription, int, error) {
	defer logging.TraceDuration(u.log, "TranscriptionUC.ListByJob")()

	if _, err := u.jobs.FindByID(ctx, repository.NoTX, jobID); err != nil {
		return nil, 0, err
	}
	items, err := u.transcriptions.FindByJobID(ctx, repository.NoTX, jobID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := u.transcriptions.CountByJob(ctx, repository.NoTX, jobID)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (u *transcriptionUC) UpdateText(ctx context.Context, id, text string, wordCount *int) (*model.Transcription, error) {
	defer logging.TraceDuration(u.log, "TranscriptionUC.UpdateText")()
	return u.transcriptions.UpdateText(ctx, repository.NoTX, id, text, wordCount)
}

func (u *transcriptionUC) Delete(ctx context.Context, id string) error {
	defer logging.TraceDuration(u.log, "TranscriptionUC.Delete")()
	return u.transcriptions.SoftDelete(ctx, repository.NoTX, id)
}

func (u *transcriptionUC) Restore(ctx context.Context, id string) (*model.Transcription, error) {
	defer logging.TraceDuration(u.log, "TranscriptionUC.Restore")()
	return u.transcriptions.Restore(ctx, repository.NoTX, id)
}

func (u *transcriptionUC) SummaryByJob(ctx context.Context, jobID string) (*JobTranscriptionSummary, error) {
	defer logging.TraceDuration(u.log, "TranscriptionUC.SummaryByJob")()

	if _, err := u.jobs.FindByID(ctx, repository.NoTX, jobID); err != nil {
		return nil, err
	}
	count, err := u.transcriptions.CountByJob(ctx, repository.NoTX, jobID)
	if err != nil {
		return nil, err
	}
	words, err := u.transcriptions.TotalWordsByJob(ctx, repository.NoTX, jobID)
	if err != nil {
		return nil, err
	}
	duration, err := u.transcriptions.TotalDurationByJob(ctx, repository.NoTX, jobID)
	if err != nil {
		return nil, err
	}
	avg, err := u.transcriptions.AverageConfidenceByJob(ctx, repository.NoTX, jobID)
	if err != nil {
		return nil, err
	}
	languages, err := u.transcriptions.LanguageDistributionByJob(ctx, repository.NoTX, jobID)
	if err != nil {
		return nil, err
	}
	return &JobTranscriptionSummary{
		Count:         count,
		TotalWords:    words,
		TotalDuration: duration,
		AvgConfidence: avg,
		Languages:     languages,
	}, nil
}

func (u *transcriptionUC) StatisticsByProvider(ctx context.Context) ([]*model.ProviderStatistics, error) {
	defer logging.TraceDuration(u.log, "TranscriptionUC.StatisticsByProvider")()
	return u.transcriptions.StatisticsByProvider(ctx, repository.NoTX)
}

func (u *transcriptionUC) WithSegments(ctx context.Context, jobID string) ([]*model.Transcription, error) {
	defer logging.TraceDuration(u.log, "TranscriptionUC.WithSegments")()
	return u.transcriptions.FindWithSegments(ctx, repository.NoTX, jobID)
}

func (u *transcriptionUC) Search(ctx context.Context, query string, offset, limit int) ([]*model.Transcription, error) {
	defer logging.TraceDuration(u.log, "TranscriptionUC.Search")()
	return u.transcriptions.Search(ctx, repository.NoTX, query, offset, limit)
}
