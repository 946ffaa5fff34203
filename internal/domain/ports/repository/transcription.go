package repository

import (
	"context"

	"media-analysis-api/internal/domain/model"
)

type TranscriptionRepository interface {
	Create(ctx context.Context, tx Tx, tr *model.Transcription) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Transcription, error)
	FindByIDWithDeleted(ctx context.Context, tx Tx, id string) (*model.Transcription, error)
	List(ctx context.Context, tx Tx, opts ListOptions) ([]*model.Transcription, error)
	Count(ctx context.Context, tx Tx, filters map[string]interface{}) (int, error)
	SoftDelete(ctx context.Context, tx Tx, id string) error
	HardDelete(ctx context.Context, tx Tx, id string) error
	Restore(ctx context.Context, tx Tx, id string) (*model.Transcription, error)

	FindByJobID(ctx context.Context, tx Tx, jobID string, offset, limit int) ([]*model.Transcription, error)
	FindByProvider(ctx context.Context, tx Tx, provider model.TranscriptionProvider, offset, limit int) ([]*model.Transcription, error)
	FindByLanguage(ctx context.Context, tx Tx, language string, offset, limit int) ([]*model.Transcription, error)
	FindHighConfidence(ctx context.Context, tx Tx, minConfidence float64, limit int) ([]*model.Transcription, error)
	FindWithSegments(ctx context.Context, tx Tx, jobID string) ([]*model.Transcription, error)
	CountByJob(ctx context.Context, tx Tx, jobID string) (int, error)
	TotalWordsByJob(ctx context.Context, tx Tx, jobID string) (int64, error)
	TotalDurationByJob(ctx context.Context, tx Tx, jobID string) (float64, error)
	AverageConfidenceByJob(ctx context.Context, tx Tx, jobID string) (*float64, error)
	LanguageDistributionByJob(ctx context.Context, tx Tx, jobID string) (map[string]int, error)
	StatisticsByProvider(ctx context.Context, tx Tx) ([]*model.ProviderStatistics, error)
	Search(ctx context.Context, tx Tx, query string, offset, limit int) ([]*model.Transcription, error)
	UpdateText(ctx context.Context, tx Tx, id, text string, wordCount *int) (*model.Transcription, error)
}
