package repository

import (
	"context"

	"media-analysis-api/internal/domain/model"
)

type ResultRepository interface {
	Create(ctx context.Context, tx Tx, result *model.AnalysisResult) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.AnalysisResult, error)
	FindByIDWithDeleted(ctx context.Context, tx Tx, id string) (*model.AnalysisResult, error)
	List(ctx context.Context, tx Tx, opts ListOptions) ([]*model.AnalysisResult, error)
	Count(ctx context.Context, tx Tx, filters map[string]interface{}) (int, error)
	SoftDelete(ctx context.Context, tx Tx, id string) error
	HardDelete(ctx context.Context, tx Tx, id string) error
	Restore(ctx context.Context, tx Tx, id string) (*model.AnalysisResult, error)

	FindByJobID(ctx context.Context, tx Tx, jobID string, offset, limit int) ([]*model.AnalysisResult, error)
	FindByProvider(ctx context.Context, tx Tx, provider model.AnalysisProvider, offset, limit int) ([]*model.AnalysisResult, error)
	FindByModel(ctx context.Context, tx Tx, modelName string, offset, limit int) ([]*model.AnalysisResult, error)
	FindHighConfidence(ctx context.Context, tx Tx, minConfidence float64, limit int) ([]*model.AnalysisResult, error)
	FindByJobAndProvider(ctx context.Context, tx Tx, jobID string, provider model.AnalysisProvider) ([]*model.AnalysisResult, error)
	CountByJob(ctx context.Context, tx Tx, jobID string) (int, error)
	TotalTokensByJob(ctx context.Context, tx Tx, jobID string) (int64, error)
	TotalLatencyByJob(ctx context.Context, tx Tx, jobID string) (int64, error)
	AverageConfidenceByJob(ctx context.Context, tx Tx, jobID string) (*float64, error)
	StatisticsByProvider(ctx context.Context, tx Tx) ([]*model.ProviderStatistics, error)
	FindLatest(ctx context.Context, tx Tx, limit int) ([]*model.AnalysisResult, error)
}
