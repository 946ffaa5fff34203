package model

import (
	"time"

	"media-analysis-api/internal/domain"

	"github.com/google/uuid"
)

type AnalysisProvider string

const (
	ProviderMiniMax   AnalysisProvider = "minimax"
	ProviderGroq      AnalysisProvider = "groq"
	ProviderGemini    AnalysisProvider = "gemini"
	ProviderOpenAI    AnalysisProvider = "openai"
	ProviderAnthropic AnalysisProvider = "anthropic"
	ProviderLocal     AnalysisProvider = "local"
)

func (p AnalysisProvider) Valid() bool {
	switch p {
	case ProviderMiniMax, ProviderGroq, ProviderGemini, ProviderOpenAI, ProviderAnthropic, ProviderLocal:
		return true
	}
	return false
}

// AnalysisResult is one provider's output for a job. The result document is
// opaque to this service; only bookkeeping fields are typed.
type AnalysisResult struct {
	ID         string                 `json:"id"`
	JobID      string                 `json:"job_id"`
	Provider   AnalysisProvider       `json:"provider"`
	Model      string                 `json:"model"`
	Result     map[string]interface{} `json:"result"`               // full provider output, stored as JSONB
	Confidence *float64               `json:"confidence,omitempty"` // 0.0-1.0; nil when provider reports none
	TokensUsed *int                   `json:"tokens_used,omitempty"`
	LatencyMs  *int                   `json:"latency_ms,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
	IsDeleted  bool                   `json:"is_deleted"`
	DeletedAt  *time.Time             `json:"deleted_at,omitempty"`
}

func NewAnalysisResult(id, jobID string, provider AnalysisProvider, modelName string, result map[string]interface{}) (*AnalysisResult, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if jobID == "" || modelName == "" {
		return nil, domain.ErrInvalidArgument
	}
	if !provider.Valid() {
		return nil, domain.ErrInvalidArgument
	}
	if result == nil {
		result = map[string]interface{}{}
	}
	now := time.Now().UTC()
	return &AnalysisResult{
		ID:        id,
		JobID:     jobID,
		Provider:  provider,
		Model:     modelName,
		Result:    result,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ProviderStatistics aggregates result bookkeeping per provider.
type ProviderStatistics struct {
	Provider      string   `json:"provider"`
	Count         int      `json:"count"`
	AvgConfidence *float64 `json:"avg_confidence,omitempty"`
	TotalTokens   int64    `json:"total_tokens"`
	AvgLatencyMs  *float64 `json:"avg_latency_ms,omitempty"`
}
