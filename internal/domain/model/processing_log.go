package model

import (
	"time"

	"media-analysis-api/internal/domain"

	"github.com/google/uuid"
)

type ProcessingStage string

const (
	StageUpload        ProcessingStage = "upload"
	StageDownload      ProcessingStage = "download"
	StageValidation    ProcessingStage = "validation"
	StageTranscription ProcessingStage = "transcription"
	StageAnalysis      ProcessingStage = "analysis"
	StageCompletion    ProcessingStage = "completion"
	StageCleanup       ProcessingStage = "cleanup"
)

func (s ProcessingStage) Valid() bool {
	switch s {
	case StageUpload, StageDownload, StageValidation, StageTranscription,
		StageAnalysis, StageCompletion, StageCleanup:
		return true
	}
	return false
}

type ProcessingLogStatus string

const (
	LogStatusStarted   ProcessingLogStatus = "started"
	LogStatusCompleted ProcessingLogStatus = "completed"
	LogStatusFailed    ProcessingLogStatus = "failed"
	LogStatusWarning   ProcessingLogStatus = "warning"
	LogStatusSkipped   ProcessingLogStatus = "skipped"
)

func (s ProcessingLogStatus) Valid() bool {
	switch s {
	case LogStatusStarted, LogStatusCompleted, LogStatusFailed, LogStatusWarning, LogStatusSkipped:
		return true
	}
	return false
}

// ProcessingLog is an append-only audit entry for one stage of a job's
// pipeline. Entries are immutable once written; they disappear only when the
// owning job is hard-deleted (FK cascade).
type ProcessingLog struct {
	ID         string                 `json:"id"`
	JobID      string                 `json:"job_id"`
	Stage      ProcessingStage        `json:"stage"`
	Status     ProcessingLogStatus    `json:"status"`
	Message    string                 `json:"message,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"` // opaque, stored as JSONB
	DurationMs *int                   `json:"duration_ms,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

func NewProcessingLog(id, jobID string, stage ProcessingStage, status ProcessingLogStatus, message string) (*ProcessingLog, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if jobID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if !stage.Valid() || !status.Valid() {
		return nil, domain.ErrInvalidArgument
	}
	return &ProcessingLog{
		ID:        id,
		JobID:     jobID,
		Stage:     stage,
		Status:    status,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}, nil
}
