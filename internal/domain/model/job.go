package model

import (
	"time"

	"media-analysis-api/internal/domain"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"    // created, awaiting processing
	JobStatusProcessing JobStatus = "processing" // picked up by a worker
	JobStatusCompleted  JobStatus = "completed"  // finished successfully
	JobStatusFailed     JobStatus = "failed"     // finished with an error
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusPending, JobStatusProcessing, JobStatusCompleted, JobStatusFailed:
		return true
	}
	return false
}

type MediaType string

const (
	MediaTypeVideo MediaType = "video"
	MediaTypeAudio MediaType = "audio"
	MediaTypeImage MediaType = "image"
)

func (t MediaType) Valid() bool {
	switch t {
	case MediaTypeVideo, MediaTypeAudio, MediaTypeImage:
		return true
	}
	return false
}

// AnalysisJob is the root aggregate: one requested analysis of a piece of
// media. MediaFile, AnalysisResult, Transcription and ProcessingLog rows all
// hang off a job and are removed with it.
type AnalysisJob struct {
	ID           string                 `json:"id"`
	Status       JobStatus              `json:"status"`
	MediaType    MediaType              `json:"media_type"`
	SourceURL    string                 `json:"source_url,omitempty"` // empty when media was uploaded directly
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
	CompletedAt  *time.Time             `json:"completed_at,omitempty"`
	ErrorMessage string                 `json:"error_message,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"` // opaque, stored as JSONB
	IsDeleted    bool                   `json:"is_deleted"`
	DeletedAt    *time.Time             `json:"deleted_at,omitempty"`
}

func NewAnalysisJob(id string, mediaType MediaType, sourceURL string, metadata map[string]interface{}) (*AnalysisJob, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if !mediaType.Valid() {
		return nil, domain.ErrInvalidArgument
	}
	if len(sourceURL) > 2048 {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now().UTC()
	return &AnalysisJob{
		ID:        id,
		Status:    JobStatusPending,
		MediaType: mediaType,
		SourceURL: sourceURL,
		CreatedAt: now,
		UpdatedAt: now,
		Metadata:  metadata,
	}, nil
}

func (j *AnalysisJob) IsZero() bool     { return j == nil || j.ID == "" }
func (j *AnalysisJob) IsTerminal() bool { return j.Status == JobStatusCompleted || j.Status == JobStatusFailed }

// JobStatistics holds counts grouped by status plus the grand total.
type JobStatistics struct {
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
	Total      int `json:"total"`
}
