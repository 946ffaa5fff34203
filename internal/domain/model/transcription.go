package model

import (
	"time"

	"media-analysis-api/internal/domain"

	"github.com/google/uuid"
)

type TranscriptionProvider string

const (
	TranscriberWhisper      TranscriptionProvider = "whisper"
	TranscriberWhisperLocal TranscriptionProvider = "whisper_local"
	TranscriberGoogle       TranscriptionProvider = "google"
	TranscriberAzure        TranscriptionProvider = "azure"
	TranscriberDeepgram     TranscriptionProvider = "deepgram"
	TranscriberAssemblyAI   TranscriptionProvider = "assemblyai"
	TranscriberElevenLabs   TranscriptionProvider = "elevenlabs"
	TranscriberMiniMax      TranscriptionProvider = "minimax"
)

func (p TranscriptionProvider) Valid() bool {
	switch p {
	case TranscriberWhisper, TranscriberWhisperLocal, TranscriberGoogle, TranscriberAzure,
		TranscriberDeepgram, TranscriberAssemblyAI, TranscriberElevenLabs, TranscriberMiniMax:
		return true
	}
	return false
}

// Transcription is one speech-to-text output for a job. Segments are kept
// opaque; their shape differs per provider.
type Transcription struct {
	ID              string                   `json:"id"`
	JobID           string                   `json:"job_id"`
	Provider        TranscriptionProvider    `json:"provider"`
	Model           string                   `json:"model,omitempty"`
	Text            string                   `json:"text"`
	Segments        []map[string]interface{} `json:"segments,omitempty"` // timestamped segments, stored as a JSONB array
	Language        string                   `json:"language"`
	DurationSeconds float64                  `json:"duration_seconds"`
	WordCount       *int                     `json:"word_count,omitempty"`
	Confidence      *float64                 `json:"confidence,omitempty"`
	TokensUsed      *int                     `json:"tokens_used,omitempty"`
	LatencyMs       *int                     `json:"latency_ms,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
	IsDeleted       bool                     `json:"is_deleted"`
	DeletedAt       *time.Time               `json:"deleted_at,omitempty"`
}

func NewTranscription(id, jobID string, provider TranscriptionProvider, text, language string) (*Transcription, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if jobID == "" || text == "" {
		return nil, domain.ErrInvalidArgument
	}
	if !provider.Valid() {
		return nil, domain.ErrInvalidArgument
	}
	if language == "" {
		language = "en"
	}
	now := time.Now().UTC()
	return &Transcription{
		ID:        id,
		JobID:     jobID,
		Provider:  provider,
		Text:      text,
		Language:  language,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
