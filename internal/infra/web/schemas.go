package web

import (
	"time"

	"media-analysis-api/internal/domain/model"
)

// Request bodies for the v1 API. Validation happens here so handlers can
// answer 422 with the offending field before touching a use case.

type fieldError struct {
	field string
	msg   string
}

type jobCreateRequest struct {
	MediaType string                 `json:"media_type"`
	SourceURL string                 `json:"source_url"`
	Metadata  map[string]interface{} `json:"metadata"`
}

func (req jobCreateRequest) validate() *fieldError {
	if !model.MediaType(req.MediaType).Valid() {
		return &fieldError{"media_type", "must be one of: video, audio, image"}
	}
	if len(req.SourceURL) > 2048 {
		return &fieldError{"source_url", "must be at most 2048 characters"}
	}
	return nil
}

type jobUpdateRequest struct {
	Status       *string                `json:"status"`
	CompletedAt  *time.Time             `json:"completed_at"`
	ErrorMessage *string                `json:"error_message"`
	Metadata     map[string]interface{} `json:"metadata"`
}

func (req jobUpdateRequest) validate() *fieldError {
	if req.Status != nil && !model.JobStatus(*req.Status).Valid() {
		return &fieldError{"status", "must be one of: pending, processing, completed, failed"}
	}
	return nil
}

type jobFailRequest struct {
	ErrorMessage string `json:"error_message"`
}

func (req jobFailRequest) validate() *fieldError {
	if req.ErrorMessage == "" {
		return &fieldError{"error_message", "is required"}
	}
	return nil
}

type mediaFileCreateRequest struct {
	FileType    string  `json:"file_type"`
	OriginalURL *string `json:"original_url"`
	CDNURL      *string `json:"cdn_url"`
	MimeType    *string `json:"mime_type"`
	FileSize    *int64  `json:"file_size"`
	Filename    *string `json:"filename"`
	Status      *string `json:"status"`
}

func (req mediaFileCreateRequest) validate() *fieldError {
	if !model.FileType(req.FileType).Valid() {
		return &fieldError{"file_type", "must be one of: source, downloaded, extracted, cached, output"}
	}
	if req.Status != nil && !model.MediaFileStatus(*req.Status).Valid() {
		return &fieldError{"status", "unknown media file status"}
	}
	if req.FileSize != nil && *req.FileSize < 0 {
		return &fieldError{"file_size", "must not be negative"}
	}
	return nil
}

type mediaFileStatusRequest struct {
	Status string `json:"status"`
}

func (req mediaFileStatusRequest) validate() *fieldError {
	if !model.MediaFileStatus(req.Status).Valid() {
		return &fieldError{"status", "unknown media file status"}
	}
	return nil
}

type resultCreateRequest struct {
	Provider   string                 `json:"provider"`
	Model      string                 `json:"model"`
	Result     map[string]interface{} `json:"result"`
	Confidence *float64               `json:"confidence"`
	TokensUsed *int                   `json:"tokens_used"`
	LatencyMs  *int                   `json:"latency_ms"`
}

func (req resultCreateRequest) validate() *fieldError {
	if !model.AnalysisProvider(req.Provider).Valid() {
		return &fieldError{"provider", "unknown analysis provider"}
	}
	if req.Model == "" {
		return &fieldError{"model", "is required"}
	}
	if req.Confidence != nil && (*req.Confidence < 0 || *req.Confidence > 1) {
		return &fieldError{"confidence", "must be between 0 and 1"}
	}
	return nil
}

type transcriptionCreateRequest struct {
	Provider        string                   `json:"provider"`
	Model           string                   `json:"model"`
	Text            string                   `json:"text"`
	Language        string                   `json:"language"`
	Segments        []map[string]interface{} `json:"segments"`
	DurationSeconds float64                  `json:"duration_seconds"`
	WordCount       *int                     `json:"word_count"`
	Confidence      *float64                 `json:"confidence"`
	TokensUsed      *int                     `json:"tokens_used"`
	LatencyMs       *int                     `json:"latency_ms"`
}

func (req transcriptionCreateRequest) validate() *fieldError {
	if !model.TranscriptionProvider(req.Provider).Valid() {
		return &fieldError{"provider", "unknown transcription provider"}
	}
	if req.Text == "" {
		return &fieldError{"text", "is required"}
	}
	if req.Confidence != nil && (*req.Confidence < 0 || *req.Confidence > 1) {
		return &fieldError{"confidence", "must be between 0 and 1"}
	}
	if req.DurationSeconds < 0 {
		return &fieldError{"duration_seconds", "must not be negative"}
	}
	return nil
}

type transcriptionTextRequest struct {
	Text      string `json:"text"`
	WordCount *int   `json:"word_count"`
}

func (req transcriptionTextRequest) validate() *fieldError {
	if req.Text == "" {
		return &fieldError{"text", "is required"}
	}
	return nil
}

type logCreateRequest struct {
	Stage      string                 `json:"stage"`
	Status     string                 `json:"status"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details"`
	DurationMs *int                   `json:"duration_ms"`
}

func (req logCreateRequest) validate() *fieldError {
	if !model.ProcessingStage(req.Stage).Valid() {
		return &fieldError{"stage", "unknown processing stage"}
	}
	if !model.ProcessingLogStatus(req.Status).Valid() {
		return &fieldError{"status", "unknown log status"}
	}
	return nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
