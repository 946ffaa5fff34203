package model

import (
	"time"

	"media-analysis-api/internal/domain"

	"github.com/google/uuid"
)

type FileType string

const (
	FileTypeSource     FileType = "source"     // original file from user input
	FileTypeDownloaded FileType = "downloaded" // fetched from source URL
	FileTypeExtracted  FileType = "extracted"  // frame or clip cut from a video
	FileTypeCached     FileType = "cached"     // cached copy for reprocessing
	FileTypeOutput     FileType = "output"     // generated output
)

func (t FileType) Valid() bool {
	switch t {
	case FileTypeSource, FileTypeDownloaded, FileTypeExtracted, FileTypeCached, FileTypeOutput:
		return true
	}
	return false
}

type MediaFileStatus string

const (
	MediaFileStatusPending     MediaFileStatus = "pending"
	MediaFileStatusDownloading MediaFileStatus = "downloading"
	MediaFileStatusDownloaded  MediaFileStatus = "downloaded"
	MediaFileStatusProcessing  MediaFileStatus = "processing"
	MediaFileStatusCompleted   MediaFileStatus = "completed"
	MediaFileStatusFailed      MediaFileStatus = "failed"
)

func (s MediaFileStatus) Valid() bool {
	switch s {
	case MediaFileStatusPending, MediaFileStatusDownloading, MediaFileStatusDownloaded,
		MediaFileStatusProcessing, MediaFileStatusCompleted, MediaFileStatusFailed:
		return true
	}
	return false
}

// MediaFile is a file touched during a job's workflow. Lifetime is bound to
// the owning job (cascade delete).
type MediaFile struct {
	ID          string          `json:"id"`
	JobID       string          `json:"job_id"`
	FileType    FileType        `json:"file_type"`
	OriginalURL string          `json:"original_url,omitempty"`
	CDNURL      string          `json:"cdn_url,omitempty"`
	MimeType    string          `json:"mime_type,omitempty"`
	FileSize    *int64          `json:"file_size,omitempty"` // bytes; nil when unknown
	Filename    string          `json:"filename,omitempty"`
	Status      MediaFileStatus `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	IsDeleted   bool            `json:"is_deleted"`
	DeletedAt   *time.Time      `json:"deleted_at,omitempty"`
}

func NewMediaFile(id, jobID string, fileType FileType) (*MediaFile, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if jobID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if !fileType.Valid() {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now().UTC()
	return &MediaFile{
		ID:        id,
		JobID:     jobID,
		FileType:  fileType,
		Status:    MediaFileStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
