package repository

import (
	"context"

	"media-analysis-api/internal/domain/model"
)

// MediaFilePatch carries a partial update; nil fields are left unchanged.
type MediaFilePatch struct {
	OriginalURL *string
	CDNURL      *string
	MimeType    *string
	FileSize    *int64
	Filename    *string
	Status      *model.MediaFileStatus
}

type MediaFileRepository interface {
	Create(ctx context.Context, tx Tx, file *model.MediaFile) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.MediaFile, error)
	FindByIDWithDeleted(ctx context.Context, tx Tx, id string) (*model.MediaFile, error)
	List(ctx context.Context, tx Tx, opts ListOptions) ([]*model.MediaFile, error)
	Count(ctx context.Context, tx Tx, filters map[string]interface{}) (int, error)
	Update(ctx context.Context, tx Tx, id string, patch MediaFilePatch) (*model.MediaFile, error)
	SoftDelete(ctx context.Context, tx Tx, id string) error
	HardDelete(ctx context.Context, tx Tx, id string) error
	Restore(ctx context.Context, tx Tx, id string) (*model.MediaFile, error)

	FindByJobID(ctx context.Context, tx Tx, jobID string, offset, limit int) ([]*model.MediaFile, error)
	FindByStatus(ctx context.Context, tx Tx, status model.MediaFileStatus, offset, limit int) ([]*model.MediaFile, error)
	FindByFileType(ctx context.Context, tx Tx, fileType model.FileType, offset, limit int) ([]*model.MediaFile, error)
	FindByMimeType(ctx context.Context, tx Tx, mimeType string, offset, limit int) ([]*model.MediaFile, error)
	CountByJob(ctx context.Context, tx Tx, jobID string) (int, error)
	TotalSizeByJob(ctx context.Context, tx Tx, jobID string) (int64, error)
	UpdateStatus(ctx context.Context, tx Tx, id string, status model.MediaFileStatus) (*model.MediaFile, error)
	Search(ctx context.Context, tx Tx, query string, offset, limit int) ([]*model.MediaFile, error)
}
