package usecase

import (
	"context"

	"media-analysis-api/internal/domain/model"
	"media-analysis-api/internal/domain/ports/repository"
	"media-analysis-api/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ MediaFileUseCase = (*mediaFileUC)(nil)

// MediaFileUseCase manages the files attached to a job.
type MediaFileUseCase interface {
	Attach(ctx context.Context, jobID string, fileType model.FileType, patch repository.MediaFilePatch) (*model.MediaFile, error)
	Get(ctx context.Context, id string) (*model.MediaFile, error)
	List(ctx context.Context, opts repository.ListOptions) ([]*model.MediaFile, int, error)
	ListByJob(ctx context.Context, jobID string, offset, limit int) ([]*model.MediaFile, int, error)
	Update(ctx context.Context, id string, patch repository.MediaFilePatch) (*model.MediaFile, error)
	UpdateStatus(ctx context.Context, id string, status model.MediaFileStatus) (*model.MediaFile, error)
	Delete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) (*model.MediaFile, error)
	TotalSizeByJob(ctx context.Context, jobID string) (int64, error)
	Search(ctx context.Context, query string, offset, limit int) ([]*model.MediaFile, error)
}

type mediaFileUC struct {
	jobs  repository.JobRepository
	media repository.MediaFileRepository
	log   *zerolog.Logger
}

func NewMediaFileUseCase(jobs repository.JobRepository, media repository.MediaFileRepository, logger *zerolog.Logger) *mediaFileUC {
	return &mediaFileUC{jobs: jobs, media: media, log: logger}
}

// Attach creates a file under an existing live job. The optional patch fills
// in URLs, size and mime type known at attach time.
func (u *mediaFileUC) Attach(ctx context.Context, jobID string, fileType model.FileType, patch repository.MediaFilePatch) (*model.MediaFile, error) {
	defer logging.TraceDuration(u.log, "MediaFileUC.Attach")()

	if _, err := u.jobs.FindByID(ctx, repository.NoTX, jobID); err != nil {
		return nil, err
	}
	file, err := model.NewMediaFile("", jobID, fileType)
	if err != nil {
		return nil, err
	}
	applyMediaFilePatch(file, patch)
	if err := u.media.Create(ctx, repository.NoTX, file); err != nil {
		u.log.Error().Err(err).Str("job_id", jobID).Msg("failed to attach media file")
		return nil, err
	}
	return file, nil
}

func applyMediaFilePatch(f *model.MediaFile, patch repository.MediaFilePatch) {
	if patch.OriginalURL != nil {
		f.OriginalURL = *patch.OriginalURL
	}
	if patch.CDNURL != nil {
		f.CDNURL = *patch.CDNURL
	}
	if patch.MimeType != nil {
		f.MimeType = *patch.MimeType
	}
	if patch.FileSize != nil {
		f.FileSize = patch.FileSize
	}
	if patch.Filename != nil {
		f.Filename = *patch.Filename
	}
	if patch.Status != nil {
		f.Status = *patch.Status
	}
}

func (u *mediaFileUC) Get(ctx context.Context, id string) (*model.MediaFile, error) {
	defer logging.TraceDuration(u.log, "MediaFileUC.Get")()
	return u.media.FindByID(ctx, repository.NoTX, id)
}

func (u *mediaFileUC) List(ctx context.Context, opts repository.ListOptions) ([]*model.MediaFile, int, error) {
	defer logging.TraceDuration(u.log, "MediaFileUC.List")()

	items, err := u.media.List(ctx, repository.NoTX, opts)
	if err != nil {
		return nil, 0, err
	}
	total, err := u.media.Count(ctx, repository.NoTX, opts.Filters)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (u *mediaFileUC) ListByJob(ctx context.Context, jobID string, offset, limit int) ([]*model.MediaFile, int, error) {
	defer logging.TraceDuration(u.log, "MediaFileUC.ListByJob")()

	if _, err := u.jobs.FindByID(ctx, repository.NoTX, jobID); err != nil {
		return nil, 0, err
	}
	items, err := u.media.FindByJobID(ctx, repository.NoTX, jobID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := u.media.CountByJob(ctx, repository.NoTX, jobID)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (u *mediaFileUC) Update(ctx context.Context, id string, patch repository.MediaFilePatch) (*model.MediaFile, error) {
	defer logging.TraceDuration(u.log, "MediaFileUC.Update")()
	return u.media.Update(ctx, repository.NoTX, id, patch)
}

func (u *mediaFileUC) UpdateStatus(ctx context.Context, id string, status model.MediaFileStatus) (*model.MediaFile, error) {
	defer logging.TraceDuration(u.log, "MediaFileUC.UpdateStatus")()
	return u.media.UpdateStatus(ctx, repository.NoTX, id, status)
}

func (u *mediaFileUC) Delete(ctx context.Context, id string) error {
	defer logging.TraceDuration(u.log, "MediaFileUC.Delete")()
	return u.media.SoftDelete(ctx, repository.NoTX, id)
}

func (u *mediaFileUC) Restore(ctx context.Context, id string) (*model.MediaFile, error) {
	defer logging.TraceDuration(u.log, "MediaFileUC.Restore")()
	return u.media.Restore(ctx, repository.NoTX, id)
}

func (u *mediaFileUC) TotalSizeByJob(ctx context.Context, jobID string) (int64, error) {
	defer logging.TraceDuration(u.log, "MediaFileUC.TotalSizeByJob")()
	return u.media.TotalSizeByJob(ctx, repository.NoTX, jobID)
}

func (u *mediaFileUC) Search(ctx context.Context, query string, offset, limit int) ([]*model.MediaFile, error) {
	defer logging.TraceDuration(u.log, "MediaFileUC.Search")()
	return u.media.Search(ctx, repository.NoTX, query, offset, limit)
}
