package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"media-analysis-api/internal/domain"
	"media-analysis-api/internal/domain/model"
	"media-analysis-api/internal/domain/ports/repository"
)

var _ repository.MediaFileRepository = (*PostgresMediaFileRepo)(nil)

const mediaFileColumns = "id, job_id, file_type, original_url, cdn_url, mime_type, file_size, filename, status, created_at, updated_at, is_deleted, deleted_at"

func scanMediaFile(row rowScanner) (*model.MediaFile, error) {
	var f model.MediaFile
	err := row.Scan(&f.ID, &f.JobID, &f.FileType, &f.OriginalURL, &f.CDNURL, &f.MimeType,
		&f.FileSize, &f.Filename, &f.Status, &f.CreatedAt, &f.UpdatedAt, &f.IsDeleted, &f.DeletedAt)
	if err != nil {
		return nil, translateScanErr(err)
	}
	return &f, nil
}

type PostgresMediaFileRepo struct {
	base baseRepo[model.MediaFile]
	pool *pgxpool.Pool
}

func NewPostgresMediaFileRepo(pool *pgxpool.Pool) *PostgresMediaFileRepo {
	return &PostgresMediaFileRepo{
		base: baseRepo[model.MediaFile]{
			pool: pool,
			meta: entityMeta[model.MediaFile]{
				table:      "media_files",
				columns:    mediaFileColumns,
				filterable: map[string]bool{"job_id": true, "file_type": true, "status": true, "mime_type": true},
				softDelete: true,
				scan:       scanMediaFile,
			},
		},
		pool: pool,
	}
}

func (r *PostgresMediaFileRepo) Create(ctx context.Context, tx repository.Tx, file *model.MediaFile) error {
	sql := `INSERT INTO media_files
	        (id, job_id, file_type, original_url, cdn_url, mime_type, file_size, filename, status, created_at, updated_at, is_deleted, deleted_at)
	        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`
	_, err := execSQL(ctx, r.pool, tx, sql,
		file.ID, file.JobID, string(file.FileType), file.OriginalURL, file.CDNURL, file.MimeType,
		file.FileSize, file.Filename, string(file.Status), file.CreatedAt, file.UpdatedAt,
		file.IsDeleted, file.DeletedAt)
	return err
}

func (r *PostgresMediaFileRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.MediaFile, error) {
	return r.base.findByID(ctx, tx, id, false)
}

func (r *PostgresMediaFileRepo) FindByIDWithDeleted(ctx context.Context, tx repository.Tx, id string) (*model.MediaFile, error) {
	return r.base.findByID(ctx, tx, id, true)
}

func (r *PostgresMediaFileRepo) List(ctx context.Context, tx repository.Tx, opts repository.ListOptions) ([]*model.MediaFile, error) {
	return r.base.list(ctx, tx, opts)
}

func (r *PostgresMediaFileRepo) Count(ctx context.Context, tx repository.Tx, filters map[string]interface{}) (int, error) {
	return r.base.count(ctx, tx, filters)
}

func (r *PostgresMediaFileRepo) Update(ctx context.Context, tx repository.Tx, id string, patch repository.MediaFilePatch) (*model.MediaFile, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, domain.ErrInvalidArgument
	}
	var statusArg *string
	if patch.Status != nil {
		s := string(*patch.Status)
		statusArg = &s
	}
	sql := `UPDATE media_files SET
	            original_url = COALESCE($2, original_url),
	            cdn_url      = COALESCE($3, cdn_url),
	            mime_type    = COALESCE($4, mime_type),
	            file_size    = COALESCE($5, file_size),
	            filename     = COALESCE($6, filename),
	            status       = COALESCE($7, status),
	            updated_at   = NOW()
	        WHERE id = $1 AND is_deleted = FALSE
	        RETURNING ` + mediaFileColumns
	row, err := pickRow(ctx, r.pool, tx, sql, id,
		patch.OriginalURL, patch.CDNURL, patch.MimeType, patch.FileSize, patch.Filename, statusArg)
	if err != nil {
		return nil, err
	}
	return scanMediaFile(row)
}

func (r *PostgresMediaFileRepo) SoftDelete(ctx context.Context, tx repository.Tx, id string) error {
	return r.base.softDelete(ctx, tx, id)
}

func (r *PostgresMediaFileRepo) HardDelete(ctx context.Context, tx repository.Tx, id string) error {
	return r.base.hardDelete(ctx, tx, id)
}

func (r *PostgresMediaFileRepo) Restore(ctx context.Context, tx repository.Tx, id string) (*model.MediaFile, error) {
	return r.base.restore(ctx, tx, id)
}

func (r *PostgresMediaFileRepo) FindByJobID(ctx context.Context, tx repository.Tx, jobID string, offset, limit int) ([]*model.MediaFile, error) {
	sql := fmt.Sprintf(`SELECT %s FROM media_files
	        WHERE job_id = $1 AND is_deleted = FALSE
	        ORDER BY created_at ASC LIMIT $2 OFFSET $3`, mediaFileColumns)
	return r.base.queryMany(ctx, tx, sql, jobID, limit, offset)
}

func (r *PostgresMediaFileRepo) FindByStatus(ctx context.Context, tx repository.Tx, status model.MediaFileStatus, offset, limit int) ([]*model.MediaFile, error) {
	sql := fmt.Sprintf(`SELECT %s FROM media_files
	        WHERE status = $1 AND is_deleted = FALSE
	        ORDER BY created_at DESC LIMIT $2 OFFSET $3`, mediaFileColumns)
	return r.base.queryMany(ctx, tx, sql, string(status), limit, offset)
}

func (r *PostgresMediaFileRepo) FindByFileType(ctx context.Context, tx repository.Tx, fileType model.FileType, offset, limit int) ([]*model.MediaFile, error) {
	sql := fmt.Sprintf(`SELECT %s FROM media_files
	        WHERE file_type = $1 AND is_deleted = FALSE
	        ORDER BY created_at DESC LIMIT $2 OFFSET $3`, mediaFileColumns)
	return r.base.queryMany(ctx, tx, sql, string(fileType), limit, offset)
}

func (r *PostgresMediaFileRepo) FindByMimeType(ctx context.Context, tx repository.Tx, mimeType string, offset, limit int) ([]*model.MediaFile, error) {
	sql := fmt.Sprintf(`SELECT %s FROM media_files
	        WHERE mime_type = $1 AND is_deleted = FALSE
	        ORDER BY created_at DESC LIMIT $2 OFFSET $3`, mediaFileColumns)
	return r.base.queryMany(ctx, tx, sql, mimeType, limit, offset)
}

func (r *PostgresMediaFileRepo) CountByJob(ctx context.Context, tx repository.Tx, jobID string) (int, error) {
	return r.base.count(ctx, tx, map[string]interface{}{"job_id": jobID})
}

// TotalSizeByJob sums known file sizes; NULL sizes count as zero.
func (r *PostgresMediaFileRepo) TotalSizeByJob(ctx context.Context, tx repository.Tx, jobID string) (int64, error) {
	row, err := pickRow(ctx, r.pool, tx,
		`SELECT COALESCE(SUM(file_size), 0) FROM media_files WHERE job_id = $1 AND is_deleted = FALSE`, jobID)
	if err != nil {
		return 0, err
	}
	var total int64
	if err := row.Scan(&total); err != nil {
		return 0, translateScanErr(err)
	}
	return total, nil
}

func (r *PostgresMediaFileRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.MediaFileStatus) (*model.MediaFile, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidArgument
	}
	sql := `UPDATE media_files SET status = $2, updated_at = NOW()
	        WHERE id = $1 AND is_deleted = FALSE
	        RETURNING ` + mediaFileColumns
	row, err := pickRow(ctx, r.pool, tx, sql, id, string(status))
	if err != nil {
		return nil, err
	}
	return scanMediaFile(row)
}

func (r *PostgresMediaFileRepo) Search(ctx context.Context, tx repository.Tx, query string, offset, limit int) ([]*model.MediaFile, error) {
	pattern := "%" + query + "%"
	sql := fmt.Sprintf(`SELECT %s FROM media_files
	        WHERE is_deleted = FALSE
	          AND (filename ILIKE $1 OR original_url ILIKE $1)
	        ORDER BY created_at DESC LIMIT $2 OFFSET $3`, mediaFileColumns)
	return r.base.queryMany(ctx, tx, sql, pattern, limit, offset)
}
