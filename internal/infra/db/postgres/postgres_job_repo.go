package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"media-analysis-api/internal/domain"
	"media-analysis-api/internal/domain/model"
	"media-analysis-api/internal/domain/ports/repository"
)

var _ repository.JobRepository = (*PostgresJobRepo)(nil)

const jobColumns = "id, status, media_type, source_url, created_at, updated_at, completed_at, error_message, metadata, is_deleted, deleted_at"

func scanJob(row rowScanner) (*model.AnalysisJob, error) {
	var j model.AnalysisJob
	var meta []byte
	err := row.Scan(&j.ID, &j.Status, &j.MediaType, &j.SourceURL, &j.CreatedAt, &j.UpdatedAt,
		&j.CompletedAt, &j.ErrorMessage, &meta, &j.IsDeleted, &j.DeletedAt)
	if err != nil {
		return nil, translateScanErr(err)
	}
	j.Metadata, err = scanJSONMap(meta)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

type PostgresJobRepo struct {
	base baseRepo[model.AnalysisJob]
	pool *pgxpool.Pool
}

func NewPostgresJobRepo(pool *pgxpool.Pool) *PostgresJobRepo {
	return &PostgresJobRepo{
		base: baseRepo[model.AnalysisJob]{
			pool: pool,
			meta: entityMeta[model.AnalysisJob]{
				table:      "analysis_jobs",
				columns:    jobColumns,
				filterable: map[string]bool{"status": true, "media_type": true},
				softDelete: true,
				scan:       scanJob,
			},
		},
		pool: pool,
	}
}

func (r *PostgresJobRepo) Create(ctx context.Context, tx repository.Tx, job *model.AnalysisJob) error {
	meta := job.Metadata
	if meta == nil {
		meta = map[string]interface{}{}
	}
	metaArg, err := jsonbArg(meta)
	if err != nil {
		return err
	}
	sql := `INSERT INTO analysis_jobs
	        (id, status, media_type, source_url, created_at, updated_at, completed_at, error_message, metadata, is_deleted, deleted_at)
	        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`
	_, err = execSQL(ctx, r.pool, tx, sql,
		job.ID, string(job.Status), string(job.MediaType), job.SourceURL,
		job.CreatedAt, job.UpdatedAt, job.CompletedAt, job.ErrorMessage,
		metaArg, job.IsDeleted, job.DeletedAt)
	return err
}

func (r *PostgresJobRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.AnalysisJob, error) {
	return r.base.findByID(ctx, tx, id, false)
}

func (r *PostgresJobRepo) FindByIDWithDeleted(ctx context.Context, tx repository.Tx, id string) (*model.AnalysisJob, error) {
	return r.base.findByID(ctx, tx, id, true)
}

func (r *PostgresJobRepo) List(ctx context.Context, tx repository.Tx, opts repository.ListOptions) ([]*model.AnalysisJob, error) {
	return r.base.list(ctx, tx, opts)
}

func (r *PostgresJobRepo) Count(ctx context.Context, tx repository.Tx, filters map[string]interface{}) (int, error) {
	return r.base.count(ctx, tx, filters)
}

func (r *PostgresJobRepo) Exists(ctx context.Context, tx repository.Tx, filters map[string]interface{}) (bool, error) {
	return r.base.exists(ctx, tx, filters)
}

// Update patches mutable fields; nil patch fields keep the stored value.
func (r *PostgresJobRepo) Update(ctx context.Context, tx repository.Tx, id string, patch repository.JobPatch) (*model.AnalysisJob, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, domain.ErrInvalidArgument
	}
	var statusArg *string
	if patch.Status != nil {
		s := string(*patch.Status)
		statusArg = &s
	}
	metaArg, err := jsonbArg(patch.Metadata)
	if err != nil {
		return nil, err
	}
	sql := `UPDATE analysis_jobs SET
	            status        = COALESCE($2, status),
	            completed_at  = COALESCE($3, completed_at),
	            error_message = COALESCE($4, error_message),
	            metadata      = COALESCE($5::jsonb, metadata),
	            updated_at    = NOW()
	        WHERE id = $1 AND is_deleted = FALSE
	        RETURNING ` + jobColumns
	row, err := pickRow(ctx, r.pool, tx, sql, id, statusArg, patch.CompletedAt, patch.ErrorMessage, metaArg)
	if err != nil {
		return nil, err
	}
	return scanJob(row)
}

func (r *PostgresJobRepo) SoftDelete(ctx context.Context, tx repository.Tx, id string) error {
	return r.base.softDelete(ctx, tx, id)
}

func (r *PostgresJobRepo) HardDelete(ctx context.Context, tx repository.Tx, id string) error {
	return r.base.hardDelete(ctx, tx, id)
}

func (r *PostgresJobRepo) Restore(ctx context.Context, tx repository.Tx, id string) (*model.AnalysisJob, error) {
	return r.base.restore(ctx, tx, id)
}

func (r *PostgresJobRepo) FindByStatus(ctx context.Context, tx repository.Tx, status model.JobStatus, offset, limit int) ([]*model.AnalysisJob, error) {
	sql := fmt.Sprintf(`SELECT %s FROM analysis_jobs
	        WHERE status = $1 AND is_deleted = FALSE
	        ORDER BY created_at DESC LIMIT $2 OFFSET $3`, jobColumns)
	return r.base.queryMany(ctx, tx, sql, string(status), limit, offset)
}

func (r *PostgresJobRepo) CountByStatus(ctx context.Context, tx repository.Tx, status model.JobStatus) (int, error) {
	return r.base.count(ctx, tx, map[string]interface{}{"status": string(status)})
}

func (r *PostgresJobRepo) FindByMediaType(ctx context.Context, tx repository.Tx, mediaType model.MediaType, offset, limit int) ([]*model.AnalysisJob, error) {
	sql := fmt.Sprintf(`SELECT %s FROM analysis_jobs
	        WHERE media_type = $1 AND is_deleted = FALSE
	        ORDER BY created_at DESC LIMIT $2 OFFSET $3`, jobColumns)
	return r.base.queryMany(ctx, tx, sql, string(mediaType), limit, offset)
}

// FindRecent returns the newest jobs. With includeCompleted false, terminal
// jobs are filtered out so the listing reflects live work.
func (r *PostgresJobRepo) FindRecent(ctx context.Context, tx repository.Tx, limit int, includeCompleted bool, since *time.Time) ([]*model.AnalysisJob, error) {
	sql := "SELECT " + jobColumns + " FROM analysis_jobs WHERE is_deleted = FALSE"
	var args []interface{}
	if !includeCompleted {
		sql += " AND status NOT IN ('completed','failed')"
	}
	if since != nil {
		args = append(args, *since)
		sql += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	args = append(args, limit)
	sql += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	return r.base.queryMany(ctx, tx, sql, args...)
}

// FindPending is an advisory read: concurrent callers can see the same rows.
func (r *PostgresJobRepo) FindPending(ctx context.Context, tx repository.Tx, limit int) ([]*model.AnalysisJob, error) {
	sql := fmt.Sprintf(`SELECT %s FROM analysis_jobs
	        WHERE status = 'pending' AND is_deleted = FALSE
	        ORDER BY created_at ASC LIMIT $1`, jobColumns)
	return r.base.queryMany(ctx, tx, sql, limit)
}

func (r *PostgresJobRepo) FindProcessing(ctx context.Context, tx repository.Tx, limit int) ([]*model.AnalysisJob, error) {
	sql := fmt.Sprintf(`SELECT %s FROM analysis_jobs
	        WHERE status = 'processing' AND is_deleted = FALSE
	        ORDER BY updated_at ASC LIMIT $1`, jobColumns)
	return r.base.queryMany(ctx, tx, sql, limit)
}

func (r *PostgresJobRepo) FindFailed(ctx context.Context, tx repository.Tx, since *time.Time, limit int) ([]*model.AnalysisJob, error) {
	return r.findTerminal(ctx, tx, model.JobStatusFailed, since, limit)
}

func (r *PostgresJobRepo) FindCompleted(ctx context.Context, tx repository.Tx, since *time.Time, limit int) ([]*model.AnalysisJob, error) {
	return r.findTerminal(ctx, tx, model.JobStatusCompleted, since, limit)
}

func (r *PostgresJobRepo) findTerminal(ctx context.Context, tx repository.Tx, status model.JobStatus, since *time.Time, limit int) ([]*model.AnalysisJob, error) {
	sql := "SELECT " + jobColumns + " FROM analysis_jobs WHERE status = $1 AND is_deleted = FALSE"
	args := []interface{}{string(status)}
	if since != nil {
		args = append(args, *since)
		sql += fmt.Sprintf(" AND updated_at >= $%d", len(args))
	}
	args = append(args, limit)
	sql += fmt.Sprintf(" ORDER BY updated_at DESC LIMIT $%d", len(args))
	return r.base.queryMany(ctx, tx, sql, args...)
}

// FindStaleProcessing lists processing jobs whose last touch predates the
// cutoff. Read-only companion to RequeueStale/FailStale.
func (r *PostgresJobRepo) FindStaleProcessing(ctx context.Context, tx repository.Tx, olderThan time.Duration) ([]*model.AnalysisJob, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	sql := fmt.Sprintf(`SELECT %s FROM analysis_jobs
	        WHERE status = 'processing' AND is_deleted = FALSE AND updated_at < $1
	        ORDER BY updated_at ASC`, jobColumns)
	return r.base.queryMany(ctx, tx, sql, cutoff)
}

// UpdateStatus applies a lifecycle transition. Completion stamps completed_at;
// failure records the message. Any valid status is accepted regardless of the
// current one, matching the permissive transition contract.
func (r *PostgresJobRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.JobStatus, errorMessage string) (*model.AnalysisJob, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidArgument
	}
	sql := `UPDATE analysis_jobs SET
	            status        = $2,
	            completed_at  = CASE WHEN $2 = 'completed' THEN NOW() ELSE completed_at END,
	            error_message = CASE WHEN $2 = 'failed' THEN $3 ELSE error_message END,
	            updated_at    = NOW()
	        WHERE id = $1 AND is_deleted = FALSE
	        RETURNING ` + jobColumns
	row, err := pickRow(ctx, r.pool, tx, sql, id, string(status), errorMessage)
	if err != nil {
		return nil, err
	}
	return scanJob(row)
}

func (r *PostgresJobRepo) MarkAsProcessing(ctx context.Context, tx repository.Tx, id string) (*model.AnalysisJob, error) {
	return r.UpdateStatus(ctx, tx, id, model.JobStatusProcessing, "")
}

func (r *PostgresJobRepo) MarkAsCompleted(ctx context.Context, tx repository.Tx, id string) (*model.AnalysisJob, error) {
	return r.UpdateStatus(ctx, tx, id, model.JobStatusCompleted, "")
}

func (r *PostgresJobRepo) MarkAsFailed(ctx context.Context, tx repository.Tx, id string, errorMessage string) (*model.AnalysisJob, error) {
	if errorMessage == "" {
		errorMessage = "Unknown error"
	}
	return r.UpdateStatus(ctx, tx, id, model.JobStatusFailed, errorMessage)
}

// ClaimNextPending locks the oldest pending job and flips it to processing in
// one transaction. SKIP LOCKED keeps concurrent claimers from serializing on
// the same row.
func (r *PostgresJobRepo) ClaimNextPending(ctx context.Context) (*model.AnalysisJob, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id string
	err = tx.QueryRow(ctx, `SELECT id FROM analysis_jobs
	        WHERE status = 'pending' AND is_deleted = FALSE
	        ORDER BY created_at ASC
	        LIMIT 1
	        FOR UPDATE SKIP LOCKED`).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoPendingJobs
		}
		return nil, domain.ErrReadDatabaseRow
	}

	row := tx.QueryRow(ctx, `UPDATE analysis_jobs
	        SET status = 'processing', updated_at = NOW()
	        WHERE id = $1
	        RETURNING `+jobColumns, id)
	job, err := scanJob(row)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return job, nil
}

// RequeueStale sends stuck processing jobs back to the queue in one
// conditional UPDATE. Workers that later report on a requeued job lose the
// race harmlessly.
func (r *PostgresJobRepo) RequeueStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	tag, err := r.pool.Exec(ctx, `UPDATE analysis_jobs
	        SET status = 'pending', updated_at = NOW()
	        WHERE status = 'processing' AND is_deleted = FALSE AND updated_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresJobRepo) FailStale(ctx context.Context, olderThan time.Duration, errorMessage string) (int64, error) {
	if errorMessage == "" {
		errorMessage = "Processing timed out"
	}
	cutoff := time.Now().UTC().Add(-olderThan)
	tag, err := r.pool.Exec(ctx, `UPDATE analysis_jobs
	        SET status = 'failed', error_message = $2, updated_at = NOW()
	        WHERE status = 'processing' AND is_deleted = FALSE AND updated_at < $1`, cutoff, errorMessage)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresJobRepo) Statistics(ctx context.Context, tx repository.Tx) (*model.JobStatistics, error) {
	rows, err := queryRows(ctx, r.pool, tx,
		`SELECT status, COUNT(*) FROM analysis_jobs WHERE is_deleted = FALSE GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	stats := &model.JobStatistics{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, translateScanErr(err)
		}
		switch model.JobStatus(status) {
		case model.JobStatusPending:
			stats.Pending = n
		case model.JobStatusProcessing:
			stats.Processing = n
		case model.JobStatusCompleted:
			stats.Completed = n
		case model.JobStatusFailed:
			stats.Failed = n
		}
		stats.Total += n
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrOperationFailed
	}
	return stats, nil
}

// Search matches the source URL and the metadata description,
// case-insensitively.
func (r *PostgresJobRepo) Search(ctx context.Context, tx repository.Tx, query string, offset, limit int) ([]*model.AnalysisJob, error) {
	pattern := "%" + query + "%"
	sql := fmt.Sprintf(`SELECT %s FROM analysis_jobs
	        WHERE is_deleted = FALSE
	          AND (source_url ILIKE $1 OR metadata->>'description' ILIKE $1)
	        ORDER BY created_at DESC LIMIT $2 OFFSET $3`, jobColumns)
	return r.base.queryMany(ctx, tx, sql, pattern, limit, offset)
}
