package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"media-analysis-api/internal/domain/model"
	"media-analysis-api/internal/domain/ports/repository"
)

var _ repository.ProcessingLogRepository = (*PostgresProcessingLogRepo)(nil)

const processingLogColumns = "id, job_id, stage, status, message, details, duration_ms, created_at"

func scanProcessingLog(row rowScanner) (*model.ProcessingLog, error) {
	var l model.ProcessingLog
	var details []byte
	err := row.Scan(&l.ID, &l.JobID, &l.Stage, &l.Status, &l.Message, &details, &l.DurationMs, &l.CreatedAt)
	if err != nil {
		return nil, translateScanErr(err)
	}
	l.Details, err = scanJSONMap(details)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// PostgresProcessingLogRepo is append-only; there is no update or delete
// path. Rows go away with the owning job (FK cascade).
type PostgresProcessingLogRepo struct {
	base baseRepo[model.ProcessingLog]
	pool *pgxpool.Pool
}

func NewPostgresProcessingLogRepo(pool *pgxpool.Pool) *PostgresProcessingLogRepo {
	return &PostgresProcessingLogRepo{
		base: baseRepo[model.ProcessingLog]{
			pool: pool,
			meta: entityMeta[model.ProcessingLog]{
				table:      "processing_logs",
				columns:    processingLogColumns,
				filterable: map[string]bool{"job_id": true, "stage": true, "status": true},
				softDelete: false,
				scan:       scanProcessingLog,
			},
		},
		pool: pool,
	}
}

func (r *PostgresProcessingLogRepo) Append(ctx context.Context, tx repository.Tx, entry *model.ProcessingLog) error {
	details, err := jsonbArg(entry.Details)
	if err != nil {
		return err
	}
	sql := `INSERT INTO processing_logs
	        (id, job_id, stage, status, message, details, duration_ms, created_at)
	        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err = execSQL(ctx, r.pool, tx, sql,
		entry.ID, entry.JobID, string(entry.Stage), string(entry.Status),
		entry.Message, details, entry.DurationMs, entry.CreatedAt)
	return err
}

func (r *PostgresProcessingLogRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.ProcessingLog, error) {
	return r.base.findByID(ctx, tx, id, true)
}

func (r *PostgresProcessingLogRepo) FindByJobID(ctx context.Context, tx repository.Tx, jobID string, offset, limit int) ([]*model.ProcessingLog, error) {
	sql := fmt.Sprintf(`SELECT %s FROM processing_logs
	        WHERE job_id = $1
	        ORDER BY created_at ASC LIMIT $2 OFFSET $3`, processingLogColumns)
	return r.base.queryMany(ctx, tx, sql, jobID, limit, offset)
}

func (r *PostgresProcessingLogRepo) FindByStage(ctx context.Context, tx repository.Tx, jobID string, stage model.ProcessingStage) ([]*model.ProcessingLog, error) {
	sql := fmt.Sprintf(`SELECT %s FROM processing_logs
	        WHERE job_id = $1 AND stage = $2
	        ORDER BY created_at ASC`, processingLogColumns)
	return r.base.queryMany(ctx, tx, sql, jobID, string(stage))
}

func (r *PostgresProcessingLogRepo) LatestByStage(ctx context.Context, tx repository.Tx, jobID string, stage model.ProcessingStage) (*model.ProcessingLog, error) {
	sql := fmt.Sprintf(`SELECT %s FROM processing_logs
	        WHERE job_id = $1 AND stage = $2
	        ORDER BY created_at DESC LIMIT 1`, processingLogColumns)
	row, err := pickRow(ctx, r.pool, tx, sql, jobID, string(stage))
	if err != nil {
		return nil, err
	}
	return scanProcessingLog(row)
}

func (r *PostgresProcessingLogRepo) FindFailures(ctx context.Context, tx repository.Tx, jobID string) ([]*model.ProcessingLog, error) {
	sql := fmt.Sprintf(`SELECT %s FROM processing_logs
	        WHERE job_id = $1 AND status = 'failed'
	        ORDER BY created_at ASC`, processingLogColumns)
	return r.base.queryMany(ctx, tx, sql, jobID)
}

func (r *PostgresProcessingLogRepo) CountByJob(ctx context.Context, tx repository.Tx, jobID string) (int, error) {
	return r.base.count(ctx, tx, map[string]interface{}{"job_id": jobID})
}
