package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"media-analysis-api/internal/domain"
	"media-analysis-api/internal/domain/model"
	"media-analysis-api/internal/domain/ports/repository"
)

var _ repository.TranscriptionRepository = (*PostgresTranscriptionRepo)(nil)

const transcriptionColumns = "id, job_id, provider, model, text, segments, language, duration_seconds, word_count, confidence, tokens_used, latency_ms, created_at, updated_at, is_deleted, deleted_at"

func segmentsArg(segments []map[string]interface{}) (interface{}, error) {
	if segments == nil {
		return nil, nil
	}
	b, err := json.Marshal(segments)
	if err != nil {
		return nil, domain.ErrInvalidArgument
	}
	return b, nil
}

func scanTranscription(row rowScanner) (*model.Transcription, error) {
	var t model.Transcription
	var segs []byte
	err := row.Scan(&t.ID, &t.JobID, &t.Provider, &t.Model, &t.Text, &segs, &t.Language,
		&t.DurationSeconds, &t.WordCount, &t.Confidence, &t.TokensUsed, &t.LatencyMs,
		&t.CreatedAt, &t.UpdatedAt, &t.IsDeleted, &t.DeletedAt)
	if err != nil {
		return nil, translateScanErr(err)
	}
	if len(segs) > 0 {
		if err := json.Unmarshal(segs, &t.Segments); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
	}
	return &t, nil
}

type PostgresTranscriptionRepo struct {
	base baseRepo[model.Transcription]
	pool *pgxpool.Pool
}

func NewPostgresTranscriptionRepo(pool *pgxpool.Pool) *PostgresTranscriptionRepo {
	return &PostgresTranscriptionRepo{
		base: baseRepo[model.Transcription]{
			pool: pool,
			meta: entityMeta[model.Transcription]{
				table:      "transcriptions",
				columns:    transcriptionColumns,
				filterable: map[string]bool{"job_id": true, "provider": true, "language": true, "model": true},
				softDelete: true,
				scan:       scanTranscription,
			},
		},
		pool: pool,
	}
}

func (r *PostgresTranscriptionRepo) Create(ctx context.Context, tx repository.Tx, tr *model.Transcription) error {
	segs, err := segmentsArg(tr.Segments)
	if err != nil {
		return err
	}
	sql := `INSERT INTO transcriptions
	        (id, job_id, provider, model, text, segments, language, duration_seconds, word_count, confidence, tokens_used, latency_ms, created_at, updated_at, is_deleted, deleted_at)
	        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`
	_, err = execSQL(ctx, r.pool, tx, sql,
		tr.ID, tr.JobID, string(tr.Provider), tr.Model, tr.Text, segs, tr.Language,
		tr.DurationSeconds, tr.WordCount, tr.Confidence, tr.TokensUsed, tr.LatencyMs,
		tr.CreatedAt, tr.UpdatedAt, tr.IsDeleted, tr.DeletedAt)
	return err
}

func (r *PostgresTranscriptionRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Transcription, error) {
	return r.base.findByID(ctx, tx, id, false)
}

func (r *PostgresTranscriptionRepo) FindByIDWithDeleted(ctx context.Context, tx repository.Tx, id string) (*model.Transcription, error) {
	return r.base.findByID(ctx, tx, id, true)
}

func (r *PostgresTranscriptionRepo) List(ctx context.Context, tx repository.Tx, opts repository.ListOptions) ([]*model.Transcription, error) {
	return r.base.list(ctx, tx, opts)
}

func (r *PostgresTranscriptionRepo) Count(ctx context.Context, tx repository.Tx, filters map[string]interface{}) (int, error) {
	return r.base.count(ctx, tx, filters)
}

func (r *PostgresTranscriptionRepo) SoftDelete(ctx context.Context, tx repository.Tx, id string) error {
	return r.base.softDelete(ctx, tx, id)
}

func (r *PostgresTranscriptionRepo) HardDelete(ctx context.Context, tx repository.Tx, id string) error {
	return r.base.hardDelete(ctx, tx, id)
}

func (r *PostgresTranscriptionRepo) Restore(ctx context.Context, tx repository.Tx, id string) (*model.Transcription, error) {
	return r.base.restore(ctx, tx, id)
}

func (r *PostgresTranscriptionRepo) FindByJobID(ctx context.Context, tx repository.Tx, jobID string, offset, limit int) ([]*model.Transcription, error) {
	sql := fmt.Sprintf(`SELECT %s FROM transcriptions
	        WHERE job_id = $1 AND is_deleted = FALSE
	        ORDER BY created_at ASC LIMIT $2 OFFSET $3`, transcriptionColumns)
	return r.base.queryMany(ctx, tx, sql, jobID, limit, offset)
}

func (r *PostgresTranscriptionRepo) FindByProvider(ctx context.Context, tx repository.Tx, provider model.TranscriptionProvider, offset, limit int) ([]*model.Transcription, error) {
	sql := fmt.Sprintf(`SELECT %s FROM transcriptions
	        WHERE provider = $1 AND is_deleted = FALSE
	        ORDER BY created_at DESC LIMIT $2 OFFSET $3`, transcriptionColumns)
	return r.base.queryMany(ctx, tx, sql, string(provider), limit, offset)
}

func (r *PostgresTranscriptionRepo) FindByLanguage(ctx context.Context, tx repository.Tx, language string, offset, limit int) ([]*model.Transcription, error) {
	sql := fmt.Sprintf(`SELECT %s FROM transcriptions
	        WHERE language = $1 AND is_deleted = FALSE
	        ORDER BY created_at DESC LIMIT $2 OFFSET $3`, transcriptionColumns)
	return r.base.queryMany(ctx, tx, sql, language, limit, offset)
}

func (r *PostgresTranscriptionRepo) FindHighConfidence(ctx context.Context, tx repository.Tx, minConfidence float64, limit int) ([]*model.Transcription, error) {
	sql := fmt.Sprintf(`SELECT %s FROM transcriptions
	        WHERE confidence >= $1 AND is_deleted = FALSE
	        ORDER BY confidence DESC LIMIT $2`, transcriptionColumns)
	return r.base.queryMany(ctx, tx, sql, minConfidence, limit)
}

func (r *PostgresTranscriptionRepo) FindWithSegments(ctx context.Context, tx repository.Tx, jobID string) ([]*model.Transcription, error) {
	sql := fmt.Sprintf(`SELECT %s FROM transcriptions
	        WHERE job_id = $1 AND segments IS NOT NULL AND jsonb_array_length(segments) > 0 AND is_deleted = FALSE
	        ORDER BY created_at ASC`, transcriptionColumns)
	return r.base.queryMany(ctx, tx, sql, jobID)
}

func (r *PostgresTranscriptionRepo) CountByJob(ctx context.Context, tx repository.Tx, jobID string) (int, error) {
	return r.base.count(ctx, tx, map[string]interface{}{"job_id": jobID})
}

func (r *PostgresTranscriptionRepo) TotalWordsByJob(ctx context.Context, tx repository.Tx, jobID string) (int64, error) {
	row, err := pickRow(ctx, r.pool, tx,
		`SELECT COALESCE(SUM(word_count), 0) FROM transcriptions WHERE job_id = $1 AND is_deleted = FALSE`, jobID)
	if err != nil {
		return 0, err
	}
	var total int64
	if err := row.Scan(&total); err != nil {
		return 0, translateScanErr(err)
	}
	return total, nil
}

func (r *PostgresTranscriptionRepo) TotalDurationByJob(ctx context.Context, tx repository.Tx, jobID string) (float64, error) {
	row, err := pickRow(ctx, r.pool, tx,
		`SELECT COALESCE(SUM(duration_seconds), 0) FROM transcriptions WHERE job_id = $1 AND is_deleted = FALSE`, jobID)
	if err != nil {
		return 0, err
	}
	var total float64
	if err := row.Scan(&total); err != nil {
		return 0, translateScanErr(err)
	}
	return total, nil
}

func (r *PostgresTranscriptionRepo) AverageConfidenceByJob(ctx context.Context, tx repository.Tx, jobID string) (*float64, error) {
	row, err := pickRow(ctx, r.pool, tx,
		`SELECT AVG(confidence) FROM transcriptions WHERE job_id = $1 AND is_deleted = FALSE`, jobID)
	if err != nil {
		return nil, err
	}
	var avg *float64
	if err := row.Scan(&avg); err != nil {
		return nil, translateScanErr(err)
	}
	return avg, nil
}

func (r *PostgresTranscriptionRepo) LanguageDistributionByJob(ctx context.Context, tx repository.Tx, jobID string) (map[string]int, error) {
	rows, err := queryRows(ctx, r.pool, tx,
		`SELECT language, COUNT(*) FROM transcriptions
	         WHERE job_id = $1 AND is_deleted = FALSE GROUP BY language`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	dist := map[string]int{}
	for rows.Next() {
		var lang string
		var n int
		if err := rows.Scan(&lang, &n); err != nil {
			return nil, translateScanErr(err)
		}
		dist[lang] = n
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrOperationFailed
	}
	return dist, nil
}

func (r *PostgresTranscriptionRepo) StatisticsByProvider(ctx context.Context, tx repository.Tx) ([]*model.ProviderStatistics, error) {
	rows, err := queryRows(ctx, r.pool, tx,
		`SELECT provider, COUNT(*), AVG(confidence), COALESCE(SUM(tokens_used), 0), AVG(latency_ms)
	         FROM transcriptions WHERE is_deleted = FALSE
	         GROUP BY provider ORDER BY provider`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.ProviderStatistics
	for rows.Next() {
		var s model.ProviderStatistics
		if err := rows.Scan(&s.Provider, &s.Count, &s.AvgConfidence, &s.TotalTokens, &s.AvgLatencyMs); err != nil {
			return nil, translateScanErr(err)
		}
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrOperationFailed
	}
	return out, nil
}

// Search matches the transcription text, case-insensitively.
func (r *PostgresTranscriptionRepo) Search(ctx context.Context, tx repository.Tx, query string, offset, limit int) ([]*model.Transcription, error) {
	pattern := "%" + query + "%"
	sql := fmt.Sprintf(`SELECT %s FROM transcriptions
	        WHERE is_deleted = FALSE AND text ILIKE $1
	        ORDER BY created_at DESC LIMIT $2 OFFSET $3`, transcriptionColumns)
	return r.base.queryMany(ctx, tx, sql, pattern, limit, offset)
}

// UpdateText replaces the text; the word count is recomputed server-side
// unless the caller supplies one.
func (r *PostgresTranscriptionRepo) UpdateText(ctx context.Context, tx repository.Tx, id, text string, wordCount *int) (*model.Transcription, error) {
	sql := `UPDATE transcriptions SET
	            text       = $2,
	            word_count = COALESCE($3, array_length(regexp_split_to_array(trim($2), '\s+'), 1)),
	            updated_at = NOW()
	        WHERE id = $1 AND is_deleted = FALSE
	        RETURNING ` + transcriptionColumns
	row, err := pickRow(ctx, r.pool, tx, sql, id, text, wordCount)
	if err != nil {
		return nil, err
	}
	return scanTranscription(row)
}
