package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"media-analysis-api/internal/domain"
	"media-analysis-api/internal/domain/model"
	"media-analysis-api/internal/domain/ports/repository"
)

var _ repository.ResultRepository = (*PostgresResultRepo)(nil)

const resultColumns = "id, job_id, provider, model, result, confidence, tokens_used, latency_ms, created_at, updated_at, is_deleted, deleted_at"

func scanResult(row rowScanner) (*model.AnalysisResult, error) {
	var res model.AnalysisResult
	var doc []byte
	err := row.Scan(&res.ID, &res.JobID, &res.Provider, &res.Model, &doc, &res.Confidence,
		&res.TokensUsed, &res.LatencyMs, &res.CreatedAt, &res.UpdatedAt, &res.IsDeleted, &res.DeletedAt)
	if err != nil {
		return nil, translateScanErr(err)
	}
	res.Result, err = scanJSONMap(doc)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

type PostgresResultRepo struct {
	base baseRepo[model.AnalysisResult]
	pool *pgxpool.Pool
}

func NewPostgresResultRepo(pool *pgxpool.Pool) *PostgresResultRepo {
	return &PostgresResultRepo{
		base: baseRepo[model.AnalysisResult]{
			pool: pool,
			meta: entityMeta[model.AnalysisResult]{
				table:      "analysis_results",
				columns:    resultColumns,
				filterable: map[string]bool{"job_id": true, "provider": true, "model": true},
				softDelete: true,
				scan:       scanResult,
			},
		},
		pool: pool,
	}
}

func (r *PostgresResultRepo) Create(ctx context.Context, tx repository.Tx, result *model.AnalysisResult) error {
	doc := result.Result
	if doc == nil {
		doc = map[string]interface{}{}
	}
	docArg, err := jsonbArg(doc)
	if err != nil {
		return err
	}
	sql := `INSERT INTO analysis_results
	        (id, job_id, provider, model, result, confidence, tokens_used, latency_ms, created_at, updated_at, is_deleted, deleted_at)
	        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`
	_, err = execSQL(ctx, r.pool, tx, sql,
		result.ID, result.JobID, string(result.Provider), result.Model, docArg,
		result.Confidence, result.TokensUsed, result.LatencyMs,
		result.CreatedAt, result.UpdatedAt, result.IsDeleted, result.DeletedAt)
	return err
}

func (r *PostgresResultRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.AnalysisResult, error) {
	return r.base.findByID(ctx, tx, id, false)
}

func (r *PostgresResultRepo) FindByIDWithDeleted(ctx context.Context, tx repository.Tx, id string) (*model.AnalysisResult, error) {
	return r.base.findByID(ctx, tx, id, true)
}

func (r *PostgresResultRepo) List(ctx context.Context, tx repository.Tx, opts repository.ListOptions) ([]*model.AnalysisResult, error) {
	return r.base.list(ctx, tx, opts)
}

func (r *PostgresResultRepo) Count(ctx context.Context, tx repository.Tx, filters map[string]interface{}) (int, error) {
	return r.base.count(ctx, tx, filters)
}

func (r *PostgresResultRepo) SoftDelete(ctx context.Context, tx repository.Tx, id string) error {
	return r.base.softDelete(ctx, tx, id)
}

func (r *PostgresResultRepo) HardDelete(ctx context.Context, tx repository.Tx, id string) error {
	return r.base.hardDelete(ctx, tx, id)
}

func (r *PostgresResultRepo) Restore(ctx context.Context, tx repository.Tx, id string) (*model.AnalysisResult, error) {
	return r.base.restore(ctx, tx, id)
}

func (r *PostgresResultRepo) FindByJobID(ctx context.Context, tx repository.Tx, jobID string, offset, limit int) ([]*model.AnalysisResult, error) {
	sql := fmt.Sprintf(`SELECT %s FROM analysis_results
	        WHERE job_id = $1 AND is_deleted = FALSE
	        ORDER BY created_at ASC LIMIT $2 OFFSET $3`, resultColumns)
	return r.base.queryMany(ctx, tx, sql, jobID, limit, offset)
}

func (r *PostgresResultRepo) FindByProvider(ctx context.Context, tx repository.Tx, provider model.AnalysisProvider, offset, limit int) ([]*model.AnalysisResult, error) {
	sql := fmt.Sprintf(`SELECT %s FROM analysis_results
	        WHERE provider = $1 AND is_deleted = FALSE
	        ORDER BY created_at DESC LIMIT $2 OFFSET $3`, resultColumns)
	return r.base.queryMany(ctx, tx, sql, string(provider), limit, offset)
}

func (r *PostgresResultRepo) FindByModel(ctx context.Context, tx repository.Tx, modelName string, offset, limit int) ([]*model.AnalysisResult, error) {
	sql := fmt.Sprintf(`SELECT %s FROM analysis_results
	        WHERE model = $1 AND is_deleted = FALSE
	        ORDER BY created_at DESC LIMIT $2 OFFSET $3`, resultColumns)
	return r.base.queryMany(ctx, tx, sql, modelName, limit, offset)
}

// FindHighConfidence skips rows where the provider reported no confidence.
func (r *PostgresResultRepo) FindHighConfidence(ctx context.Context, tx repository.Tx, minConfidence float64, limit int) ([]*model.AnalysisResult, error) {
	sql := fmt.Sprintf(`SELECT %s FROM analysis_results
	        WHERE confidence >= $1 AND is_deleted = FALSE
	        ORDER BY confidence DESC LIMIT $2`, resultColumns)
	return r.base.queryMany(ctx, tx, sql, minConfidence, limit)
}

func (r *PostgresResultRepo) FindByJobAndProvider(ctx context.Context, tx repository.Tx, jobID string, provider model.AnalysisProvider) ([]*model.AnalysisResult, error) {
	sql := fmt.Sprintf(`SELECT %s FROM analysis_results
	        WHERE job_id = $1 AND provider = $2 AND is_deleted = FALSE
	        ORDER BY created_at ASC`, resultColumns)
	return r.base.queryMany(ctx, tx, sql, jobID, string(provider))
}

func (r *PostgresResultRepo) CountByJob(ctx context.Context, tx repository.Tx, jobID string) (int, error) {
	return r.base.count(ctx, tx, map[string]interface{}{"job_id": jobID})
}

func (r *PostgresResultRepo) TotalTokensByJob(ctx context.Context, tx repository.Tx, jobID string) (int64, error) {
	return r.sumByJob(ctx, tx, jobID, "tokens_used")
}

func (r *PostgresResultRepo) TotalLatencyByJob(ctx context.Context, tx repository.Tx, jobID string) (int64, error) {
	return r.sumByJob(ctx, tx, jobID, "latency_ms")
}

func (r *PostgresResultRepo) sumByJob(ctx context.Context, tx repository.Tx, jobID, column string) (int64, error) {
	sql := fmt.Sprintf(
		`SELECT COALESCE(SUM(%s), 0) FROM analysis_results WHERE job_id = $1 AND is_deleted = FALSE`, column)
	row, err := pickRow(ctx, r.pool, tx, sql, jobID)
	if err != nil {
		return 0, err
	}
	var total int64
	if err := row.Scan(&total); err != nil {
		return 0, translateScanErr(err)
	}
	return total, nil
}

// AverageConfidenceByJob returns nil when no result carries a confidence.
func (r *PostgresResultRepo) AverageConfidenceByJob(ctx context.Context, tx repository.Tx, jobID string) (*float64, error) {
	row, err := pickRow(ctx, r.pool, tx,
		`SELECT AVG(confidence) FROM analysis_results WHERE job_id = $1 AND is_deleted = FALSE`, jobID)
	if err != nil {
		return nil, err
	}
	var avg *float64
	if err := row.Scan(&avg); err != nil {
		return nil, translateScanErr(err)
	}
	return avg, nil
}

func (r *PostgresResultRepo) StatisticsByProvider(ctx context.Context, tx repository.Tx) ([]*model.ProviderStatistics, error) {
	rows, err := queryRows(ctx, r.pool, tx,
		`SELECT provider, COUNT(*), AVG(confidence), COALESCE(SUM(tokens_used), 0), AVG(latency_ms)
	         FROM analysis_results WHERE is_deleted = FALSE
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

func (r *PostgresResultRepo) FindLatest(ctx context.Context, tx repository.Tx, limit int) ([]*model.AnalysisResult, error) {
	sql := fmt.Sprintf(`SELECT %s FROM analysis_results
	        WHERE is_deleted = FALSE
	        ORDER BY created_at DESC LIMIT $1`, resultColumns)
	return r.base.queryMany(ctx, tx, sql, limit)
}
