package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v4/pgxpool"

	"media-analysis-api/internal/domain"
	"media-analysis-api/internal/domain/ports/repository"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// entityMeta describes one table well enough for the shared query paths:
// which columns to select, which may be filtered/sorted on, and how to turn
// a row into the domain type.
type entityMeta[T any] struct {
	table      string
	columns    string // comma-joined select list, order fixed by scan
	filterable map[string]bool
	softDelete bool
	scan       func(rowScanner) (*T, error)
}

// baseRepo funnels every read of a soft-deletable table through one WHERE
// builder, so `is_deleted = FALSE` cannot be forgotten on a new query.
type baseRepo[T any] struct {
	pool *pgxpool.Pool
	meta entityMeta[T]
}

// buildWhere renders an equality filter map into a WHERE clause. Unknown keys
// are dropped, not rejected. Keys are sorted so generated SQL is stable.
func (r *baseRepo[T]) buildWhere(filters map[string]interface{}, includeDeleted bool) (string, []interface{}) {
	var conds []string
	var args []interface{}
	if r.meta.softDelete && !includeDeleted {
		conds = append(conds, "is_deleted = FALSE")
	}
	keys := make([]string, 0, len(filters))
	for k := range filters {
		if r.meta.filterable[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, filters[k])
		conds = append(conds, fmt.Sprintf("%s = $%d", k, len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *baseRepo[T]) orderClause(opts repository.ListOptions) string {
	col := opts.OrderBy
	if !r.meta.filterable[col] && col != "created_at" && col != "updated_at" {
		col = "created_at"
	}
	dir := "ASC"
	if opts.Descending {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", col, dir)
}

func (r *baseRepo[T]) findByID(ctx context.Context, tx repository.Tx, id string, includeDeleted bool) (*T, error) {
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", r.meta.columns, r.meta.table)
	if r.meta.softDelete && !includeDeleted {
		sql += " AND is_deleted = FALSE"
	}
	row, err := pickRow(ctx, r.pool, tx, sql, id)
	if err != nil {
		return nil, err
	}
	return r.meta.scan(row)
}

func (r *baseRepo[T]) list(ctx context.Context, tx repository.Tx, opts repository.ListOptions) ([]*T, error) {
	where, args := r.buildWhere(opts.Filters, false)
	sql := fmt.Sprintf("SELECT %s FROM %s%s%s", r.meta.columns, r.meta.table, where, r.orderClause(opts))
	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	sql += fmt.Sprintf(" LIMIT $%d", len(args))
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		sql += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return r.queryMany(ctx, tx, sql, args...)
}

func (r *baseRepo[T]) count(ctx context.Context, tx repository.Tx, filters map[string]interface{}) (int, error) {
	where, args := r.buildWhere(filters, false)
	row, err := pickRow(ctx, r.pool, tx, fmt.Sprintf("SELECT COUNT(*) FROM %s%s", r.meta.table, where), args...)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, translateScanErr(err)
	}
	return n, nil
}

func (r *baseRepo[T]) exists(ctx context.Context, tx repository.Tx, filters map[string]interface{}) (bool, error) {
	where, args := r.buildWhere(filters, false)
	row, err := pickRow(ctx, r.pool, tx, fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s%s)", r.meta.table, where), args...)
	if err != nil {
		return false, err
	}
	var ok bool
	if err := row.Scan(&ok); err != nil {
		return false, translateScanErr(err)
	}
	return ok, nil
}

// softDelete flags the row; already-deleted and missing rows get distinct
// errors so handlers can answer 409 vs 404.
func (r *baseRepo[T]) softDelete(ctx context.Context, tx repository.Tx, id string) error {
	sql := fmt.Sprintf(
		"UPDATE %s SET is_deleted = TRUE, deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND is_deleted = FALSE",
		r.meta.table)
	tag, err := execSQL(ctx, r.pool, tx, sql, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.findByID(ctx, tx, id, true); err != nil {
			return err
		}
		return domain.ErrAlreadyDeleted
	}
	return nil
}

func (r *baseRepo[T]) hardDelete(ctx context.Context, tx repository.Tx, id string) error {
	tag, err := execSQL(ctx, r.pool, tx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.meta.table), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *baseRepo[T]) restore(ctx context.Context, tx repository.Tx, id string) (*T, error) {
	sql := fmt.Sprintf(
		"UPDATE %s SET is_deleted = FALSE, deleted_at = NULL, updated_at = NOW() WHERE id = $1 AND is_deleted = TRUE RETURNING %s",
		r.meta.table, r.meta.columns)
	row, err := pickRow(ctx, r.pool, tx, sql, id)
	if err != nil {
		return nil, err
	}
	entity, err := r.meta.scan(row)
	if err == nil {
		return entity, nil
	}
	if _, ferr := r.findByID(ctx, tx, id, true); ferr != nil {
		return nil, ferr
	}
	return nil, domain.ErrNotDeleted
}

func (r *baseRepo[T]) queryMany(ctx context.Context, tx repository.Tx, sql string, args ...interface{}) ([]*T, error) {
	rows, err := queryRows(ctx, r.pool, tx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*T
	for rows.Next() {
		entity, err := r.meta.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrOperationFailed
	}
	return out, nil
}

// jsonbArg marshals a map for a JSONB parameter, keeping NULL for nil.
func jsonbArg(m map[string]interface{}) (interface{}, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, domain.ErrInvalidArgument
	}
	return b, nil
}

// scanJSONMap decodes a JSONB column scanned as raw bytes; NULL yields nil.
func scanJSONMap(raw []byte) (map[string]interface{}, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return m, nil
}
