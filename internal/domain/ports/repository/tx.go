package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

var NoTX interface{}

// TransactionManager executes a function within a database transaction,
// passing the underlying transaction handle via `tx`.
//
// Repositories accept `tx Tx` on every method and MUST gracefully accept
// nil (non-transactional path, served straight from the pool). The concrete
// type of `tx` is infra-defined (pgx.Tx for Postgres).
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}

// ListOptions drives the generic list operation shared by all repositories.
// Filters is an equality map; keys that are not filterable columns of the
// entity are silently ignored (accepted looseness, see count/list contracts).
type ListOptions struct {
	Filters    map[string]interface{}
	Offset     int
	Limit      int
	OrderBy    string // column name; falls back to created_at when unknown
	Descending bool
}

// DefaultListOptions orders by creation time, newest first.
func DefaultListOptions() ListOptions {
	return ListOptions{Limit: 100, OrderBy: "created_at", Descending: true}
}
