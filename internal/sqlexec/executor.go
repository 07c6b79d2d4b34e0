// Package sqlexec provides the statement execution boundary used by the enum
// alteration code, with adapters for database/sql and pgx.
package sqlexec

import (
	"context"

	"github.com/pgschema/pgenum/internal/logger"
)

// Row maps result column names to raw values.
type Row map[string]any

// Statement is a single SQL statement with its bind arguments.
type Statement struct {
	SQL  string
	Args []any
}

// Executor runs statements against the database. Implementations are
// expected to be bound to the caller's transaction.
type Executor interface {
	Exec(ctx context.Context, sql string, args ...any) error
	Query(ctx context.Context, sql string, args ...any) ([]Row, error)
}

// Batcher is implemented by executors that can send several statements in
// one round trip. ExecBatch returns only after every statement completed.
type Batcher interface {
	ExecBatch(ctx context.Context, stmts []Statement) error
}

func logStatement(kind, sql string, args []any) {
	if logger.IsDebug() {
		logger.Get().Debug("Executing SQL", "kind", kind, "sql", sql, "args", len(args))
	}
}

func logResult(kind string, err error) {
	if !logger.IsDebug() {
		return
	}
	if err != nil {
		logger.Get().Debug("SQL execution failed", "kind", kind, "error", err)
	} else {
		logger.Get().Debug("SQL execution succeeded", "kind", kind)
	}
}
