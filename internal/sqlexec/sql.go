package sqlexec

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// SQL adapts a database/sql handle to Executor.
type SQL struct {
	db DBTX
}

// NewSQL wraps db. Pass a *sql.Tx to keep the alteration atomic.
func NewSQL(db DBTX) *SQL {
	return &SQL{db: db}
}

// Exec runs a statement that returns no rows.
func (e *SQL) Exec(ctx context.Context, query string, args ...any) error {
	logStatement("exec", query, args)
	_, err := e.db.ExecContext(ctx, query, args...)
	logResult("exec", err)
	return err
}

// Query runs a statement and collects every row into memory.
func (e *SQL) Query(ctx context.Context, query string, args ...any) ([]Row, error) {
	logStatement("query", query, args)
	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		logResult("query", err)
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	var result []Row
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make(Row, len(columns))
		for i, name := range columns {
			// drivers hand text back as []byte, which would not survive reuse
			if b, ok := values[i].([]byte); ok {
				row[name] = string(b)
			} else {
				row[name] = values[i]
			}
		}
		result = append(result, row)
	}
	err = rows.Err()
	logResult("query", err)
	if err != nil {
		return nil, err
	}
	return result, nil
}
