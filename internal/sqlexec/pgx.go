package sqlexec

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxConn is satisfied by pgx.Tx, *pgx.Conn and *pgxpool.Pool.
type PgxConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Pgx adapts a pgx connection or transaction to Executor and Batcher.
type Pgx struct {
	conn PgxConn
}

// NewPgx wraps conn. Pass a pgx.Tx to keep the alteration atomic.
func NewPgx(conn PgxConn) *Pgx {
	return &Pgx{conn: conn}
}

// Exec runs a statement that returns no rows.
func (e *Pgx) Exec(ctx context.Context, sql string, args ...any) error {
	logStatement("exec", sql, args)
	_, err := e.conn.Exec(ctx, sql, args...)
	logResult("exec", err)
	return err
}

// Query runs a statement and collects every row into memory.
func (e *Pgx) Query(ctx context.Context, sql string, args ...any) ([]Row, error) {
	logStatement("query", sql, args)
	rows, err := e.conn.Query(ctx, sql, args...)
	if err != nil {
		logResult("query", err)
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var result []Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to decode row: %w", err)
		}
		row := make(Row, len(fields))
		for i, fd := range fields {
			row[fd.Name] = values[i]
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

// ExecBatch queues stmts into one pgx.Batch and reads every result before
// returning, so no write is left in flight.
func (e *Pgx) ExecBatch(ctx context.Context, stmts []Statement) error {
	if len(stmts) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, stmt := range stmts {
		logStatement("batch", stmt.SQL, stmt.Args)
		batch.Queue(stmt.SQL, stmt.Args...)
	}

	br := e.conn.SendBatch(ctx, batch)
	for i := range stmts {
		if _, err := br.Exec(); err != nil {
			br.Close()
			logResult("batch", err)
			return fmt.Errorf("batch statement %d of %d failed: %w", i+1, len(stmts), err)
		}
	}
	err := br.Close()
	logResult("batch", err)
	return err
}
