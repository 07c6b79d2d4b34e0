package enumalter

import (
	"context"
	"fmt"

	"github.com/pgschema/pgenum/internal/sqlexec"
	"github.com/pgschema/pgenum/internal/util"
)

const (
	rowIDKey    = "row_id"
	rowValueKey = "old_value"
)

// SelectSQL reads every row's id and the textual form of the staged column.
func (p *Plan) SelectSQL() string {
	return fmt.Sprintf("SELECT %s AS %s, %s::text AS %s FROM %s",
		util.QuoteIdentifier(p.IDColumn), rowIDKey,
		util.QuoteIdentifier(p.StagedColumn), rowValueKey,
		p.table())
}

// UpdateSQL writes one migrated value; $1 is its text form or NULL, $2 the row id.
func (p *Plan) UpdateSQL() string {
	return fmt.Sprintf("UPDATE %s SET %s = $1::text::%s WHERE %s = $2",
		p.table(), util.QuoteIdentifier(p.Column), p.TypeRef(), util.QuoteIdentifier(p.IDColumn))
}

// restoresNull reports whether NULL rows need an explicit write. A nullable
// column added with a default starts out holding that default.
func (p *Plan) restoresNull() bool {
	return p.IsNullable && p.Default != nil
}

// MigrationStats summarizes a value migration.
type MigrationStats struct {
	RowsRead    int
	RowsWritten int
}

// migrateValues reads all rows first, then writes each transformed value.
// Every write has completed when it returns.
func (a *Alterer) migrateValues(ctx context.Context, p *Plan) (MigrationStats, error) {
	var stats MigrationStats

	rows, err := a.exec.Query(ctx, p.SelectSQL())
	if err != nil {
		return stats, fmt.Errorf("failed to read %s: %w", p.StagedColumn, err)
	}
	stats.RowsRead = len(rows)

	renames := newRenameTable(p.Renames)
	allowed := newValueSet(p.EnumValues)
	update := p.UpdateSQL()

	stmts := make([]sqlexec.Statement, 0, len(rows))
	for _, row := range rows {
		if row[rowValueKey] == nil {
			// ADD COLUMN filled the row with the default; put the NULL back
			if p.restoresNull() {
				stmts = append(stmts, sqlexec.Statement{SQL: update, Args: []any{nil, row[rowIDKey]}})
			}
			continue
		}
		text, write, err := migrateValue(row[rowValueKey], p.IsArray, renames, allowed)
		if err != nil {
			return stats, fmt.Errorf("row %v: %w", row[rowIDKey], err)
		}
		if !write {
			continue
		}
		stmts = append(stmts, sqlexec.Statement{SQL: update, Args: []any{text, row[rowIDKey]}})
	}

	if err := a.writeAll(ctx, stmts); err != nil {
		return stats, err
	}
	stats.RowsWritten = len(stmts)
	return stats, nil
}

func (a *Alterer) writeAll(ctx context.Context, stmts []sqlexec.Statement) error {
	total := len(stmts)
	batcher, batched := a.exec.(sqlexec.Batcher)
	size := 1
	if batched {
		size = a.opts.BatchSize
	}

	for start := 0; start < total; start += size {
		end := min(start+size, total)
		chunk := stmts[start:end]

		var err error
		if batched {
			err = batcher.ExecBatch(ctx, chunk)
		} else {
			err = a.exec.Exec(ctx, chunk[0].SQL, chunk[0].Args...)
		}
		if err != nil {
			return fmt.Errorf("failed to write migrated values: %w", err)
		}
		if a.opts.Progress != nil {
			a.opts.Progress(end, total)
		}
	}
	return nil
}
