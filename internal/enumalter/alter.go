package enumalter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pgschema/pgenum/internal/logger"
	"github.com/pgschema/pgenum/internal/sqlexec"
)

// Alterer runs alterations through an Executor bound to the caller's
// transaction. It never begins, commits or retries anything itself.
type Alterer struct {
	exec sqlexec.Executor
	opts Options
	log  *slog.Logger
}

// New returns an Alterer using exec.
func New(exec sqlexec.Executor, opts Options) *Alterer {
	return &Alterer{
		exec: exec,
		opts: opts.withDefaults(),
		log:  logger.Get(),
	}
}

// Result reports what an alteration did.
type Result struct {
	Plan     *Plan
	Types    TypeLifecycle
	Stats    MigrationStats
	Duration time.Duration
}

// AlterColumn prepares and applies one alteration of target.
func (a *Alterer) AlterColumn(ctx context.Context, target Target, alt ColumnAlteration) (*Result, error) {
	p, err := Prepare(target, alt, a.opts)
	if err != nil {
		return nil, err
	}
	return a.Apply(ctx, p)
}

// Apply executes a prepared plan step by step. The first failure aborts;
// undoing earlier steps is left to the caller's transaction.
func (a *Alterer) Apply(ctx context.Context, p *Plan) (*Result, error) {
	start := time.Now()
	res := &Result{Plan: p, Types: p.Types}

	for _, step := range p.Steps() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		a.log.Debug("Applying enum alteration step",
			"table", p.Target.Table,
			"step", step.Kind,
			"description", step.Description,
			"types", res.Types.State(),
		)

		var err error
		switch step.Kind {
		case StepRenameColumn:
			err = RenameColumn(ctx, a.exec, p.Target, p.CurrentColumn, p.Column)
		case StepStageColumn:
			err = RenameColumn(ctx, a.exec, p.Target, p.Column, p.StagedColumn)
		case StepStageType:
			err = RenameEnumType(ctx, a.exec, p.Target.Schema, p.Types.Original(), p.Types.Staged())
		case StepMigrateValues:
			res.Stats, err = a.migrateValues(ctx, p)
		case StepDropColumn:
			// drops the staged type too; its step only advances the lifecycle
			if err := Cleanup(ctx, a.exec, p.Target, p.StagedColumn, p.Types.Staged()); err != nil {
				return res, err
			}
		case StepDropType:
		default:
			err = a.exec.Exec(ctx, step.SQL)
		}
		if err != nil {
			return res, fmt.Errorf("%s: %w", step.Description, err)
		}

		if res.Types, err = advance(res.Types, step.Kind); err != nil {
			return res, err
		}
	}

	res.Duration = time.Since(start)
	a.log.Info("Enum column altered",
		"schema", p.Target.Schema,
		"table", p.Target.Table,
		"column", p.Column,
		"type", p.Types.Final(),
		"rows_read", res.Stats.RowsRead,
		"rows_written", res.Stats.RowsWritten,
		"duration", res.Duration,
	)
	return res, nil
}

// advance moves the lifecycle past the step that just completed.
func advance(l TypeLifecycle, kind StepKind) (TypeLifecycle, error) {
	switch kind {
	case StepStageType:
		return l.Stage()
	case StepCreateType:
		return l.Finalize()
	case StepDropType:
		return l.Retire()
	default:
		return l, nil
	}
}
