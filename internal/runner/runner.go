// Package runner applies a request file against a database, one transaction
// per table.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pgschema/pgenum/internal/enumalter"
	"github.com/pgschema/pgenum/internal/fingerprint"
	"github.com/pgschema/pgenum/internal/logger"
	"github.com/pgschema/pgenum/internal/request"
	"github.com/pgschema/pgenum/internal/sqlexec"
	"golang.org/x/sync/errgroup"
)

// errDryRun rolls back a transaction that otherwise succeeded.
var errDryRun = errors.New("dry run")

// Beginner opens transactions. *pgxpool.Pool and *pgx.Conn satisfy it.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ProgressFunc reports value migration progress for one column. It may be
// called from several goroutines when Parallel is above one.
type ProgressFunc func(target enumalter.Target, column string, done, total int)

// Options configures a Runner.
type Options struct {
	// Parallel is the number of tables altered at once. Zero means one.
	Parallel         int
	DryRun           bool
	LockTimeout      time.Duration
	StatementTimeout time.Duration
	Alter            enumalter.Options
	Progress         ProgressFunc
}

// Runner executes request groups.
type Runner struct {
	db   Beginner
	opts Options
	log  *slog.Logger
}

// New returns a Runner opening transactions on db.
func New(db Beginner, opts Options) *Runner {
	if opts.Parallel <= 0 {
		opts.Parallel = 1
	}
	return &Runner{db: db, opts: opts, log: logger.Get()}
}

// TableResult holds the outcome of one table's transaction.
type TableResult struct {
	Target     enumalter.Target
	Results    []*enumalter.Result
	RolledBack bool
}

// Run alters every group. Tables are independent: each runs in its own
// transaction, and the first failure cancels the tables not yet finished.
// Results are returned in group order.
func (r *Runner) Run(ctx context.Context, groups []request.Group) ([]TableResult, error) {
	results := make([]TableResult, len(groups))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Parallel)
	for i, group := range groups {
		g.Go(func() error {
			res, err := r.runTable(gctx, group)
			results[i] = res
			if err != nil {
				return fmt.Errorf("%s.%s: %w", group.Target.Schema, group.Target.Table, err)
			}
			return nil
		})
	}
	return results, g.Wait()
}

func (r *Runner) runTable(ctx context.Context, group request.Group) (TableResult, error) {
	res := TableResult{Target: group.Target}
	start := time.Now()

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		exec := sqlexec.NewPgx(tx)
		for _, stmt := range r.sessionSettings() {
			if err := exec.Exec(ctx, stmt); err != nil {
				return err
			}
		}

		for _, alt := range group.Alterations {
			if err := verifyCurrent(ctx, exec, group.Target, alt); err != nil {
				return err
			}
			a := enumalter.New(exec, r.alterOptions(group.Target, alt.Altered.ColumnName))
			out, err := a.AlterColumn(ctx, group.Target, alt)
			if err != nil {
				return err
			}
			res.Results = append(res.Results, out)
		}

		if r.opts.DryRun {
			return errDryRun
		}
		return nil
	})

	if errors.Is(err, errDryRun) {
		res.RolledBack = true
		r.log.Info("Dry run rolled back",
			"schema", group.Target.Schema,
			"table", group.Target.Table,
			"columns", len(res.Results),
			"duration", time.Since(start),
		)
		return res, nil
	}
	if err != nil {
		res.RolledBack = true
		return res, err
	}
	return res, nil
}

// sessionSettings are the SET LOCAL statements run first in each
// transaction. Integer values are milliseconds.
func (r *Runner) sessionSettings() []string {
	var stmts []string
	if r.opts.LockTimeout > 0 {
		stmts = append(stmts, fmt.Sprintf("SET LOCAL lock_timeout = %d", r.opts.LockTimeout.Milliseconds()))
	}
	if r.opts.StatementTimeout > 0 {
		stmts = append(stmts, fmt.Sprintf("SET LOCAL statement_timeout = %d", r.opts.StatementTimeout.Milliseconds()))
	}
	return stmts
}

func (r *Runner) alterOptions(target enumalter.Target, column string) enumalter.Options {
	opts := r.opts.Alter
	if r.opts.Progress != nil {
		progress := r.opts.Progress
		opts.Progress = func(done, total int) {
			progress(target, column, done, total)
		}
	}
	return opts
}

const enumLabelsSQL = `SELECT e.enumlabel::text AS label
FROM pg_enum e
JOIN pg_type t ON t.oid = e.enumtypid
JOIN pg_namespace n ON n.oid = t.typnamespace
WHERE n.nspname = $1 AND t.typname = $2
ORDER BY e.enumsortorder`

// verifyCurrent checks that the stored enum type still has the labels the
// request lists as current. Requests without a current enum list skip it.
func verifyCurrent(ctx context.Context, exec sqlexec.Executor, target enumalter.Target, alt enumalter.ColumnAlteration) error {
	if len(alt.Current.Enum) == 0 {
		return nil
	}
	typeName := enumalter.EnumTypeName(target.Table, alt.Current.ColumnName)
	rows, err := exec.Query(ctx, enumLabelsSQL, target.Schema, typeName)
	if err != nil {
		return fmt.Errorf("failed to read labels of %s: %w", typeName, err)
	}
	actual := make([]string, 0, len(rows))
	for _, row := range rows {
		label, _ := row["label"].(string)
		actual = append(actual, label)
	}

	want, err := fingerprint.Compute(enumalter.EnumValues(alt.Current.Enum))
	if err != nil {
		return err
	}
	got, err := fingerprint.Compute(actual)
	if err != nil {
		return err
	}
	if err := fingerprint.Compare(want, got); err != nil {
		return fmt.Errorf("%s: %w", typeName, err)
	}
	return nil
}
