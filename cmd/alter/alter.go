package alter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	planCmd "github.com/pgschema/pgenum/cmd/plan"
	"github.com/pgschema/pgenum/cmd/util"
	"github.com/pgschema/pgenum/internal/color"
	"github.com/pgschema/pgenum/internal/enumalter"
	"github.com/pgschema/pgenum/internal/logger"
	"github.com/pgschema/pgenum/internal/request"
	"github.com/pgschema/pgenum/internal/runner"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	conn                  util.ConnectionFlags
	alterFile             string
	alterAutoApprove      bool
	alterDryRun           bool
	alterNoColor          bool
	alterNoProgress       bool
	alterParallel         int
	alterBatchSize        int
	alterIDColumn         string
	alterLockTimeout      time.Duration
	alterStatementTimeout time.Duration
)

var AlterCmd = &cobra.Command{
	Use:          "alter",
	Short:        "Retype enum columns described in a request file",
	Long:         "Apply the enum alterations in a request file (--file). Each table is altered in its own transaction: the column and its enum type are staged, a new type and column are created, every row is migrated with value renames applied, and the staged objects are dropped.",
	RunE:         runAlter,
	SilenceUsage: true,
	PreRunE:      conn.PreRunE,
}

func init() {
	conn.Register(AlterCmd)

	AlterCmd.Flags().StringVar(&alterFile, "file", "", "Path to the alteration request YAML file (required)")

	AlterCmd.Flags().BoolVar(&alterAutoApprove, "auto-approve", false, "Apply changes without prompting for approval")
	AlterCmd.Flags().BoolVar(&alterDryRun, "dry-run", false, "Run every alteration and roll each transaction back")
	AlterCmd.Flags().BoolVar(&alterNoColor, "no-color", false, "Disable colored output")
	AlterCmd.Flags().BoolVar(&alterNoProgress, "no-progress", false, "Disable the value migration progress bars")
	AlterCmd.Flags().IntVar(&alterParallel, "parallel", 1, "Number of tables altered concurrently")
	AlterCmd.Flags().IntVar(&alterBatchSize, "batch-size", enumalter.DefaultBatchSize, "Row updates sent per batch")
	AlterCmd.Flags().StringVar(&alterIDColumn, "id-column", enumalter.DefaultIDColumn, "Row identifier column used by the value migration")
	AlterCmd.Flags().DurationVar(&alterLockTimeout, "lock-timeout", 0, "Maximum time to wait for database locks (e.g., 30s, 5m)")
	AlterCmd.Flags().DurationVar(&alterStatementTimeout, "statement-timeout", 0, "Maximum time for any single statement (e.g., 30s, 5m)")

	AlterCmd.MarkFlagRequired("file")
}

func runAlter(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	f, err := request.Load(alterFile)
	if err != nil {
		return err
	}
	groups := f.Groups()

	// one suffix for the whole run so the printed plan matches what executes
	suffix := uuid.NewString()
	alterOpts := enumalter.Options{
		IDColumn:  alterIDColumn,
		BatchSize: alterBatchSize,
		Suffix:    func() string { return suffix },
	}

	plans, err := planCmd.BuildPlans(groups, alterOpts)
	if err != nil {
		return err
	}
	fmt.Fprint(out, planCmd.Human(plans, color.New(!alterNoColor)))

	if !alterAutoApprove && !alterDryRun {
		approved, err := confirm(cmd.InOrStdin(), out)
		if err != nil {
			return err
		}
		if !approved {
			fmt.Fprintln(out, "Alter cancelled.")
			return nil
		}
	}

	config := conn.Config()
	config.MaxConns = alterParallel
	ctx := context.Background()
	pool, err := util.ConnectPool(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := util.CheckServerVersion(ctx, pool); err != nil {
		return err
	}

	opts := runner.Options{
		Parallel:         alterParallel,
		DryRun:           alterDryRun,
		LockTimeout:      alterLockTimeout,
		StatementTimeout: alterStatementTimeout,
		Alter:            alterOpts,
	}
	if !alterNoProgress {
		bars := newProgressBars(cmd.ErrOrStderr())
		defer bars.finish()
		opts.Progress = bars.update
	}

	fmt.Fprintln(out, "\nApplying changes...")
	results, err := runner.New(pool, opts).Run(ctx, groups)
	printResults(out, results)
	if err != nil {
		return fmt.Errorf("failed to apply changes: %w", err)
	}

	if alterDryRun {
		fmt.Fprintln(out, "Dry run completed, all changes rolled back.")
	} else {
		fmt.Fprintln(out, "Changes applied successfully!")
	}
	return nil
}

func confirm(in io.Reader, out io.Writer) (bool, error) {
	fmt.Fprint(out, "\nDo you want to apply these changes? (yes/no): ")
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read user input: %w", err)
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "yes" || response == "y", nil
}

func printResults(out io.Writer, results []runner.TableResult) {
	for _, tr := range results {
		if len(tr.Results) == 0 {
			continue
		}
		state := "altered"
		if tr.RolledBack {
			state = "rolled back"
		}
		var cols []string
		for _, r := range tr.Results {
			cols = append(cols, fmt.Sprintf("%s (%d/%d rows)", r.Plan.Column, r.Stats.RowsWritten, r.Stats.RowsRead))
		}
		fmt.Fprintf(out, "  %s.%s %s: %s\n", tr.Target.Schema, tr.Target.Table, state, strings.Join(cols, ", "))
	}
}

// progressBars keeps one bar per migrated column.
type progressBars struct {
	mu   sync.Mutex
	w    io.Writer
	bars map[string]*progressbar.ProgressBar
}

func newProgressBars(w io.Writer) *progressBars {
	return &progressBars{w: w, bars: make(map[string]*progressbar.ProgressBar)}
}

func (p *progressBars) update(target enumalter.Target, column string, done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := target.Schema + "." + target.Table + "." + column
	bar, ok := p.bars[key]
	if !ok {
		bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.w),
			progressbar.OptionSetDescription(key),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(100*time.Millisecond),
		)
		p.bars[key] = bar
	}
	reportBarError("update", key, bar.Set(done))
}

func (p *progressBars) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for key, bar := range p.bars {
		reportBarError("finish", key, bar.Finish())
	}
	if len(p.bars) > 0 {
		fmt.Fprintln(p.w)
	}
}

// reportBarError logs a failed progress bar write. The alteration itself is
// unaffected.
func reportBarError(action, key string, err error) {
	if err != nil {
		logger.Get().Debug("Progress bar "+action+" failed", "column", key, "error", err)
	}
}
