package plan

import (
	"fmt"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"
	"github.com/pgschema/pgenum/internal/color"
	"github.com/pgschema/pgenum/internal/enumalter"
	"github.com/pgschema/pgenum/internal/request"
	"github.com/spf13/cobra"
)

var (
	planFile     string
	planIDColumn string
	planSuffix   string
	planNoColor  bool
	outputSQL    bool
)

var PlanCmd = &cobra.Command{
	Use:          "plan",
	Short:        "Show the statements an enum alteration request would run",
	Long:         "Prepare every alteration in a request file (--file) and print the statements that alter would execute, one transaction per table. No database connection is made.",
	RunE:         runPlan,
	SilenceUsage: true,
}

func init() {
	PlanCmd.Flags().StringVar(&planFile, "file", "", "Path to the alteration request YAML file (required)")
	PlanCmd.Flags().StringVar(&planIDColumn, "id-column", enumalter.DefaultIDColumn, "Row identifier column used by the value migration")
	PlanCmd.Flags().StringVar(&planSuffix, "suffix", "", "Suffix for staged column names (default: random UUID)")
	PlanCmd.Flags().BoolVar(&planNoColor, "no-color", false, "Disable colored output")
	PlanCmd.Flags().BoolVar(&outputSQL, "sql", false, "Print a plain SQL script instead of the human-readable plan")

	PlanCmd.MarkFlagRequired("file")
}

func runPlan(cmd *cobra.Command, args []string) error {
	opts := enumalter.Options{IDColumn: planIDColumn}
	if planSuffix != "" {
		suffix := planSuffix
		opts.Suffix = func() string { return suffix }
	}

	plans, err := GeneratePlan(planFile, opts)
	if err != nil {
		return err
	}

	script := SQL(plans)
	if err := ValidateSQL(script); err != nil {
		return err
	}

	if outputSQL {
		fmt.Fprint(cmd.OutOrStdout(), script)
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), Human(plans, color.New(!planNoColor)))
	return nil
}

// TablePlan holds the prepared alterations of one table, in request order.
type TablePlan struct {
	Target enumalter.Target
	Plans  []*enumalter.Plan
}

// Columns counts the alterations across plans.
func Columns(plans []TablePlan) int {
	n := 0
	for _, tp := range plans {
		n += len(tp.Plans)
	}
	return n
}

// GeneratePlan loads a request file and prepares every alteration in it.
func GeneratePlan(path string, opts enumalter.Options) ([]TablePlan, error) {
	f, err := request.Load(path)
	if err != nil {
		return nil, err
	}
	return BuildPlans(f.Groups(), opts)
}

// BuildPlans prepares every alteration of groups. Nothing touches a database.
func BuildPlans(groups []request.Group, opts enumalter.Options) ([]TablePlan, error) {
	plans := make([]TablePlan, 0, len(groups))
	for _, g := range groups {
		tp := TablePlan{Target: g.Target}
		for _, alt := range g.Alterations {
			p, err := enumalter.Prepare(g.Target, alt, opts)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", g.Target.Schema, g.Target.Table, err)
			}
			tp.Plans = append(tp.Plans, p)
		}
		plans = append(plans, tp)
	}
	return plans, nil
}

// SQL renders plans as a script with one transaction per table. The per-row
// update of each value migration is shown as a comment.
func SQL(plans []TablePlan) string {
	var sb strings.Builder
	for i, tp := range plans {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "-- %s.%s\n", tp.Target.Schema, tp.Target.Table)
		sb.WriteString("BEGIN;\n")
		for _, p := range tp.Plans {
			for _, step := range p.Steps() {
				fmt.Fprintf(&sb, "%s;\n", step.SQL)
				if step.Kind == enumalter.StepMigrateValues {
					fmt.Fprintf(&sb, "-- for each row: %s;\n", p.UpdateSQL())
				}
			}
		}
		sb.WriteString("COMMIT;\n")
	}
	return sb.String()
}

// ValidateSQL checks that a rendered script parses as PostgreSQL.
func ValidateSQL(script string) error {
	if _, err := pg_query.Parse(script); err != nil {
		return fmt.Errorf("generated SQL does not parse: %w", err)
	}
	return nil
}

// Human renders plans for a terminal.
func Human(plans []TablePlan, c *color.Color) string {
	statements := 0
	for _, tp := range plans {
		for _, p := range tp.Plans {
			statements += len(p.Steps())
		}
	}

	var sb strings.Builder
	sb.WriteString(c.FormatPlanHeader(len(plans), Columns(plans), statements))
	sb.WriteString("\n")

	for _, tp := range plans {
		fmt.Fprintf(&sb, "\n%s\n", c.Bold(tp.Target.Schema+"."+tp.Target.Table))
		for _, p := range tp.Plans {
			fmt.Fprintf(&sb, "%s %s (%s)\n", c.Cyan("column"), p.Column, strings.Join(p.EnumValues, ", "))
			for _, step := range p.Steps() {
				sb.WriteString(c.FormatStepLine(stepAction(step.Kind), step.Description))
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}

func stepAction(kind enumalter.StepKind) string {
	switch kind {
	case enumalter.StepRenameColumn:
		return "rename"
	case enumalter.StepStageColumn, enumalter.StepStageType:
		return "stage"
	case enumalter.StepCreateType, enumalter.StepAddColumn:
		return "create"
	case enumalter.StepMigrateValues:
		return "migrate"
	case enumalter.StepDropColumn, enumalter.StepDropType:
		return "drop"
	default:
		return ""
	}
}
