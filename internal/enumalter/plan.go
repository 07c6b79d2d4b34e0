package enumalter

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	pg_query "github.com/pganalyze/pg_query_go/v6"
	"github.com/pgschema/pgenum/internal/serialize"
	"github.com/pgschema/pgenum/internal/util"
)

const (
	// DefaultIDColumn is the row identifier used by the value migration.
	DefaultIDColumn = "id"
	// DefaultBatchSize is the number of row updates sent per batch.
	DefaultBatchSize = 500

	stagedColumnInfix = "_old_"
)

// Serializer turns a default value into SQL literal text.
type Serializer interface {
	Serialize(value any) (string, error)
}

// SuffixFunc returns a collision-resistant token for staged column names.
type SuffixFunc func() string

// Options configures Prepare and the Alterer. Zero values select defaults.
type Options struct {
	IDColumn   string
	BatchSize  int
	Serializer Serializer
	Suffix     SuffixFunc
	// Progress, when set, is called after each completed write batch.
	Progress func(done, total int)
}

func (o Options) withDefaults() Options {
	if o.IDColumn == "" {
		o.IDColumn = DefaultIDColumn
	}
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.Serializer == nil {
		o.Serializer = serialize.Literal{}
	}
	if o.Suffix == nil {
		o.Suffix = uuid.NewString
	}
	return o
}

// StepKind identifies one stage of an alteration.
type StepKind string

const (
	StepRenameColumn  StepKind = "rename_column"
	StepStageColumn   StepKind = "stage_column"
	StepStageType     StepKind = "stage_type"
	StepCreateType    StepKind = "create_type"
	StepAddColumn     StepKind = "add_column"
	StepMigrateValues StepKind = "migrate_values"
	StepDropColumn    StepKind = "drop_column"
	StepDropType      StepKind = "drop_type"
)

// Step is one statement of a plan, in execution order.
type Step struct {
	Kind        StepKind
	Description string
	SQL         string
}

// Plan is a fully resolved alteration. Building one has no side effects.
type Plan struct {
	Target        Target
	CurrentColumn string
	Column        string
	StagedColumn  string
	Types         TypeLifecycle
	EnumValues    []string
	Renames       []EnumEntry
	IsArray       bool
	IsNullable    bool
	Default       *string
	IDColumn      string
}

// Prepare validates an alteration and resolves every name and value it
// needs. Nothing is sent to the database.
func Prepare(target Target, alt ColumnAlteration, opts Options) (*Plan, error) {
	opts = opts.withDefaults()
	altered := alt.Altered

	for _, name := range []string{target.Schema, target.Table, alt.Current.ColumnName, altered.ColumnName, opts.IDColumn} {
		if err := util.ValidateIdentifier(name); err != nil {
			return nil, err
		}
	}
	if t := strings.TrimSpace(altered.ColumnType); t != "" && !strings.EqualFold(t, "enum") {
		return nil, fmt.Errorf("%w: %s.%s has type %q", ErrNotEnumColumn, target.Table, altered.ColumnName, t)
	}

	p := &Plan{
		Target:        target,
		CurrentColumn: alt.Current.ColumnName,
		Column:        altered.ColumnName,
		Types:         NewTypeLifecycle(target.Table, alt.Current.ColumnName, altered.ColumnName),
		EnumValues:    EnumValues(altered.Enum),
		Renames:       RenamedValues(altered.Enum),
		IsArray:       altered.IsArray,
		IsNullable:    altered.IsNullable,
		IDColumn:      opts.IDColumn,
	}

	def, err := resolveDefault(altered, p.EnumValues, opts.Serializer)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", target.Table, altered.ColumnName, err)
	}
	p.Default = def

	suffix := opts.Suffix()
	if suffix == "" {
		return nil, fmt.Errorf("%w: empty staging suffix", ErrInvalidIdentifier)
	}
	p.StagedColumn = util.FitIdentifier(p.Column, stagedColumnInfix+suffix)
	if p.StagedColumn == p.Column || p.StagedColumn == p.CurrentColumn {
		return nil, fmt.Errorf("%w: staged column %q", ErrNameCollision, p.StagedColumn)
	}

	if err := p.Types.Walk(); err != nil {
		return nil, err
	}
	return p, nil
}

// resolveDefault returns the explicit default, or synthesizes one from the
// first enum value for NOT NULL columns.
func resolveDefault(def ColumnDefinition, values []string, s Serializer) (*string, error) {
	if def.hasDefault() {
		if err := validateExpression(*def.DefaultValue); err != nil {
			return nil, err
		}
		d := *def.DefaultValue
		return &d, nil
	}
	if def.IsNullable {
		return nil, nil
	}
	if len(values) == 0 {
		return nil, ErrEmptyEnumDefault
	}

	var value any = values[0]
	if def.IsArray {
		value = []string{values[0]}
	}
	d, err := s.Serialize(value)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize default: %w", err)
	}
	return &d, nil
}

// validateExpression accepts exactly one SQL expression.
func validateExpression(expr string) error {
	tree, err := pg_query.Parse("SELECT " + expr)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidDefault, expr, err)
	}
	if len(tree.Stmts) != 1 {
		return fmt.Errorf("%w: %q is not a single expression", ErrInvalidDefault, expr)
	}
	sel := tree.Stmts[0].GetStmt().GetSelectStmt()
	if sel == nil || len(sel.TargetList) != 1 || len(sel.FromClause) != 0 {
		return fmt.Errorf("%w: %q is not a single expression", ErrInvalidDefault, expr)
	}
	return nil
}

func (p *Plan) table() string {
	return util.QualifiedName(p.Target.Schema, p.Target.Table)
}

// TypeRef is the column type of the new column, including array brackets.
func (p *Plan) TypeRef() string {
	ref := util.QualifiedName(p.Target.Schema, p.Types.Final())
	if p.IsArray {
		ref += "[]"
	}
	return ref
}

// Steps lists every statement in execution order.
func (p *Plan) Steps() []Step {
	var steps []Step
	if p.CurrentColumn != p.Column {
		steps = append(steps, Step{
			Kind:        StepRenameColumn,
			Description: fmt.Sprintf("rename column %s to %s", p.CurrentColumn, p.Column),
			SQL:         renameColumnSQL(p.table(), p.CurrentColumn, p.Column),
		})
	}
	steps = append(steps,
		Step{
			Kind:        StepStageColumn,
			Description: fmt.Sprintf("stage column %s as %s", p.Column, p.StagedColumn),
			SQL:         renameColumnSQL(p.table(), p.Column, p.StagedColumn),
		},
		Step{
			Kind:        StepStageType,
			Description: fmt.Sprintf("stage type %s as %s", p.Types.Original(), p.Types.Staged()),
			SQL:         renameTypeSQL(p.Target.Schema, p.Types.Original(), p.Types.Staged()),
		},
		Step{
			Kind:        StepCreateType,
			Description: fmt.Sprintf("create type %s", p.Types.Final()),
			SQL:         createTypeSQL(util.QualifiedName(p.Target.Schema, p.Types.Final()), p.EnumValues),
		},
		Step{
			Kind:        StepAddColumn,
			Description: fmt.Sprintf("add column %s", p.Column),
			SQL:         p.addColumnSQL(),
		},
		Step{
			Kind:        StepMigrateValues,
			Description: fmt.Sprintf("migrate values from %s to %s", p.StagedColumn, p.Column),
			SQL:         p.SelectSQL(),
		},
		Step{
			Kind:        StepDropColumn,
			Description: fmt.Sprintf("drop column %s", p.StagedColumn),
			SQL:         dropColumnSQL(p.table(), p.StagedColumn),
		},
		Step{
			Kind:        StepDropType,
			Description: fmt.Sprintf("drop type %s", p.Types.Staged()),
			SQL:         dropTypeSQL(util.QualifiedName(p.Target.Schema, p.Types.Staged())),
		},
	)
	return steps
}
