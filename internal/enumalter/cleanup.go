package enumalter

import (
	"context"
	"fmt"

	"github.com/pgschema/pgenum/internal/sqlexec"
	"github.com/pgschema/pgenum/internal/util"
)

func dropColumnSQL(table, column string) string {
	return fmt.Sprintf("ALTER TABLE %s DROP COLUMN IF EXISTS %s", table, util.QuoteIdentifier(column))
}

// No CASCADE: a type that is still referenced must fail loudly.
func dropTypeSQL(typeName string) string {
	return fmt.Sprintf("DROP TYPE IF EXISTS %s", typeName)
}

// Cleanup drops a staged column and a staged type. Both are tolerated
// missing; a type still in use is reported by the engine.
func Cleanup(ctx context.Context, exec sqlexec.Executor, target Target, column, typeName string) error {
	if err := exec.Exec(ctx, dropColumnSQL(util.QualifiedName(target.Schema, target.Table), column)); err != nil {
		return fmt.Errorf("drop column %s: %w", column, err)
	}
	if err := exec.Exec(ctx, dropTypeSQL(util.QualifiedName(target.Schema, typeName))); err != nil {
		return fmt.Errorf("drop type %s: %w", typeName, err)
	}
	return nil
}
