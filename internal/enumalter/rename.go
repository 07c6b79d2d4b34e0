package enumalter

import (
	"context"
	"fmt"

	"github.com/pgschema/pgenum/internal/sqlexec"
	"github.com/pgschema/pgenum/internal/util"
)

func renameColumnSQL(table, from, to string) string {
	return fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s",
		table, util.QuoteIdentifier(from), util.QuoteIdentifier(to))
}

// The new name of ALTER TYPE ... RENAME TO is never schema-qualified.
func renameTypeSQL(schema, from, to string) string {
	return fmt.Sprintf("ALTER TYPE %s RENAME TO %s",
		util.QualifiedName(schema, from), util.QuoteIdentifier(to))
}

// RenameColumn renames a column of target.
func RenameColumn(ctx context.Context, exec sqlexec.Executor, target Target, from, to string) error {
	return exec.Exec(ctx, renameColumnSQL(util.QualifiedName(target.Schema, target.Table), from, to))
}

// RenameEnumType renames a named type within schema. The engine rejects the
// rename when a type called to already exists.
func RenameEnumType(ctx context.Context, exec sqlexec.Executor, schema, from, to string) error {
	return exec.Exec(ctx, renameTypeSQL(schema, from, to))
}
