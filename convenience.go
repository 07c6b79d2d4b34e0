package pgenum

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"
	"github.com/pgschema/pgenum/internal/enumalter"
	"github.com/pgschema/pgenum/internal/sqlexec"
)

// AlterEnumColumn retypes one enum column inside the caller's pgx transaction.
// Row updates are sent in batches. Committing or rolling back is up to the caller.
func AlterEnumColumn(ctx context.Context, tx pgx.Tx, target Target, alt ColumnAlteration, opts Options) (*Result, error) {
	return enumalter.New(sqlexec.NewPgx(tx), opts).AlterColumn(ctx, target, alt)
}

// AlterEnumColumnTx is AlterEnumColumn for a database/sql transaction. Row
// updates are sent one at a time.
func AlterEnumColumnTx(ctx context.Context, tx *sql.Tx, target Target, alt ColumnAlteration, opts Options) (*Result, error) {
	return enumalter.New(sqlexec.NewSQL(tx), opts).AlterColumn(ctx, target, alt)
}

// PrepareAlteration validates an alteration and returns its plan without
// touching a database.
func PrepareAlteration(target Target, alt ColumnAlteration, opts Options) (*Plan, error) {
	return enumalter.Prepare(target, alt, opts)
}

// AlterFromFile is a convenience function to apply a request file.
func AlterFromFile(ctx context.Context, dbConfig DatabaseConfig, requestFile string, dryRun bool) ([]TableResult, error) {
	client := NewClient(dbConfig)
	return client.Alter(ctx, AlterOptions{
		File:   requestFile,
		DryRun: dryRun,
	})
}

// PlanFile is a convenience function to prepare a request file without connecting.
func PlanFile(ctx context.Context, requestFile string) ([]TablePlan, error) {
	return NewClient(DatabaseConfig{}).Plan(ctx, PlanOptions{File: requestFile})
}
