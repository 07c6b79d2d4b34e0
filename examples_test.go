package pgenum_test

import (
	"context"
	"fmt"
	"log"

	"github.com/pgschema/pgenum"
)

// ExamplePrepareAlteration shows the statements of a value rename.
func ExamplePrepareAlteration() {
	alt := pgenum.ColumnAlteration{
		Current: pgenum.ColumnDefinition{ColumnName: "status"},
		Altered: pgenum.ColumnDefinition{
			ColumnName: "status",
			Enum: []pgenum.EnumEntry{
				pgenum.Rename("LEAD", "PROSPECT"),
				pgenum.Value("CUSTOMER"),
			},
		},
	}

	plan, err := pgenum.PrepareAlteration(
		pgenum.Target{Schema: "public", Table: "contact"},
		alt,
		pgenum.Options{Suffix: func() string { return "1" }},
	)
	if err != nil {
		log.Fatal(err)
	}
	for _, step := range plan.Steps() {
		fmt.Println(step.SQL)
	}
	// Output:
	// ALTER TABLE "public"."contact" RENAME COLUMN "status" TO "status_old_1"
	// ALTER TYPE "public"."contact_status_enum" RENAME TO "contact_status_enum_temp"
	// CREATE TYPE "public"."contact_status_enum" AS ENUM ('PROSPECT', 'CUSTOMER')
	// ALTER TABLE "public"."contact" ADD COLUMN "status" "public"."contact_status_enum" DEFAULT 'PROSPECT' NOT NULL
	// SELECT "id" AS row_id, "status_old_1"::text AS old_value FROM "public"."contact"
	// ALTER TABLE "public"."contact" DROP COLUMN IF EXISTS "status_old_1"
	// DROP TYPE IF EXISTS "public"."contact_status_enum_temp"
}

// ExampleAlterFromFile demonstrates applying a request file.
func ExampleAlterFromFile() {
	ctx := context.Background()

	dbConfig := pgenum.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		Database: "myapp",
		User:     "postgres",
		Password: "password",
	}

	results, err := pgenum.AlterFromFile(ctx, dbConfig, "enum-changes.yaml", false)
	if err != nil {
		log.Fatal(err)
	}
	for _, r := range results {
		fmt.Printf("%s.%s: %d column(s)\n", r.Target.Schema, r.Target.Table, len(r.Results))
	}
}

// ExampleClient_Plan demonstrates planning a request held in memory.
func ExampleClient_Plan() {
	req, err := pgenum.ParseRequest([]byte(`
alterations:
  - table: contact
    altered:
      name: status
      enum: [{from: LEAD, to: PROSPECT}, CUSTOMER]
`))
	if err != nil {
		log.Fatal(err)
	}

	plans, err := pgenum.NewClient(pgenum.DatabaseConfig{}).Plan(context.Background(), pgenum.PlanOptions{Request: req})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(plans[0].Target.Table, plans[0].Plans[0].EnumValues)
	// Output: contact [PROSPECT CUSTOMER]
}
