package pgenum

import (
	planCmd "github.com/pgschema/pgenum/cmd/plan"
	"github.com/pgschema/pgenum/internal/enumalter"
	"github.com/pgschema/pgenum/internal/request"
	"github.com/pgschema/pgenum/internal/runner"
)

// Re-export important types for external consumption

// Target identifies the table owning an enum column.
type Target = enumalter.Target

// ColumnAlteration pairs the current and the desired definition of a column.
type ColumnAlteration = enumalter.ColumnAlteration

// ColumnDefinition describes the shape of an enum column.
type ColumnDefinition = enumalter.ColumnDefinition

// EnumEntry is one value of the target enum, plain or renamed.
type EnumEntry = enumalter.EnumEntry

// Options tunes a single column alteration.
type Options = enumalter.Options

// Result reports what one column alteration did.
type Result = enumalter.Result

// Plan is a prepared column alteration.
type Plan = enumalter.Plan

// TablePlan holds the prepared alterations of one table.
type TablePlan = planCmd.TablePlan

// TableResult holds the outcome of one table's transaction.
type TableResult = runner.TableResult

// Request is a parsed alteration request file.
type Request = request.File

var (
	// Value returns a plain enum entry.
	Value = enumalter.Value
	// Rename returns an entry that maps stored values from one name to another.
	Rename = enumalter.Rename
	// ParseRequest decodes and validates request YAML.
	ParseRequest = request.Parse
)

// Errors returned by alterations.
var (
	ErrInvalidIdentifier = enumalter.ErrInvalidIdentifier
	ErrNotEnumColumn     = enumalter.ErrNotEnumColumn
	ErrEmptyEnumDefault  = enumalter.ErrEmptyEnumDefault
	ErrInvalidDefault    = enumalter.ErrInvalidDefault
	ErrNameCollision     = enumalter.ErrNameCollision
	ErrInvalidRequest    = request.ErrInvalidRequest
)
