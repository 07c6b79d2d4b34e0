// Package enumalter retypes PostgreSQL enum columns in place.
//
// An alteration stages the existing column and its enum type under side
// names, creates a fresh type and column under the final names, copies every
// row across while applying value renames, and finally drops the staged
// artifacts. Callers are expected to run it inside a single transaction.
package enumalter

import "strings"

// EnumEntry is one permitted value of the target enum. It is either a plain
// value or a rename from an old value to a new one.
type EnumEntry struct {
	Value string
	From  string
	To    string
}

// Value returns a plain enum entry.
func Value(v string) EnumEntry {
	return EnumEntry{Value: v}
}

// Rename returns an entry that maps stored from values to to.
func Rename(from, to string) EnumEntry {
	return EnumEntry{From: from, To: to}
}

// IsRename reports whether the entry carries a from/to mapping.
func (e EnumEntry) IsRename() bool {
	return e.From != "" || e.To != ""
}

// Effective returns the value the entry contributes to the new type.
func (e EnumEntry) Effective() string {
	if e.IsRename() {
		return e.To
	}
	return e.Value
}

// ColumnDefinition describes the shape of an enum column.
type ColumnDefinition struct {
	ColumnName string
	ColumnType string
	IsArray    bool
	IsNullable bool
	// DefaultValue is an already serialized SQL literal or expression.
	DefaultValue *string
	Enum         []EnumEntry
}

func (d ColumnDefinition) hasDefault() bool {
	return d.DefaultValue != nil && strings.TrimSpace(*d.DefaultValue) != ""
}

// ColumnAlteration is the current/altered pair driving one alteration.
type ColumnAlteration struct {
	Current ColumnDefinition
	Altered ColumnDefinition
}

// Target identifies the table owning the column.
type Target struct {
	Schema string
	Table  string
}

// EnumValues resolves entries to their effective values, in order.
// Duplicates are kept.
func EnumValues(entries []EnumEntry) []string {
	values := make([]string, 0, len(entries))
	for _, e := range entries {
		values = append(values, e.Effective())
	}
	return values
}

// RenamedValues returns only the rename entries.
func RenamedValues(entries []EnumEntry) []EnumEntry {
	var renames []EnumEntry
	for _, e := range entries {
		if e.IsRename() {
			renames = append(renames, e)
		}
	}
	return renames
}
