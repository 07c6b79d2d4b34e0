package enumalter

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/pgschema/pgenum/internal/serialize"
)

// renameTable maps old enum values to new ones. Values without an entry map
// to themselves.
type renameTable map[string]string

func newRenameTable(entries []EnumEntry) renameTable {
	t := make(renameTable, len(entries))
	for _, e := range entries {
		if _, dup := t[e.From]; !dup {
			t[e.From] = e.To
		}
	}
	return t
}

func (t renameTable) apply(v string) string {
	if to, ok := t[v]; ok && to != "" {
		return to
	}
	return v
}

type valueSet map[string]struct{}

func newValueSet(values []string) valueSet {
	s := make(valueSet, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s valueSet) has(v string) bool {
	_, ok := s[v]
	return ok
}

func isArrayLiteral(s string) bool {
	return len(s) >= 2 && s[0] == '{' && s[len(s)-1] == '}'
}

// migrateValue transforms the raw text of one stored value. It returns the
// text to write and whether a write is needed at all; NULL needs none.
func migrateValue(raw any, toArray bool, renames renameTable, allowed valueSet) (string, bool, error) {
	var s string
	switch v := raw.(type) {
	case nil:
		return "", false, nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Sprint(v), true, nil
	}

	if isArrayLiteral(s) {
		text, err := migrateArray(splitArray(s), renames, allowed)
		return text, true, err
	}

	v := renames.apply(s)
	if toArray {
		text, err := migrateArray([]sql.NullString{{String: v, Valid: true}}, renames, allowed)
		return text, true, err
	}
	return v, true, nil
}

// migrateArray remaps every element and drops the ones missing from the
// target enum. NULL elements are kept and order is preserved.
func migrateArray(elements []sql.NullString, renames renameTable, allowed valueSet) (string, error) {
	kept := make([]sql.NullString, 0, len(elements))
	for _, e := range elements {
		if !e.Valid {
			kept = append(kept, e)
			continue
		}
		v := renames.apply(strings.TrimSpace(e.String))
		if allowed.has(v) {
			kept = append(kept, sql.NullString{String: v, Valid: true})
		}
	}
	return serialize.ArrayText(kept)
}

// splitArray parses an array literal, falling back to a plain comma split
// when the text is not well formed.
func splitArray(s string) []sql.NullString {
	if elements, err := serialize.ParseArray(s); err == nil {
		return elements
	}
	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		return nil
	}
	parts := strings.Split(inner, ",")
	elements := make([]sql.NullString, len(parts))
	for i, part := range parts {
		elements[i] = sql.NullString{String: strings.TrimSpace(part), Valid: true}
	}
	return elements
}
