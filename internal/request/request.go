// Package request reads enum alteration requests from YAML files.
//
// A request file looks like:
//
//	schema: public
//	alterations:
//	  - table: contact
//	    current:
//	      name: status
//	      enum: [LEAD, CUSTOMER]
//	    altered:
//	      name: status
//	      enum:
//	        - {from: LEAD, to: PROSPECT}
//	        - CUSTOMER
//	        - CHURNED
package request

import (
	"errors"
	"fmt"
	"os"

	"github.com/pgschema/pgenum/internal/enumalter"
	"gopkg.in/yaml.v3"
)

// DefaultSchema is used when neither the file nor the alteration names one.
const DefaultSchema = "public"

// ErrInvalidRequest is returned for structurally invalid request files.
var ErrInvalidRequest = errors.New("invalid alteration request")

// File is the top level of a request file.
type File struct {
	Schema      string       `yaml:"schema,omitempty"`
	Alterations []Alteration `yaml:"alterations"`
}

// Alteration is one column alteration. Schema overrides the file schema.
type Alteration struct {
	Schema  string `yaml:"schema,omitempty"`
	Table   string `yaml:"table"`
	Current Column `yaml:"current"`
	Altered Column `yaml:"altered"`
}

// Column mirrors enumalter.ColumnDefinition. Default is raw SQL.
type Column struct {
	Name     string  `yaml:"name"`
	Type     string  `yaml:"type,omitempty"`
	Array    bool    `yaml:"array,omitempty"`
	Nullable bool    `yaml:"nullable,omitempty"`
	Default  *string `yaml:"default,omitempty"`
	Enum     []Entry `yaml:"enum,omitempty"`
}

// Entry is an enum value written either as a scalar or as {from, to}.
type Entry struct {
	Value string
	From  string
	To    string
}

// UnmarshalYAML accepts both entry forms.
func (e *Entry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*e = Entry{Value: node.Value}
		return nil
	case yaml.MappingNode:
		var rename struct {
			From string `yaml:"from"`
			To   string `yaml:"to"`
		}
		if err := node.Decode(&rename); err != nil {
			return err
		}
		*e = Entry{From: rename.From, To: rename.To}
		return nil
	default:
		return fmt.Errorf("%w: line %d: enum entry must be a value or a {from, to} mapping", ErrInvalidRequest, node.Line)
	}
}

// MarshalYAML writes renames as mappings and plain values as scalars.
func (e Entry) MarshalYAML() (any, error) {
	if e.From != "" || e.To != "" {
		return map[string]string{"from": e.From, "to": e.To}, nil
	}
	return e.Value, nil
}

// Load reads and validates a request file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read request file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes and validates request YAML.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse request file: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks the structure of the file. Identifier and default checks
// are left to enumalter.Prepare.
func (f *File) Validate() error {
	if len(f.Alterations) == 0 {
		return fmt.Errorf("%w: no alterations", ErrInvalidRequest)
	}

	seen := make(map[string]int)
	for i, a := range f.Alterations {
		if a.Table == "" {
			return fmt.Errorf("%w: alteration %d: table is required", ErrInvalidRequest, i+1)
		}
		if a.Altered.Name == "" {
			return fmt.Errorf("%w: alteration %d: altered.name is required", ErrInvalidRequest, i+1)
		}
		for _, e := range a.Altered.Enum {
			if (e.From == "") != (e.To == "") {
				return fmt.Errorf("%w: alteration %d: rename needs both from and to", ErrInvalidRequest, i+1)
			}
		}

		target := f.target(a)
		key := target.Schema + "." + target.Table + "." + a.currentName()
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("%w: alterations %d and %d both change %s", ErrInvalidRequest, prev, i+1, key)
		}
		seen[key] = i + 1
	}
	return nil
}

// Group is the set of alterations touching one table, in file order.
type Group struct {
	Target      enumalter.Target
	Alterations []enumalter.ColumnAlteration
}

// Groups splits the file by table, ordered by first appearance.
func (f *File) Groups() []Group {
	var groups []Group
	index := make(map[enumalter.Target]int)
	for _, a := range f.Alterations {
		target := f.target(a)
		i, ok := index[target]
		if !ok {
			i = len(groups)
			index[target] = i
			groups = append(groups, Group{Target: target})
		}
		groups[i].Alterations = append(groups[i].Alterations, a.ColumnAlteration())
	}
	return groups
}

func (f *File) target(a Alteration) enumalter.Target {
	schema := a.Schema
	if schema == "" {
		schema = f.Schema
	}
	if schema == "" {
		schema = DefaultSchema
	}
	return enumalter.Target{Schema: schema, Table: a.Table}
}

// currentName defaults the current column to the altered one.
func (a Alteration) currentName() string {
	if a.Current.Name != "" {
		return a.Current.Name
	}
	return a.Altered.Name
}

// ColumnAlteration converts the request entry into the enumalter form.
func (a Alteration) ColumnAlteration() enumalter.ColumnAlteration {
	current := a.Current.definition()
	current.ColumnName = a.currentName()
	return enumalter.ColumnAlteration{
		Current: current,
		Altered: a.Altered.definition(),
	}
}

func (c Column) definition() enumalter.ColumnDefinition {
	entries := make([]enumalter.EnumEntry, 0, len(c.Enum))
	for _, e := range c.Enum {
		if e.From != "" || e.To != "" {
			entries = append(entries, enumalter.Rename(e.From, e.To))
		} else {
			entries = append(entries, enumalter.Value(e.Value))
		}
	}
	var def *string
	if c.Default != nil {
		v := *c.Default
		def = &v
	}
	return enumalter.ColumnDefinition{
		ColumnName:   c.Name,
		ColumnType:   c.Type,
		IsArray:      c.Array,
		IsNullable:   c.Nullable,
		DefaultValue: def,
		Enum:         entries,
	}
}
