package request

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pgschema/pgenum/internal/enumalter"
	"gopkg.in/yaml.v3"
)

const contactRequest = `
schema: crm
alterations:
  - table: contact
    current:
      name: status
      type: enum
      enum: [LEAD, CUSTOMER]
    altered:
      name: status
      type: enum
      default: "'CUSTOMER'"
      enum:
        - {from: LEAD, to: PROSPECT}
        - CUSTOMER
        - CHURNED
  - table: contact
    altered:
      name: tags
      array: true
      nullable: true
      enum:
        - from: LEAD
          to: PROSPECT
        - CUSTOMER
  - schema: billing
    table: invoice
    current:
      name: state
    altered:
      name: state
      enum: [OPEN, PAID]
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(contactRequest))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	groups := f.Groups()
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Target != (enumalter.Target{Schema: "crm", Table: "contact"}) {
		t.Errorf("first group target = %+v", groups[0].Target)
	}
	if groups[1].Target != (enumalter.Target{Schema: "billing", Table: "invoice"}) {
		t.Errorf("second group target = %+v", groups[1].Target)
	}

	def := "'CUSTOMER'"
	wantStatus := enumalter.ColumnAlteration{
		Current: enumalter.ColumnDefinition{
			ColumnName: "status",
			ColumnType: "enum",
			Enum:       []enumalter.EnumEntry{enumalter.Value("LEAD"), enumalter.Value("CUSTOMER")},
		},
		Altered: enumalter.ColumnDefinition{
			ColumnName:   "status",
			ColumnType:   "enum",
			DefaultValue: &def,
			Enum: []enumalter.EnumEntry{
				enumalter.Rename("LEAD", "PROSPECT"),
				enumalter.Value("CUSTOMER"),
				enumalter.Value("CHURNED"),
			},
		},
	}
	if diff := cmp.Diff(wantStatus, groups[0].Alterations[0]); diff != "" {
		t.Errorf("status alteration mismatch (-want +got):\n%s", diff)
	}

	tags := groups[0].Alterations[1]
	if tags.Current.ColumnName != "tags" {
		t.Errorf("current name should default to altered name, got %q", tags.Current.ColumnName)
	}
	if !tags.Altered.IsArray || !tags.Altered.IsNullable {
		t.Errorf("tags flags = %+v", tags.Altered)
	}
	if diff := cmp.Diff([]enumalter.EnumEntry{enumalter.Rename("LEAD", "PROSPECT"), enumalter.Value("CUSTOMER")}, tags.Altered.Enum); diff != "" {
		t.Errorf("tags enum mismatch (-want +got):\n%s", diff)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no alterations", "schema: public\n"},
		{"missing table", "alterations:\n  - altered: {name: a, enum: [X]}\n"},
		{"missing altered name", "alterations:\n  - table: t\n    altered: {enum: [X]}\n"},
		{"half rename", "alterations:\n  - table: t\n    altered:\n      name: a\n      enum: [{from: X}]\n"},
		{"sequence entry", "alterations:\n  - table: t\n    altered:\n      name: a\n      enum: [[X]]\n"},
		{"duplicate column", "alterations:\n  - {table: t, altered: {name: a, enum: [X]}}\n  - {table: t, altered: {name: a, enum: [Y]}}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("expected ErrInvalidRequest, got %v", err)
			}
		})
	}
}

func TestParseMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("alterations: [\n"))
	if err == nil || !strings.Contains(err.Error(), "failed to parse request file") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.yaml")
	if err := os.WriteFile(path, []byte(contactRequest), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(f.Alterations) != 3 {
		t.Errorf("expected 3 alterations, got %d", len(f.Alterations))
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestEntryRoundTrip(t *testing.T) {
	in := []Entry{{Value: "CUSTOMER"}, {From: "LEAD", To: "PROSPECT"}}
	out, err := yaml.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back []Entry
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(in, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultSchema(t *testing.T) {
	f, err := Parse([]byte("alterations:\n  - {table: t, altered: {name: a, enum: [X]}}\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := f.Groups()[0].Target.Schema; got != DefaultSchema {
		t.Errorf("schema = %q; want %q", got, DefaultSchema)
	}
}
