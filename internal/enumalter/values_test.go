package enumalter

import (
	"testing"
)

func TestMigrateValue(t *testing.T) {
	renames := newRenameTable([]EnumEntry{Rename("LEAD", "PROSPECT")})
	allowed := newValueSet([]string{"PROSPECT", "CUSTOMER", "CHURNED"})

	tests := []struct {
		name      string
		raw       any
		toArray   bool
		want      string
		wantWrite bool
	}{
		{"renamed scalar", "LEAD", false, "PROSPECT", true},
		{"unchanged scalar", "CUSTOMER", false, "CUSTOMER", true},
		{"scalar from bytes", []byte("LEAD"), false, "PROSPECT", true},
		{"scalar missing from target passes through", "GONE", false, "GONE", true},
		{"null is not written", nil, false, "", false},
		{"array rename and narrowing", "{LEAD,VIP}", true, `{"PROSPECT"}`, true},
		{"array keeps order", "{CUSTOMER,LEAD,CHURNED}", true, `{"CUSTOMER","PROSPECT","CHURNED"}`, true},
		{"array keeps null elements", "{LEAD,NULL}", true, `{"PROSPECT",NULL}`, true},
		{"empty array", "{}", true, "{}", true},
		{"array with all values removed", "{VIP,OTHER}", true, "{}", true},
		{"array with spaces", "{ LEAD , CUSTOMER }", true, `{"PROSPECT","CUSTOMER"}`, true},
		{"scalar into array column", "LEAD", true, `{"PROSPECT"}`, true},
		{"removed scalar into array column", "VIP", true, "{}", true},
		{"structured value passes through", 42, false, "42", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, write, err := migrateValue(tt.raw, tt.toArray, renames, allowed)
			if err != nil {
				t.Fatalf("migrateValue(%v) error: %v", tt.raw, err)
			}
			if write != tt.wantWrite {
				t.Fatalf("migrateValue(%v) write = %v; want %v", tt.raw, write, tt.wantWrite)
			}
			if got != tt.want {
				t.Errorf("migrateValue(%v) = %s; want %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestRenameTableIdentity(t *testing.T) {
	renames := newRenameTable(nil)
	if got := renames.apply("LEAD"); got != "LEAD" {
		t.Errorf("empty table should be identity, got %q", got)
	}

	renames = newRenameTable([]EnumEntry{Rename("A", "B"), Rename("A", "C")})
	if got := renames.apply("A"); got != "B" {
		t.Errorf("first rename of a value should win, got %q", got)
	}
}

func TestSplitArrayFallback(t *testing.T) {
	// unbalanced quote is rejected by the array parser
	got := splitArray(`{"A,B}`)
	if len(got) != 2 || got[0].String != `"A` || got[1].String != "B" {
		t.Errorf("fallback split = %+v", got)
	}
}

func TestMigrateValueBlankElement(t *testing.T) {
	got, _, err := migrateValue("{ }", true, newRenameTable(nil), newValueSet([]string{"A"}))
	if err != nil {
		t.Fatalf("migrateValue error: %v", err)
	}
	if got != "{}" {
		t.Errorf("blank element should be dropped, got %s", got)
	}
}

func TestEnumValuesAndRenames(t *testing.T) {
	entries := []EnumEntry{Rename("LEAD", "PROSPECT"), Value("CUSTOMER"), Value("CUSTOMER")}

	values := EnumValues(entries)
	if len(values) != 3 || values[0] != "PROSPECT" || values[2] != "CUSTOMER" {
		t.Errorf("EnumValues = %v", values)
	}

	renames := RenamedValues(entries)
	if len(renames) != 1 || renames[0].From != "LEAD" {
		t.Errorf("RenamedValues = %v", renames)
	}
	if RenamedValues([]EnumEntry{Value("A")}) != nil {
		t.Error("expected no renames")
	}
}
