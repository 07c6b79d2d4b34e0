package color

import (
	"testing"
)

func TestDisabledColorIsPlain(t *testing.T) {
	c := New(false)
	if got := c.Add("x"); got != "x" {
		t.Errorf("Add = %q", got)
	}
	if got := c.FormatStepLine("drop", "drop type t_enum_temp"); got != "  - drop type t_enum_temp" {
		t.Errorf("FormatStepLine = %q", got)
	}
	if got := c.FormatPlanHeader(2, 3, 15); got != "Plan: 2 table(s), 3 column(s) to retype, 15 statement(s)." {
		t.Errorf("FormatPlanHeader = %q", got)
	}
}

func TestSymbol(t *testing.T) {
	c := New(false)
	for action, want := range map[string]string{
		"create":  "+",
		"rename":  "~",
		"stage":   "~",
		"migrate": "~",
		"drop":    "-",
		"other":   " ",
	} {
		if got := c.Symbol(action); got != want {
			t.Errorf("Symbol(%q) = %q; want %q", action, got, want)
		}
	}
}

func TestColorRespectsEnvironment(t *testing.T) {
	t.Setenv("TERM", "xterm-256color")
	t.Setenv("NO_COLOR", "")
	if got := New(true).Destroy("x"); got != Red+"x"+Reset {
		t.Errorf("Destroy = %q", got)
	}

	t.Setenv("NO_COLOR", "1")
	if got := New(true).Destroy("x"); got != "x" {
		t.Errorf("NO_COLOR should disable color, got %q", got)
	}

	t.Setenv("NO_COLOR", "")
	t.Setenv("TERM", "dumb")
	if got := New(true).Bold("x"); got != "x" {
		t.Errorf("dumb terminal should disable color, got %q", got)
	}
}
