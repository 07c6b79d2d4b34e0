package version

import (
	"strings"
	"testing"
)

func TestApp(t *testing.T) {
	if App() == "" {
		t.Fatal("expected embedded version to be non-empty")
	}
	if strings.ContainsAny(App(), " \n") {
		t.Errorf("version should be trimmed, got %q", App())
	}
}

func TestString(t *testing.T) {
	s := String()
	if !strings.HasPrefix(s, "pgenum v"+App()) {
		t.Errorf("unexpected version line %q", s)
	}
	if !strings.Contains(s, Platform()) {
		t.Errorf("version line %q lacks platform", s)
	}
}
