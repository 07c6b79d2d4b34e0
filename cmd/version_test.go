package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pgschema/pgenum/internal/version"
)

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	RootCmd.SetOut(&buf)
	RootCmd.SetErr(&buf)
	RootCmd.SetArgs([]string{"version"})

	if err := RootCmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	output := strings.TrimSpace(buf.String())
	if !strings.HasPrefix(output, "pgenum v"+version.App()) {
		t.Errorf("expected output to start with 'pgenum v%s', got: %s", version.App(), output)
	}
	if !strings.Contains(output, version.Platform()) {
		t.Errorf("expected output to contain platform %s, got: %s", version.Platform(), output)
	}
}
