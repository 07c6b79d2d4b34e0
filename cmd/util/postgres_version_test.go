package util

import (
	"testing"
)

func TestCheckMajorVersion(t *testing.T) {
	tests := []struct {
		major       int
		expectError bool
	}{
		{13, true},
		{14, false},
		{17, false},
		{18, false},
	}

	for _, tt := range tests {
		err := checkMajorVersion(tt.major)
		if tt.expectError && err == nil {
			t.Errorf("version %d: expected error but got none", tt.major)
		}
		if !tt.expectError && err != nil {
			t.Errorf("version %d: unexpected error: %v", tt.major, err)
		}
	}
}
