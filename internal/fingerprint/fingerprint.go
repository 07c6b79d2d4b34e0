// Package fingerprint detects drift between the enum labels a request
// expects and the labels stored in the database.
package fingerprint

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMismatch is returned when two fingerprints differ.
var ErrMismatch = errors.New("enum fingerprint mismatch")

// EnumFingerprint identifies an ordered list of enum labels.
type EnumFingerprint struct {
	Labels []string `json:"labels"`
	Hash   string   `json:"hash"`
}

// Compute fingerprints labels. Order matters: enum values sort by position.
func Compute(labels []string) (*EnumFingerprint, error) {
	if labels == nil {
		labels = []string{}
	}
	data, err := json.Marshal(labels)
	if err != nil {
		return nil, fmt.Errorf("failed to compute enum hash: %w", err)
	}
	return &EnumFingerprint{
		Labels: labels,
		Hash:   fmt.Sprintf("%x", sha256.Sum256(data)),
	}, nil
}

// String returns a human-readable representation of the fingerprint
func (f *EnumFingerprint) String() string {
	if len(f.Hash) >= 8 {
		return fmt.Sprintf("Enum fingerprint: %s", f.Hash[:8])
	}
	return fmt.Sprintf("Enum fingerprint: %s", f.Hash)
}

// Compare returns ErrMismatch, with both label lists, when the fingerprints differ.
func Compare(expected, actual *EnumFingerprint) error {
	if expected.Hash == actual.Hash {
		return nil
	}
	return fmt.Errorf("%w - expected: %v (%s), actual: %v (%s)",
		ErrMismatch, expected.Labels, preview(expected.Hash), actual.Labels, preview(actual.Hash))
}

func preview(hash string) string {
	if len(hash) > 16 {
		return hash[:16]
	}
	return hash
}
