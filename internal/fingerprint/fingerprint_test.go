package fingerprint

import (
	"errors"
	"strings"
	"testing"
)

func TestCompute(t *testing.T) {
	a, err := Compute([]string{"LEAD", "CUSTOMER"})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	b, _ := Compute([]string{"LEAD", "CUSTOMER"})
	if a.Hash != b.Hash {
		t.Error("identical labels should produce identical hashes")
	}
	if len(a.Hash) != 64 {
		t.Errorf("expected sha256 hex hash, got %q", a.Hash)
	}

	reordered, _ := Compute([]string{"CUSTOMER", "LEAD"})
	if reordered.Hash == a.Hash {
		t.Error("label order should change the hash")
	}

	empty, _ := Compute(nil)
	none, _ := Compute([]string{})
	if empty.Hash != none.Hash {
		t.Error("nil and empty label lists should match")
	}
}

func TestCompare_IdenticalFingerprints(t *testing.T) {
	fingerprint1 := &EnumFingerprint{Hash: "same_hash_12345"}
	fingerprint2 := &EnumFingerprint{Hash: "same_hash_12345"}

	if err := Compare(fingerprint1, fingerprint2); err != nil {
		t.Errorf("Identical fingerprints should match, got error: %v", err)
	}
}

func TestCompare_DifferentFingerprints(t *testing.T) {
	fingerprint1 := &EnumFingerprint{Labels: []string{"A"}, Hash: "hash_12345"}
	fingerprint2 := &EnumFingerprint{Labels: []string{"B"}, Hash: "hash_67890"}

	err := Compare(fingerprint1, fingerprint2)
	if !errors.Is(err, ErrMismatch) {
		t.Fatalf("expected ErrMismatch, got %v", err)
	}

	for _, substring := range []string{"enum fingerprint mismatch", "hash_1234", "hash_6789", "[A]", "[B]"} {
		if !strings.Contains(err.Error(), substring) {
			t.Errorf("Error message should contain '%s', got: %s", substring, err.Error())
		}
	}
}

func TestString(t *testing.T) {
	f := &EnumFingerprint{Hash: "0123456789abcdef"}
	if got := f.String(); got != "Enum fingerprint: 01234567" {
		t.Errorf("String() = %q", got)
	}
}
