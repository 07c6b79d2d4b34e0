package enumalter

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTypeLifecycleTransitions(t *testing.T) {
	l := NewTypeLifecycle("contact", "status", "status")

	if diff := cmp.Diff([]string{"contact_status_enum"}, l.Live()); diff != "" {
		t.Errorf("original live names mismatch (-want +got):\n%s", diff)
	}

	staged, err := l.Stage()
	if err != nil {
		t.Fatalf("Stage: %v", err)
	}
	if diff := cmp.Diff([]string{"contact_status_enum_temp"}, staged.Live()); diff != "" {
		t.Errorf("staged live names mismatch (-want +got):\n%s", diff)
	}

	final, err := staged.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if diff := cmp.Diff([]string{"contact_status_enum_temp", "contact_status_enum"}, final.Live()); diff != "" {
		t.Errorf("finalized live names mismatch (-want +got):\n%s", diff)
	}

	retired, err := final.Retire()
	if err != nil {
		t.Fatalf("Retire: %v", err)
	}
	if diff := cmp.Diff([]string{"contact_status_enum"}, retired.Live()); diff != "" {
		t.Errorf("retired live names mismatch (-want +got):\n%s", diff)
	}

	// transitions never mutate the receiver
	if l.State() != TypeOriginal {
		t.Errorf("receiver state changed to %s", l.State())
	}
}

func TestTypeLifecycleRenamedColumn(t *testing.T) {
	l := NewTypeLifecycle("contact", "status", "stage")
	if l.Original() != "contact_status_enum" {
		t.Errorf("Original = %q", l.Original())
	}
	if l.Staged() != "contact_status_enum_temp" {
		t.Errorf("Staged = %q", l.Staged())
	}
	if l.Final() != "contact_stage_enum" {
		t.Errorf("Final = %q", l.Final())
	}
	if err := l.Walk(); err != nil {
		t.Errorf("Walk: %v", err)
	}
}

func TestTypeLifecycleOutOfOrder(t *testing.T) {
	l := NewTypeLifecycle("contact", "status", "status")

	if _, err := l.Finalize(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Finalize from original: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := l.Retire(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Retire from original: expected ErrInvalidTransition, got %v", err)
	}

	staged, _ := l.Stage()
	if _, err := staged.Stage(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Stage twice: expected ErrInvalidTransition, got %v", err)
	}
}

func TestTypeLifecycleLongNames(t *testing.T) {
	table := strings.Repeat("t", 40)
	column := strings.Repeat("c", 40)
	l := NewTypeLifecycle(table, column, column)

	if len(l.Original()) > 63 || len(l.Staged()) > 63 {
		t.Fatalf("names exceed identifier limit: %q %q", l.Original(), l.Staged())
	}
	if l.Original() == l.Staged() {
		t.Fatalf("clipped staged name collides with original %q", l.Original())
	}
	if !strings.HasSuffix(l.Staged(), "_temp") {
		t.Errorf("staged name lost its suffix: %q", l.Staged())
	}
	if err := l.Walk(); err != nil {
		t.Errorf("Walk: %v", err)
	}
}

func TestTypeLifecycleCollision(t *testing.T) {
	// the new column derives exactly the staged type name
	l := TypeLifecycle{
		state:    TypeOriginal,
		original: "t_a_enum",
		staged:   "t_a_enum_temp",
		final:    "t_a_enum_temp",
	}
	if err := l.Walk(); !errors.Is(err, ErrNameCollision) {
		t.Errorf("expected ErrNameCollision, got %v", err)
	}
}

func TestTypeStateString(t *testing.T) {
	for state, want := range map[TypeState]string{
		TypeOriginal:  "original",
		TypeStaged:    "staged",
		TypeFinalized: "finalized",
		TypeState(9):  "TypeState(9)",
	} {
		if got := state.String(); got != want {
			t.Errorf("String() = %q; want %q", got, want)
		}
	}
}
