package enumalter

import (
	"fmt"

	"github.com/pgschema/pgenum/internal/util"
)

const (
	enumTypeSuffix   = "_enum"
	stagedTypeSuffix = "_temp"
)

// TypeState is the position of an alteration in the enum type lifecycle.
type TypeState int

const (
	// TypeOriginal: only the original type exists.
	TypeOriginal TypeState = iota
	// TypeStaged: the original type has been renamed to its staged name.
	TypeStaged
	// TypeFinalized: the new type exists under its final name.
	TypeFinalized
)

func (s TypeState) String() string {
	switch s {
	case TypeOriginal:
		return "original"
	case TypeStaged:
		return "staged"
	case TypeFinalized:
		return "finalized"
	default:
		return fmt.Sprintf("TypeState(%d)", int(s))
	}
}

// EnumTypeName derives the enum type name of a column, clipped the same way
// the server clips identifiers.
func EnumTypeName(table, column string) string {
	return util.ClipIdentifier(table + "_" + column + enumTypeSuffix)
}

// TypeLifecycle tracks which enum type names are live while a column is
// retyped. Transitions return a new value and never mutate the receiver.
type TypeLifecycle struct {
	state    TypeState
	original string
	staged   string
	final    string
	retired  bool
}

// NewTypeLifecycle starts a lifecycle for a column of table being renamed
// from currentColumn to newColumn (which may be equal).
func NewTypeLifecycle(table, currentColumn, newColumn string) TypeLifecycle {
	original := EnumTypeName(table, currentColumn)
	return TypeLifecycle{
		state:    TypeOriginal,
		original: original,
		staged:   util.FitIdentifier(original, stagedTypeSuffix),
		final:    EnumTypeName(table, newColumn),
	}
}

// State returns the current lifecycle state.
func (l TypeLifecycle) State() TypeState { return l.state }

// Original is the name of the type the column uses before the alteration.
func (l TypeLifecycle) Original() string { return l.original }

// Staged is the side name the original type is moved to.
func (l TypeLifecycle) Staged() string { return l.staged }

// Final is the name of the newly created type.
func (l TypeLifecycle) Final() string { return l.final }

// Retired reports whether the staged type has been dropped.
func (l TypeLifecycle) Retired() bool { return l.retired }

// Live returns the type names that exist in the current state.
func (l TypeLifecycle) Live() []string {
	switch l.state {
	case TypeOriginal:
		return []string{l.original}
	case TypeStaged:
		return []string{l.staged}
	default:
		if l.retired {
			return []string{l.final}
		}
		return []string{l.staged, l.final}
	}
}

// Stage moves the original type out of the way.
func (l TypeLifecycle) Stage() (TypeLifecycle, error) {
	if l.state != TypeOriginal {
		return l, fmt.Errorf("%w: stage from %s", ErrInvalidTransition, l.state)
	}
	if l.staged == l.original {
		return l, fmt.Errorf("%w: staged type name %q equals original", ErrNameCollision, l.staged)
	}
	next := l
	next.state = TypeStaged
	return next, checkDistinct(next.Live())
}

// Finalize creates the new type next to the staged one.
func (l TypeLifecycle) Finalize() (TypeLifecycle, error) {
	if l.state != TypeStaged {
		return l, fmt.Errorf("%w: finalize from %s", ErrInvalidTransition, l.state)
	}
	next := l
	next.state = TypeFinalized
	return next, checkDistinct(next.Live())
}

// Retire drops the staged type, leaving only the final one.
func (l TypeLifecycle) Retire() (TypeLifecycle, error) {
	if l.state != TypeFinalized || l.retired {
		return l, fmt.Errorf("%w: retire from %s", ErrInvalidTransition, l.state)
	}
	next := l
	next.retired = true
	return next, nil
}

// Walk runs every transition in order without touching the database, so a
// collision is reported before the first statement is sent.
func (l TypeLifecycle) Walk() error {
	cur := l
	for _, step := range []func(TypeLifecycle) (TypeLifecycle, error){
		TypeLifecycle.Stage,
		TypeLifecycle.Finalize,
		TypeLifecycle.Retire,
	} {
		next, err := step(cur)
		if err != nil {
			return err
		}
		cur = next
	}
	return nil
}

func checkDistinct(names []string) error {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return fmt.Errorf("%w: type %q would exist twice", ErrNameCollision, n)
		}
		seen[n] = true
	}
	return nil
}
