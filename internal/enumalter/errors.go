package enumalter

import (
	"errors"

	"github.com/pgschema/pgenum/internal/util"
)

var (
	// ErrInvalidIdentifier is returned for names PostgreSQL cannot represent.
	ErrInvalidIdentifier = util.ErrInvalidIdentifier
	// ErrNotEnumColumn is returned when the altered column is not an enum.
	ErrNotEnumColumn = errors.New("column is not an enum column")
	// ErrEmptyEnumDefault is returned when a NOT NULL column has neither a
	// default nor any enum value to derive one from.
	ErrEmptyEnumDefault = errors.New("non-nullable enum column needs a default but has no enum values")
	// ErrInvalidDefault is returned when an explicit default is not a single SQL expression.
	ErrInvalidDefault = errors.New("invalid default value")
	// ErrNameCollision is returned when two live artifacts would share a name.
	ErrNameCollision = errors.New("name collision")
	// ErrInvalidTransition is returned for out-of-order lifecycle transitions.
	ErrInvalidTransition = errors.New("invalid type lifecycle transition")
)
