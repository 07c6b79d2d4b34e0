package util

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/lib/pq"
)

// MaxIdentifierLength is PostgreSQL's NAMEDATALEN-1. Longer identifiers are
// silently truncated by the server.
const MaxIdentifierLength = 63

// ErrInvalidIdentifier is returned for identifiers that cannot be safely quoted.
var ErrInvalidIdentifier = errors.New("invalid identifier")

// ValidateIdentifier rejects identifiers that PostgreSQL cannot represent.
func ValidateIdentifier(identifier string) error {
	if identifier == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidIdentifier)
	}
	if strings.ContainsRune(identifier, 0) {
		return fmt.Errorf("%w: %q contains a NUL byte", ErrInvalidIdentifier, identifier)
	}
	if !utf8.ValidString(identifier) {
		return fmt.Errorf("%w: %q is not valid UTF-8", ErrInvalidIdentifier, identifier)
	}
	return nil
}

// QuoteIdentifier always quotes, escaping embedded double quotes.
func QuoteIdentifier(identifier string) string {
	return pq.QuoteIdentifier(identifier)
}

// QualifiedName returns "schema"."name", or just "name" when schema is empty.
func QualifiedName(schema, name string) string {
	if schema == "" {
		return QuoteIdentifier(name)
	}
	return QuoteIdentifier(schema) + "." + QuoteIdentifier(name)
}

// QuoteLiteral returns a single-quoted SQL string literal.
func QuoteLiteral(value string) string {
	return pq.QuoteLiteral(value)
}

// ClipIdentifier truncates an identifier the way the server does: to at most
// MaxIdentifierLength bytes without splitting a multibyte character.
func ClipIdentifier(identifier string) string {
	return clip(identifier, MaxIdentifierLength)
}

// FitIdentifier joins base and suffix, clipping base so the suffix survives
// the server's truncation intact.
func FitIdentifier(base, suffix string) string {
	room := MaxIdentifierLength - len(suffix)
	if room < 0 {
		return ClipIdentifier(suffix)
	}
	return clip(base, room) + suffix
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
