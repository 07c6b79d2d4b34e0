// Package serialize turns typed default values into SQL literal text.
package serialize

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strconv"

	"github.com/lib/pq"
)

// Literal serializes values into PostgreSQL literals suitable for a DEFAULT
// clause. The zero value is ready to use.
type Literal struct{}

// Serialize returns the literal for value. Supported inputs are nil, string,
// bool, integers, floats, []string and []sql.NullString.
func (Literal) Serialize(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "NULL", nil
	case string:
		return pq.QuoteLiteral(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case []string:
		if v == nil {
			v = []string{}
		}
		return quoteArray(pq.StringArray(v))
	case []sql.NullString:
		if v == nil {
			v = []sql.NullString{}
		}
		return quoteArray(pq.GenericArray{A: v})
	default:
		return "", fmt.Errorf("cannot serialize default value of type %T", value)
	}
}

// ArrayText renders elements as a PostgreSQL array literal without the
// surrounding string quotes, e.g. {"A",NULL}.
func ArrayText(elements []sql.NullString) (string, error) {
	if elements == nil {
		elements = []sql.NullString{}
	}
	v, err := pq.GenericArray{A: elements}.Value()
	if err != nil {
		return "", fmt.Errorf("failed to encode array: %w", err)
	}
	return v.(string), nil
}

// ParseArray decodes the text form of a one-dimensional array.
func ParseArray(text string) ([]sql.NullString, error) {
	var elements []sql.NullString
	if err := pq.Array(&elements).Scan(text); err != nil {
		return nil, err
	}
	return elements, nil
}

func quoteArray(v driver.Valuer) (string, error) {
	text, err := v.Value()
	if err != nil {
		return "", fmt.Errorf("failed to encode array default: %w", err)
	}
	return pq.QuoteLiteral(text.(string)), nil
}
