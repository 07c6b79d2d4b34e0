package enumalter

import (
	"fmt"
	"strings"

	"github.com/pgschema/pgenum/internal/util"
)

func createTypeSQL(typeName string, values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = util.QuoteLiteral(v)
	}
	return fmt.Sprintf("CREATE TYPE %s AS ENUM (%s)", typeName, strings.Join(quoted, ", "))
}

func (p *Plan) addColumnSQL() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ALTER TABLE %s ADD COLUMN %s %s", p.table(), util.QuoteIdentifier(p.Column), p.TypeRef())
	if p.Default != nil {
		fmt.Fprintf(&b, " DEFAULT %s", *p.Default)
	}
	if !p.IsNullable {
		b.WriteString(" NOT NULL")
	}
	return b.String()
}
