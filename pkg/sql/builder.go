package sql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ekaya-inc/prospect-crm/pkg/textmatch"
)

// predicate is one WHERE fragment paired with the values for its ? placeholders.
type predicate struct {
	fragment string
	args     []any
}

// Builder assembles a filtered SELECT together with its matching COUNT.
//
// Predicates are written with ? placeholders and stored as ordered
// (fragment, args) pairs; positional $n parameters are only assigned when a
// statement is rendered. The data query and the count query are rendered
// from the same predicate list, so a page and its total always describe the
// same filter set.
//
// Example:
//
//	b := NewBuilder("contacts c").
//		WhereContains("c.country", "luxembourg").
//		WhereEquals("c.years_experience", 5).
//		OrderBy("c.id DESC").
//		Page(10, 10)
//	query, args := b.SelectSQL("c.id, c.full_name")
//	// SELECT c.id, c.full_name FROM contacts c
//	// WHERE c.country ILIKE $1 AND c.years_experience = $2
//	// ORDER BY c.id DESC LIMIT $3 OFFSET $4
type Builder struct {
	from    string
	preds   []predicate
	orderBy string
	limit   int
	offset  int
	paged   bool
}

// NewBuilder starts a query over the given FROM clause (table plus optional
// alias and joins). from is trusted SQL and is never parameterized.
func NewBuilder(from string) *Builder {
	return &Builder{from: from}
}

// Where adds a predicate. fragment must contain exactly one ? per arg
// (outside quoted literals); a mismatch is a programming error and panics.
func (b *Builder) Where(fragment string, args ...any) *Builder {
	if n := countPlaceholders(fragment); n != len(args) {
		panic(fmt.Sprintf("sql.Builder: fragment %q has %d placeholders but %d args", fragment, n, len(args)))
	}
	b.preds = append(b.preds, predicate{fragment: fragment, args: args})
	return b
}

// WhereContains adds a case-insensitive substring test. Blank terms are ignored.
func (b *Builder) WhereContains(column, term string) *Builder {
	term = strings.TrimSpace(term)
	if term == "" {
		return b
	}
	return b.Where(column+" ILIKE ?", "%"+textmatch.EscapeLike(term)+"%")
}

// WhereFolded adds an accent- and case-insensitive substring test that
// succeeds when any of the columns contains term. Blank terms are ignored.
func (b *Builder) WhereFolded(columns []string, term string) *Builder {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return b
	}
	pattern := textmatch.LikePattern(term)

	parts := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		parts[i] = textmatch.SQLFold(col) + " LIKE ?"
		args[i] = pattern
	}
	return b.Where("("+strings.Join(parts, " OR ")+")", args...)
}

// WhereEquals adds an equality test.
func (b *Builder) WhereEquals(column string, value any) *Builder {
	return b.Where(column+" = ?", value)
}

// OrderBy sets the ORDER BY clause. It only affects SelectSQL.
func (b *Builder) OrderBy(clause string) *Builder {
	b.orderBy = clause
	return b
}

// Page sets LIMIT and OFFSET. It only affects SelectSQL.
func (b *Builder) Page(limit, offset int) *Builder {
	b.limit = limit
	b.offset = offset
	b.paged = true
	return b
}

// Len returns the number of predicates.
func (b *Builder) Len() int {
	return len(b.preds)
}

// SelectSQL renders the data query.
func (b *Builder) SelectSQL(columns string) (string, []any) {
	var sb strings.Builder
	args := make([]any, 0, b.argCount()+2)

	sb.WriteString("SELECT ")
	sb.WriteString(columns)
	sb.WriteString(" FROM ")
	sb.WriteString(b.from)
	args = b.writeWhere(&sb, args)

	if b.orderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(b.orderBy)
	}
	if b.paged {
		args = append(args, b.limit, b.offset)
		fmt.Fprintf(&sb, " LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	return sb.String(), args
}

// CountSQL renders the COUNT(*) query over the same predicates.
func (b *Builder) CountSQL() (string, []any) {
	var sb strings.Builder
	args := make([]any, 0, b.argCount())

	sb.WriteString("SELECT COUNT(*) FROM ")
	sb.WriteString(b.from)
	args = b.writeWhere(&sb, args)
	return sb.String(), args
}

func (b *Builder) argCount() int {
	n := 0
	for _, p := range b.preds {
		n += len(p.args)
	}
	return n
}

func (b *Builder) writeWhere(sb *strings.Builder, args []any) []any {
	for i, p := range b.preds {
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		sb.WriteString(numberPlaceholders(p.fragment, len(args)+1))
		args = append(args, p.args...)
	}
	return args
}

// numberPlaceholders rewrites each ? outside single-quoted literals to $n,
// starting at start.
func numberPlaceholders(fragment string, start int) string {
	var sb strings.Builder
	n := start
	inQuote := false
	for _, r := range fragment {
		switch {
		case r == '\'':
			inQuote = !inQuote
			sb.WriteRune(r)
		case r == '?' && !inQuote:
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			n++
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func countPlaceholders(fragment string) int {
	n := 0
	inQuote := false
	for _, r := range fragment {
		switch {
		case r == '\'':
			inQuote = !inQuote
		case r == '?' && !inQuote:
			n++
		}
	}
	return n
}
