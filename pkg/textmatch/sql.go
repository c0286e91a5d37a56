package textmatch

import (
	"fmt"
	"strings"
)

var translateFrom, translateTo = buildTranslateArgs()

func buildTranslateArgs() (string, string) {
	var from, to strings.Builder
	for _, s := range singles {
		for _, r := range s.from {
			from.WriteRune(r)
			to.WriteString(s.to)
		}
	}
	return from.String(), to.String()
}

// SQLFold wraps a SQL expression so PostgreSQL folds it the same way Fold does.
// expr is interpolated verbatim and must be a trusted column expression.
func SQLFold(expr string) string {
	inner := fmt.Sprintf("lower(normalize(%s, NFC))", expr)
	for _, l := range ligatures {
		inner = fmt.Sprintf("replace(%s, '%s', '%s')", inner, l.from, l.to)
	}
	return fmt.Sprintf("translate(%s, '%s', '%s')", inner, translateFrom, translateTo)
}

// LikePattern folds term, escapes LIKE wildcards and wraps it for a
// containment test.
func LikePattern(term string) string {
	return "%" + EscapeLike(Fold(strings.TrimSpace(term))) + "%"
}

// EscapeLike escapes the LIKE metacharacters using the default backslash escape.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
