package textmatch

import "strings"

// Match reports whether field contains term, ignoring case and accents.
// A nil or empty field never matches, and neither does an empty term.
func Match(term string, field *string) bool {
	if field == nil {
		return false
	}
	return MatchString(term, *field)
}

// MatchString is Match for a non-nullable field.
func MatchString(term, field string) bool {
	term = strings.TrimSpace(term)
	if term == "" || field == "" {
		return false
	}

	// ASCII on both sides: Fold is exactly ToLower, so the plain test is equivalent.
	if !HasAccents(term) && !HasAccents(field) {
		return strings.Contains(strings.ToLower(field), strings.ToLower(term))
	}
	return strings.Contains(Fold(field), Fold(term))
}

// MatchAny reports whether term matches at least one of fields.
func MatchAny(term string, fields ...*string) bool {
	for _, f := range fields {
		if Match(term, f) {
			return true
		}
	}
	return false
}

// Filter returns the items for which term matches any of the fields returned
// by fieldsOf, preserving input order, together with the match count.
func Filter[T any](term string, items []T, fieldsOf func(T) []*string) ([]T, int) {
	matched := make([]T, 0, len(items))
	for _, item := range items {
		if MatchAny(term, fieldsOf(item)...) {
			matched = append(matched, item)
		}
	}
	return matched, len(matched)
}
