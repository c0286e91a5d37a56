// Package textmatch implements accent- and case-insensitive text matching.
//
// The same substitution table drives both the in-process matcher (Fold, Match)
// and the SQL expression used by the query builder (SQLFold), so a value
// matched in PostgreSQL matches in Go and vice versa.
package textmatch

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// substitution maps a group of accented runes to their unaccented base.
type substitution struct {
	from string
	to   string
}

// singles are one-rune-to-one-rune foldings (rendered with translate()).
var singles = []substitution{
	{"àáâãäåÀÁÂÃÄÅ", "a"},
	{"çÇ", "c"},
	{"èéêëÈÉÊË", "e"},
	{"ìíîïÌÍÎÏ", "i"},
	{"ñÑ", "n"},
	{"òóôõöøÒÓÔÕÖØ", "o"},
	{"ùúûüÙÚÛÜ", "u"},
	{"ýÿÝŸ", "y"},
}

// ligatures expand to more than one rune (rendered with replace()).
var ligatures = []substitution{
	{"œ", "oe"},
	{"Œ", "oe"},
	{"æ", "ae"},
	{"Æ", "ae"},
	{"ß", "ss"},
}

var foldTable = buildFoldTable()

func buildFoldTable() map[rune]string {
	table := make(map[rune]string)
	for _, s := range singles {
		for _, r := range s.from {
			table[r] = s.to
		}
	}
	for _, l := range ligatures {
		r, _ := utf8.DecodeRuneInString(l.from)
		table[r] = l.to
	}
	return table
}

// Fold returns s in NFC form, lower-cased, with every accented Latin letter
// replaced by its base letter.
func Fold(s string) string {
	if s == "" {
		return ""
	}
	lowered := strings.ToLower(norm.NFC.String(s))

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if base, ok := foldTable[r]; ok {
			b.WriteString(base)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// HasAccents reports whether s contains anything outside plain ASCII.
// Pure-ASCII strings fold to their lower-case form, which lets Match skip
// normalization entirely.
func HasAccents(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return true
		}
	}
	return false
}
