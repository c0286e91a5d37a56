package textmatch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestMatch(t *testing.T) {
	tests := []struct {
		name  string
		term  string
		field *string
		want  bool
	}{
		{"accented field, plain term", "e", strPtr("é"), true},
		{"accented term, plain field", "é", strPtr("e"), true},
		{"cafe matches café", "cafe", strPtr("café"), true},
		{"café matches cafe", "café", strPtr("cafe"), true},
		{"no overlap", "xyz", strPtr("abc"), false},
		{"case-insensitive", "JEAN", strPtr("jean dupont"), true},
		{"upper-case accents", "ELODIE", strPtr("Élodie Martin"), true},
		{"ligature", "oeuvre", strPtr("Œuvre sociale"), true},
		{"decomposed accents", "cafe", strPtr("cafe\u0301"), true},
		{"nil field", "jean", nil, false},
		{"empty field", "jean", strPtr(""), false},
		{"empty term", "", strPtr("jean"), false},
		{"whitespace term", "   ", strPtr("jean"), false},
		{"substring in the middle", "ndu", strPtr("Jean Dupont"), false},
		{"company name", "societe generale", strPtr("Société Générale Luxembourg"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.term, tt.field))
		})
	}
}

func TestMatch_FastPathAgreesWithFoldedPath(t *testing.T) {
	pairs := [][2]string{
		{"jean", "Jean Dupont"},
		{"DUP", "jean dupont"},
		{"xyz", "abc"},
		{"a_b", "A_B"},
		{"100%", "100% remote"},
	}
	for _, p := range pairs {
		fast := MatchString(p[0], p[1])
		folded := strings.Contains(Fold(p[1]), Fold(p[0]))
		assert.Equal(t, folded, fast, "term=%q field=%q", p[0], p[1])
	}
}

func TestFold(t *testing.T) {
	assert.Equal(t, "elodie", Fold("Élodie"))
	assert.Equal(t, "francois", Fold("François"))
	assert.Equal(t, "strasse", Fold("Straße"))
	assert.Equal(t, "noel", Fold("Noël"))
	assert.Equal(t, "", Fold(""))
}

func TestHasAccents(t *testing.T) {
	assert.False(t, HasAccents("plain ascii"))
	assert.True(t, HasAccents("café"))
	assert.False(t, HasAccents(""))
}

func TestMatchAny(t *testing.T) {
	assert.True(t, MatchAny("acme", nil, strPtr("Jean"), strPtr("ACME Sàrl")))
	assert.False(t, MatchAny("acme", nil, strPtr("Jean")))
}

func TestFilter(t *testing.T) {
	type rec struct {
		id   int
		name string
	}
	items := []rec{{1, "Hélène"}, {2, "Marc"}, {3, "Helena"}}

	got, total := Filter("helen", items, func(r rec) []*string { return []*string{&r.name} })

	assert.Equal(t, 2, total)
	assert.Equal(t, []rec{{1, "Hélène"}, {3, "Helena"}}, got)
}
