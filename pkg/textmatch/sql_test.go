package textmatch

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSQLFold_WrapsExpression(t *testing.T) {
	got := SQLFold("c.full_name")

	assert.True(t, strings.HasPrefix(got, "translate("))
	assert.Contains(t, got, "lower(normalize(c.full_name, NFC))")
	assert.Contains(t, got, "'œ', 'oe'")
}

func TestTranslateArgs_SameLength(t *testing.T) {
	// translate() maps position by position, so both sides must line up.
	assert.Equal(t, utf8.RuneCountInString(translateFrom), utf8.RuneCountInString(translateTo))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%cafe%", LikePattern("  Café "))
	assert.Equal(t, `%100\%%`, LikePattern("100%"))
	assert.Equal(t, `%a\_b%`, LikePattern("a_b"))
	assert.Equal(t, `%c:\\temp%`, LikePattern(`C:\temp`))
}
