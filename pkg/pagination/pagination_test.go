package pagination

import (
	"math"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMeta(t *testing.T) {
	tests := []struct {
		name                     string
		page, limit, total       int
		wantPages                int
		wantHasNext, wantHasPrev bool
	}{
		{"first of three", 1, 20, 45, 3, true, false},
		{"last of three", 3, 20, 45, 3, false, true},
		{"middle", 2, 10, 25, 3, true, true},
		{"exact multiple", 2, 10, 20, 2, false, true},
		{"empty result", 1, 20, 0, 0, false, false},
		{"zero limit", 1, 0, 45, 0, false, false},
		{"page past the end", 5, 10, 25, 3, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMeta(tt.page, tt.limit, tt.total)
			assert.Equal(t, tt.wantPages, m.Pages)
			assert.Equal(t, tt.wantHasNext, m.HasNextPage)
			assert.Equal(t, tt.wantHasPrev, m.HasPrevPage)
			assert.Equal(t, tt.total, m.Total)
		})
	}
}

func TestNew_Normalizes(t *testing.T) {
	d := Defaults{Limit: 20, MaxLimit: 100}

	assert.Equal(t, Params{Page: 1, Limit: 20}, New(0, 0, d))
	assert.Equal(t, Params{Page: 1, Limit: 20}, New(-3, -1, d))
	assert.Equal(t, Params{Page: 4, Limit: 100}, New(4, 500, d))
	assert.Equal(t, Params{Page: 1, Limit: 20}, New(1, 0, Defaults{}))
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Params{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 10, Params{Page: 2, Limit: 10}.Offset())
	assert.Equal(t, 40, Params{Page: 3, Limit: 20}.Offset())
}

func TestFromQuery_HugePageKeepsOffsetPositive(t *testing.T) {
	d := Defaults{Limit: 20, MaxLimit: 100}

	p := FromQuery(url.Values{"page": {strconv.Itoa(math.MaxInt / 10)}, "limit": {"100"}}, d)

	assert.Equal(t, math.MaxInt/100, p.Page)
	assert.Positive(t, p.Offset())
	assert.LessOrEqual(t, p.Offset(), math.MaxInt-p.Limit)

	meta := p.Meta(25)
	assert.False(t, meta.HasNextPage)
	assert.True(t, meta.HasPrevPage)
}

func TestFromQuery(t *testing.T) {
	d := Defaults{Limit: 20, MaxLimit: 100}

	p := FromQuery(url.Values{"page": {"2"}, "limit": {"10"}}, d)
	assert.Equal(t, Params{Page: 2, Limit: 10}, p)

	p = FromQuery(url.Values{"page": {"abc"}, "limit": {""}}, d)
	assert.Equal(t, Params{Page: 1, Limit: 20}, p)
}

func TestPageSizesSumToTotal(t *testing.T) {
	total, limit := 45, 20
	pages := PageCount(total, limit)

	sum := 0
	for page := 1; page <= pages; page++ {
		p := Params{Page: page, Limit: limit}
		remaining := total - p.Offset()
		if remaining > limit {
			remaining = limit
		}
		sum += remaining
	}
	assert.Equal(t, total, sum)
}
