// Package pagination converts 1-based page requests into offset/limit pairs
// and computes the page metadata returned by every listing endpoint.
package pagination

import (
	"math"
	"net/url"
	"strconv"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Defaults bounds the limit accepted from clients.
type Defaults struct {
	Limit    int
	MaxLimit int
}

// Params is a normalized page request.
type Params struct {
	Page  int
	Limit int
}

// Meta is the pagination block of a listing response.
type Meta struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	Total       int  `json:"total"`
	Pages       int  `json:"pages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// New normalizes page and limit: page <= 0 becomes 1, limit <= 0 becomes the
// default, and limit is clamped to the maximum when one is set. page is capped
// so that Offset cannot overflow.
func New(page, limit int, d Defaults) Params {
	if d.Limit <= 0 {
		d.Limit = DefaultLimit
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = d.Limit
	}
	if d.MaxLimit > 0 && limit > d.MaxLimit {
		limit = d.MaxLimit
	}
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}
	return Params{Page: page, Limit: limit}
}

// FromQuery reads "page" and "limit" from query values. Missing or
// unparseable values fall back to the defaults.
func FromQuery(q url.Values, d Defaults) Params {
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return New(page, limit, d)
}

// Offset returns (page-1)*limit.
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Meta builds the page metadata for a result set of total rows.
func (p Params) Meta(total int) Meta {
	return NewMeta(p.Page, p.Limit, total)
}

// PageCount returns ceil(total/limit). It is 0 when there are no rows or the
// limit is not positive.
func PageCount(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// NewMeta computes page metadata.
func NewMeta(page, limit, total int) Meta {
	if total < 0 {
		total = 0
	}
	pages := PageCount(total, limit)
	return Meta{
		Page:        page,
		Limit:       limit,
		Total:       total,
		Pages:       pages,
		HasNextPage: page < pages,
		HasPrevPage: page > 1,
	}
}
