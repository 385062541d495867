// Package listing holds the pagination primitives shared by every resource
// repo: the filter set callers pass to GetAll and the meta block returned
// alongside each page.
package listing

import (
	"net/url"
	"strconv"
)

const (
	DefaultPerPage = 20
	maxPerPage     = 100
)

// Meta describes the page a GetAll call returned.
type Meta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	TotalPages int `json:"totalPages"`
}

// Filters is the common query surface for list endpoints. Extra carries
// resource-specific filters (e.g. categoryId for inventory) without every
// repo growing its own filter type.
type Filters struct {
	Page    int
	PerPage int
	Search  string
	Extra   map[string]string
}

func (f Filters) normalized() Filters {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = DefaultPerPage
	}
	if f.PerPage > maxPerPage {
		f.PerPage = maxPerPage
	}
	return f
}

// Query encodes the filters as URL query parameters for the HTTP repos.
func (f Filters) Query() url.Values {
	f = f.normalized()
	q := url.Values{}
	q.Set("page", strconv.Itoa(f.Page))
	q.Set("perPage", strconv.Itoa(f.PerPage))
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	for k, v := range f.Extra {
		q.Set(k, v)
	}
	return q
}

// PageOf slices items down to the requested page. The in-memory repos use it
// so their meta blocks match what the real backend returns.
func PageOf[T any](items []T, f Filters) ([]T, Meta) {
	f = f.normalized()

	meta := Meta{
		Total:   len(items),
		Page:    f.Page,
		PerPage: f.PerPage,
	}
	meta.TotalPages = (len(items) + f.PerPage - 1) / f.PerPage

	start := (f.Page - 1) * f.PerPage
	if start >= len(items) {
		return []T{}, meta
	}
	end := start + f.PerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], meta
}
