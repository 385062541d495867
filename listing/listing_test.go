package listing_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joequah1/erp-client/listing"
)

func TestPageOf(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page, meta := listing.PageOf(items, listing.Filters{Page: 1, PerPage: 2})
	require.Equal(t, []int{1, 2}, page)
	require.Equal(t, 5, meta.Total)
	require.Equal(t, 3, meta.TotalPages)

	page, _ = listing.PageOf(items, listing.Filters{Page: 3, PerPage: 2})
	require.Equal(t, []int{5}, page)

	page, meta = listing.PageOf(items, listing.Filters{Page: 9, PerPage: 2})
	require.Empty(t, page)
	require.Equal(t, 5, meta.Total)
}

func TestPageOfDefaults(t *testing.T) {
	items := make([]int, 25)

	page, meta := listing.PageOf(items, listing.Filters{})
	require.Len(t, page, listing.DefaultPerPage)
	require.Equal(t, 1, meta.Page)
	require.Equal(t, 2, meta.TotalPages)
}

func TestQueryEncoding(t *testing.T) {
	f := listing.Filters{
		Page:    2,
		PerPage: 50,
		Search:  "cola",
		Extra:   map[string]string{"categoryId": "cat-2"},
	}

	q := f.Query()
	require.Equal(t, "2", q.Get("page"))
	require.Equal(t, "50", q.Get("perPage"))
	require.Equal(t, "cola", q.Get("search"))
	require.Equal(t, "cat-2", q.Get("categoryId"))
}
