package query

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculateDefaults(t *testing.T) {
	p := NewPaginator(DefaultLimit, DefaultMaxLimit).Calculate(PaginationOptions{})
	require.Equal(t, Pagination{Page: 1, Limit: 10, Skip: 0, Order: OrderBy{Column: "created_at", Desc: true}}, p)
}

func TestCalculateSkip(t *testing.T) {
	cases := []struct {
		page, limit, skip int
	}{
		{page: 1, limit: 10, skip: 0},
		{page: 2, limit: 10, skip: 10},
		{page: 5, limit: 7, skip: 28},
		{page: -3, limit: 5, skip: 0},
	}
	for _, tc := range cases {
		p := NewPaginator(DefaultLimit, DefaultMaxLimit).Calculate(PaginationOptions{Page: tc.page, Limit: tc.limit})
		require.Equal(t, tc.skip, p.Skip)
		require.Equal(t, tc.limit, p.Limit)
	}
}

func TestPaginatorClampsLimit(t *testing.T) {
	p := NewPaginator(20, 50).Calculate(PaginationOptions{Page: 3, Limit: 500})
	require.Equal(t, 50, p.Limit)
	require.Equal(t, 100, p.Skip)

	p = NewPaginator(0, 0).Calculate(PaginationOptions{})
	require.Equal(t, DefaultLimit, p.Limit)
}

func TestStudentOrder(t *testing.T) {
	require.Equal(t, OrderBy{Column: "created_at", Desc: true}, StudentOrder(PaginationOptions{}))
	require.Equal(t, OrderBy{Column: "first_name"}, StudentOrder(PaginationOptions{SortBy: "firstName", SortOrder: "ASC"}))
	require.Equal(t, OrderBy{Column: "email", Desc: true}, StudentOrder(PaginationOptions{SortBy: "email", SortOrder: "desc"}))

	// sort field without a direction keeps the default ordering
	require.Equal(t, OrderBy{Column: "created_at", Desc: true}, StudentOrder(PaginationOptions{SortBy: "firstName"}))
	require.Equal(t, OrderBy{Column: "created_at", Desc: true}, StudentOrder(PaginationOptions{SortBy: "password; DROP", SortOrder: "asc"}))
	require.Equal(t, OrderBy{Column: "created_at", Desc: true}, StudentOrder(PaginationOptions{SortBy: "email", SortOrder: "sideways"}))
}

func TestCalculateResolvesOrder(t *testing.T) {
	paginator := NewPaginator(DefaultLimit, DefaultMaxLimit)

	p := paginator.Calculate(PaginationOptions{SortBy: "lastName", SortOrder: "asc"})
	require.Equal(t, OrderBy{Column: "last_name"}, p.Order)

	p = paginator.Calculate(PaginationOptions{SortBy: "lastName"})
	require.Equal(t, OrderBy{Column: "created_at", Desc: true}, p.Order)
}
