package query

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	q, err := Parse(url.Values{})
	require.NoError(t, err)

	require.Empty(t, q.Filters)
	require.Equal(t, []SortField{{Column: "created_at", Desc: true}}, q.Sort)
	require.Empty(t, q.Fields)
	require.Equal(t, 1, q.Page)
	require.Equal(t, 10, q.Limit)
}

func TestParse_EqualityFilter(t *testing.T) {
	values := url.Values{}
	values.Set("category", "Water Supply")
	values.Set("status", "pending")

	q, err := Parse(values)
	require.NoError(t, err)
	require.Len(t, q.Filters, 2)

	byColumn := map[string]Filter{}
	for _, f := range q.Filters {
		byColumn[f.Column] = f
	}
	require.Equal(t, Filter{Column: "category", Op: OpEq, Value: "Water Supply"}, byColumn["category"])
	require.Equal(t, Filter{Column: "status", Op: OpEq, Value: "pending"}, byColumn["status"])
}

func TestParse_RangeFilters(t *testing.T) {
	tests := []struct {
		key  string
		want Filter
	}{
		{"votes[gt]", Filter{Column: "votes", Op: OpGt, Value: int64(5)}},
		{"votes[gte]", Filter{Column: "votes", Op: OpGte, Value: int64(5)}},
		{"votes[lt]", Filter{Column: "votes", Op: OpLt, Value: int64(5)}},
		{"votes[lte]", Filter{Column: "votes", Op: OpLte, Value: int64(5)}},
	}

	for _, tt := range tests {
		values := url.Values{}
		values.Set(tt.key, "5")

		q, err := Parse(values)
		require.NoError(t, err, tt.key)
		require.Len(t, q.Filters, 1, tt.key)
		require.Equal(t, tt.want, q.Filters[0], tt.key)
	}
}

func TestParse_TimeFilter(t *testing.T) {
	values := url.Values{}
	values.Set("createdAt[gte]", "2024-06-01")

	q, err := Parse(values)
	require.NoError(t, err)
	require.Len(t, q.Filters, 1)
	require.Equal(t, "created_at", q.Filters[0].Column)
	require.Equal(t, OpGte, q.Filters[0].Op)

	parsed, ok := q.Filters[0].Value.(time.Time)
	require.True(t, ok)
	require.Equal(t, 2024, parsed.Year())
}

func TestParse_RejectsUnknownField(t *testing.T) {
	values := url.Values{}
	values.Set("password_hash", "x")

	_, err := Parse(values)
	require.ErrorIs(t, err, ErrUnknownField)
}

func TestParse_RejectsUnknownOperator(t *testing.T) {
	values := url.Values{}
	values.Set("votes[like]", "5")

	_, err := Parse(values)
	require.ErrorIs(t, err, ErrUnknownOperator)
}

func TestParse_RejectsBadValue(t *testing.T) {
	values := url.Values{}
	values.Set("votes[gte]", "lots")

	_, err := Parse(values)
	require.ErrorIs(t, err, ErrBadValue)
}

func TestParse_Sort(t *testing.T) {
	values := url.Values{}
	values.Set("sort", "-votes,createdAt")

	q, err := Parse(values)
	require.NoError(t, err)
	require.Equal(t, []SortField{
		{Column: "votes", Desc: true},
		{Column: "created_at", Desc: false},
	}, q.Sort)
}

func TestParse_SortRejectsUnknownField(t *testing.T) {
	values := url.Values{}
	values.Set("sort", "-secrets")

	_, err := Parse(values)
	require.ErrorIs(t, err, ErrUnknownField)
}

func TestParse_Fields(t *testing.T) {
	values := url.Values{}
	values.Set("fields", "title,votes,category")

	q, err := Parse(values)
	require.NoError(t, err)
	require.Equal(t, []string{"title", "votes", "category"}, q.Fields)
	// id and user_id ride along in the SQL projection for addressing and
	// the owner preload, but stay out of the requested field list
	require.Equal(t, []string{"id", "user_id", "title", "votes", "category"}, q.selectColumns())
}

func TestParse_FieldsRejectsUnknownField(t *testing.T) {
	values := url.Values{}
	values.Set("fields", "title,deleted_at")

	_, err := Parse(values)
	require.ErrorIs(t, err, ErrUnknownField)
}

func TestParse_PaginationCoercion(t *testing.T) {
	tests := []struct {
		page, limit         string
		wantPage, wantLimit int
	}{
		{"3", "5", 3, 5},
		{"0", "-2", 1, 10},
		{"abc", "xyz", 1, 10},
		{"", "", 1, 10},
	}

	for _, tt := range tests {
		values := url.Values{}
		if tt.page != "" {
			values.Set("page", tt.page)
		}
		if tt.limit != "" {
			values.Set("limit", tt.limit)
		}

		q, err := Parse(values)
		require.NoError(t, err)
		require.Equal(t, tt.wantPage, q.Page, "page=%q", tt.page)
		require.Equal(t, tt.wantLimit, q.Limit, "limit=%q", tt.limit)
	}
}
