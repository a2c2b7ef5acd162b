package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func getter(values map[string]string) Getter {
	return func(key string) string { return values[key] }
}

var executionOpts = Options{
	DefaultPageSize:  50,
	SortColumns:      AllowList("task_name", "status", "enqueued_at", "started_at", "completed_at", "duration_ms"),
	DefaultSort:      "enqueued_at",
	DefaultSortOrder: Desc,
}

func TestParseDefaults(t *testing.T) {
	p := Parse(getter(nil), executionOpts)

	assert.Equal(t, Params{Page: 1, PageSize: 50, SortBy: "enqueued_at", SortOrder: Desc}, p)
	assert.Equal(t, 0, p.Offset())
}

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
		check  func(t *testing.T, p Params)
	}{
		{
			name:   "explicit values",
			values: map[string]string{"page": "3", "pageSize": "10", "search": "  report ", "sortBy": "status", "sortOrder": "ASC"},
			check: func(t *testing.T, p Params) {
				assert.Equal(t, Params{Page: 3, PageSize: 10, Search: "report", SortBy: "status", SortOrder: Asc}, p)
				assert.Equal(t, 20, p.Offset())
			},
		},
		{
			name:   "page size above max is clamped",
			values: map[string]string{"pageSize": "1000"},
			check:  func(t *testing.T, p Params) { assert.Equal(t, MaxPageSize, p.PageSize) },
		},
		{
			name:   "zero page size uses the endpoint default",
			values: map[string]string{"pageSize": "0"},
			check:  func(t *testing.T, p Params) { assert.Equal(t, 50, p.PageSize) },
		},
		{
			name:   "negative page size uses the endpoint default",
			values: map[string]string{"pageSize": "-5"},
			check:  func(t *testing.T, p Params) { assert.Equal(t, 50, p.PageSize) },
		},
		{
			name:   "huge page is capped and offset stays positive",
			values: map[string]string{"page": "9223372036854775807", "pageSize": "200"},
			check: func(t *testing.T, p Params) {
				assert.Equal(t, MaxPage, p.Page)
				assert.Greater(t, p.Offset(), 0)
			},
		},
		{
			name:   "page beyond int range is capped",
			values: map[string]string{"page": "99999999999999999999999"},
			check: func(t *testing.T, p Params) {
				assert.Equal(t, MaxPage, p.Page)
				assert.Greater(t, p.Offset(), 0)
			},
		},
		{
			name:   "non numeric page falls back",
			values: map[string]string{"page": "abc", "pageSize": "x"},
			check: func(t *testing.T, p Params) {
				assert.Equal(t, 1, p.Page)
				assert.Equal(t, 50, p.PageSize)
			},
		},
		{
			name:   "negative page falls back",
			values: map[string]string{"page": "-2"},
			check:  func(t *testing.T, p Params) { assert.Equal(t, 1, p.Page) },
		},
		{
			name:   "camel case sort alias",
			values: map[string]string{"sortBy": "durationMs"},
			check:  func(t *testing.T, p Params) { assert.Equal(t, "duration_ms", p.SortBy) },
		},
		{
			name:   "unknown sort column falls back",
			values: map[string]string{"sortBy": "logs; drop table", "sortOrder": "sideways"},
			check: func(t *testing.T, p Params) {
				assert.Equal(t, "enqueued_at", p.SortBy)
				assert.Equal(t, Desc, p.SortOrder)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Parse(getter(tt.values), executionOpts))
		})
	}
}

func TestParseWithoutDefaultOrder(t *testing.T) {
	p := Parse(getter(nil), Options{DefaultPageSize: 25, DefaultSort: "name"})
	assert.Equal(t, Asc, p.SortOrder)
	assert.Equal(t, 25, p.PageSize)
}

func TestAllowList(t *testing.T) {
	m := AllowList("task_name", "name")
	assert.Equal(t, map[string]string{
		"task_name": "task_name",
		"taskName":  "task_name",
		"name":      "name",
	}, m)
}

func TestFirstOf(t *testing.T) {
	get := getter(map[string]string{"taskName": " nightly ", "task_name": ""})
	assert.Equal(t, "nightly", FirstOf(get, "task_name", "taskName"))
	assert.Equal(t, "", FirstOf(get, "status"))
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{1, 2}, Slice(items, Params{Page: 1, PageSize: 2}))
	assert.Equal(t, []int{5}, Slice(items, Params{Page: 3, PageSize: 2}))
	assert.Equal(t, []int{}, Slice(items, Params{Page: 4, PageSize: 2}))
	assert.Equal(t, []int{}, Slice([]int(nil), Params{Page: 1, PageSize: 2}))
}

func TestNewPaginationAndDirection(t *testing.T) {
	assert.Equal(t, Pagination{Page: 2, PageSize: 10, Total: 31}, NewPagination(Params{Page: 2, PageSize: 10}, 31))
	assert.Equal(t, -1, Direction(-1, Asc))
	assert.Equal(t, 1, Direction(-1, Desc))
}
