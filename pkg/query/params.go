// Package query parses list parameters and pages in-memory result sets.
package query

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

const (
	DefaultPage = 1
	MaxPageSize = 200

	// MaxPage keeps (Page-1)*PageSize inside int
	MaxPage = math.MaxInt / MaxPageSize
)

type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// Getter reads one raw query value; "" when absent.
type Getter func(key string) string

// Params normalized list parameters. SortBy is always a canonical column.
type Params struct {
	Page      int
	PageSize  int
	Search    string
	SortBy    string
	SortOrder SortOrder
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func (p Params) Desc() bool {
	return p.SortOrder == Desc
}

// Options per-endpoint defaults.
type Options struct {
	DefaultPageSize  int
	SortColumns      map[string]string // accepted input -> canonical column
	DefaultSort      string
	DefaultSortOrder SortOrder
}

// Parse never fails: bad or non-positive numbers fall back to defaults, values
// above the limits are clamped, unknown sort keys fall back to DefaultSort.
func Parse(get Getter, opts Options) Params {
	p := Params{
		Page:      DefaultPage,
		PageSize:  clampPageSize(opts.DefaultPageSize),
		Search:    strings.TrimSpace(get("search")),
		SortBy:    opts.DefaultSort,
		SortOrder: opts.DefaultSortOrder,
	}
	if p.SortOrder == "" {
		p.SortOrder = Asc
	}

	if v, ok := parsePage(strings.TrimSpace(get("page"))); ok {
		p.Page = v
	}
	// 0 หรือติดลบ = ไม่ได้ส่งมา ใช้ default ของ endpoint
	if v, err := strconv.Atoi(strings.TrimSpace(get("pageSize"))); err == nil && v >= 1 {
		p.PageSize = clampPageSize(v)
	}

	if col, ok := opts.SortColumns[strings.TrimSpace(get("sortBy"))]; ok {
		p.SortBy = col
	}

	switch SortOrder(strings.ToLower(strings.TrimSpace(get("sortOrder")))) {
	case Asc:
		p.SortOrder = Asc
	case Desc:
		p.SortOrder = Desc
	}

	return p
}

// parsePage positive page numbers, capped at MaxPage (including ones too big for int)
func parsePage(raw string) (int, bool) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange && !strings.HasPrefix(raw, "-") {
			return MaxPage, true
		}
		return 0, false
	}
	if v < 1 {
		return 0, false
	}
	return min(v, MaxPage), true
}

func clampPageSize(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

// AllowList builds a sort allow-list from snake_case columns, accepting each
// column under its own name and its camelCase alias.
func AllowList(columns ...string) map[string]string {
	m := make(map[string]string, len(columns)*2)
	for _, col := range columns {
		m[col] = col
		m[camel(col)] = col
	}
	return m
}

func camel(snake string) string {
	var b strings.Builder
	upper := false
	for _, r := range snake {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FirstOf value of the first key that is present, trimmed.
// ใช้กับ param ที่รับได้ทั้ง snake_case และ camelCase เช่น task_name|taskName
func FirstOf(get Getter, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(get(k)); v != "" {
			return v
		}
	}
	return ""
}
