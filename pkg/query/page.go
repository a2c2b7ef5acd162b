package query

// Pagination envelope part of every list response.
type Pagination struct {
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Total    int64 `json:"total"`
}

func NewPagination(p Params, total int64) Pagination {
	return Pagination{Page: p.Page, PageSize: p.PageSize, Total: total}
}

// Slice returns the requested page of items. A page past the end is empty,
// never an error.
func Slice[T any](items []T, p Params) []T {
	start := p.Offset()
	if start >= len(items) || start < 0 {
		return []T{}
	}
	end := start + p.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// Direction applies the sort order to an ascending comparison result.
func Direction(cmp int, order SortOrder) int {
	if order == Desc {
		return -cmp
	}
	return cmp
}
