package dto

import "jobcore-api/pkg/query"

// ListResponse {items, pagination} ที่ทุก list endpoint ใช้
type ListResponse[T any] struct {
	Items      []T              `json:"items"`
	Pagination query.Pagination `json:"pagination"`
}

func NewListResponse[T any](items []T, params query.Params, total int64) *ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return &ListResponse[T]{
		Items:      items,
		Pagination: query.NewPagination(params, total),
	}
}

// TaskListOptions tasks: name asc, 25 per page
var TaskListOptions = query.Options{
	DefaultPageSize:  25,
	SortColumns:      query.AllowList("name", "service_name", "cron"),
	DefaultSort:      "name",
	DefaultSortOrder: query.Asc,
}

// ExecutionListOptions executions: newest first, 50 per page
var ExecutionListOptions = query.Options{
	DefaultPageSize:  50,
	SortColumns:      query.AllowList("task_name", "status", "enqueued_at", "started_at", "completed_at", "duration_ms"),
	DefaultSort:      "enqueued_at",
	DefaultSortOrder: query.Desc,
}
