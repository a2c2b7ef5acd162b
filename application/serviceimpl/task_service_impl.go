package serviceimpl

import (
	"context"
	"sort"
	"strings"
	"time"

	"jobcore-api/domain/dto"
	"jobcore-api/domain/models"
	"jobcore-api/domain/ports"
	"jobcore-api/domain/repositories"
	"jobcore-api/domain/services"
	"jobcore-api/pkg/errors"
	"jobcore-api/pkg/logger"
	"jobcore-api/pkg/query"
	"jobcore-api/pkg/scheduler"
)

type TaskServiceImpl struct {
	catalog       ports.TaskCatalog
	scheduleRepo  repositories.ScheduleRepository
	executionRepo repositories.ExecutionRepository
	now           func() time.Time
}

func NewTaskService(
	catalog ports.TaskCatalog,
	scheduleRepo repositories.ScheduleRepository,
	executionRepo repositories.ExecutionRepository,
) services.TaskService {
	return &TaskServiceImpl{
		catalog:       catalog,
		scheduleRepo:  scheduleRepo,
		executionRepo: executionRepo,
		now:           time.Now,
	}
}

// ListTasks filter/sort/page over the whole catalog in memory, then enrich
// only the tasks on the requested page.
func (s *TaskServiceImpl) ListTasks(ctx context.Context, params query.Params) (*dto.ListResponse[dto.TaskResponse], error) {
	tasks, err := s.catalog.List(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load task catalog", "error", err)
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(params.Search))
	filtered := make([]models.TaskDefinition, 0, len(tasks))
	for i := range tasks {
		if tasks[i].Matches(needle) {
			filtered = append(filtered, tasks[i])
		}
	}

	sortTasks(filtered, params)
	page := query.Slice(filtered, params)

	items := s.enrich(ctx, page)
	return dto.NewListResponse(items, params, int64(len(filtered))), nil
}

func (s *TaskServiceImpl) GetTask(ctx context.Context, name string) (*dto.TaskResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.Validation("Missing id")
	}

	task, err := s.catalog.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}

	items := s.enrich(ctx, []models.TaskDefinition{*task})
	return &items[0], nil
}

func (s *TaskServiceImpl) UpdateSchedule(ctx context.Context, name string, enabled bool) (*dto.ScheduleResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.Validation("Missing id")
	}

	row, err := s.scheduleRepo.Upsert(ctx, name, enabled)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to update schedule", "task_name", name, "error", err)
		return nil, err
	}

	// catalog ใช้แค่คำนวณ enabled; task ที่ไม่อยู่ใน manifest ก็เก็บ flag ไว้ได้
	task, err := s.catalog.Lookup(ctx, name)
	if err != nil {
		if !errors.IsNotFound(err) {
			logger.WarnContext(ctx, "Task lookup failed after schedule update", "task_name", name, "error", err)
		}
		task = nil
	}

	logger.InfoContext(ctx, "Task schedule updated", "task_name", row.TaskName, "schedule_enabled", row.ScheduleEnabled)
	return dto.ScheduleToScheduleResponse(row, task), nil
}

// ═══════════════════════════════════════════════════════════════════════════════
// Enrichment
// ═══════════════════════════════════════════════════════════════════════════════

// enrich one batched schedule lookup and one batched run summary for the page.
// ทั้งสองอย่างเป็น best-effort: error แค่ log แล้วถือว่าว่าง
func (s *TaskServiceImpl) enrich(ctx context.Context, tasks []models.TaskDefinition) []dto.TaskResponse {
	items := make([]dto.TaskResponse, 0, len(tasks))
	if len(tasks) == 0 {
		return items
	}

	names := make([]string, len(tasks))
	for i := range tasks {
		names[i] = tasks[i].Name
	}

	schedules, err := s.scheduleRepo.FindByTaskNames(ctx, names)
	if err != nil {
		logger.WarnContext(ctx, "Schedule lookup failed, using task defaults", "error", err)
		schedules = nil
	}

	summaries, err := s.executionRepo.RunSummaries(ctx, names)
	if err != nil {
		logger.WarnContext(ctx, "Last run lookup failed", "error", err)
		summaries = nil
	}

	now := s.now().UTC()
	for i := range tasks {
		task := &tasks[i]
		item := dto.TaskToTaskResponse(task)
		item.Enabled = models.EffectiveEnabled(task, schedules[task.Name])

		if summary, ok := summaries[task.Name]; ok {
			item.LastRun = summary.LastRun()
			item.LatestExecutionID = summary.LatestExecutionID
			item.LatestStatus = summary.LatestStatus
		}

		if item.Enabled && task.HasCron() {
			next, err := scheduler.NextRun(task.CronExpr(), now)
			if err != nil {
				logger.DebugContext(ctx, "Cannot compute next run", "task_name", task.Name, "error", err)
			} else {
				item.NextRun = next
			}
		}

		items = append(items, *item)
	}
	return items
}

// ═══════════════════════════════════════════════════════════════════════════════
// Sorting
// ═══════════════════════════════════════════════════════════════════════════════

func sortTasks(tasks []models.TaskDefinition, params query.Params) {
	sort.SliceStable(tasks, func(i, j int) bool {
		cmp := query.Direction(compareTasks(&tasks[i], &tasks[j], params.SortBy), params.SortOrder)
		if cmp == 0 {
			// name tie-break ตามทิศทางเดียวกัน
			cmp = query.Direction(strings.Compare(tasks[i].Name, tasks[j].Name), params.SortOrder)
		}
		return cmp < 0
	})
}

func compareTasks(a, b *models.TaskDefinition, column string) int {
	switch column {
	case "service_name":
		return strings.Compare(deref(a.ServiceName), deref(b.ServiceName))
	case "cron":
		return strings.Compare(a.CronExpr(), b.CronExpr())
	default:
		return strings.Compare(a.Name, b.Name)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
