package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jobcore-api/domain/models"
	"jobcore-api/domain/repositories"
	"jobcore-api/pkg/errors"
)

// sortable columns; anything else falls back to enqueued_at
var executionSortColumns = map[string]bool{
	"task_name":    true,
	"status":       true,
	"enqueued_at":  true,
	"started_at":   true,
	"completed_at": true,
	"duration_ms":  true,
}

type ExecutionRepositoryImpl struct {
	db *gorm.DB
}

func NewExecutionRepository(db *gorm.DB) repositories.ExecutionRepository {
	return &ExecutionRepositoryImpl{db: db}
}

func (r *ExecutionRepositoryImpl) Create(ctx context.Context, execution *models.Execution) error {
	if execution.ID == uuid.Nil {
		execution.ID = uuid.New()
	}
	if execution.EnqueuedAt.IsZero() {
		execution.EnqueuedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(execution).Error; err != nil {
		return errors.Store(err, "insert execution")
	}
	return nil
}

func (r *ExecutionRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Execution, error) {
	var execution models.Execution
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&execution).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Execution not found")
		}
		return nil, errors.Store(err, "get execution")
	}
	return &execution, nil
}

// List filter, count (before paging), sort with id as tie-break, page.
func (r *ExecutionRepositoryImpl) List(ctx context.Context, filter repositories.ExecutionFilter) ([]*models.Execution, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Execution{})

	if filter.TaskName != "" {
		query = query.Where("task_name = ?", filter.TaskName)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(task_name) LIKE ? ESCAPE '\\'", likePattern(filter.Search))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Store(err, "count executions")
	}

	sortBy := filter.SortBy
	if !executionSortColumns[sortBy] {
		sortBy = "enqueued_at"
	}
	sortOrder := "ASC"
	if filter.Desc {
		sortOrder = "DESC"
	}
	query = query.Order(fmt.Sprintf("%s %s, id %s", sortBy, sortOrder, sortOrder))

	if filter.Limit > 0 {
		query = query.Offset(filter.Offset).Limit(filter.Limit)
	}

	var executions []*models.Execution
	if err := query.Find(&executions).Error; err != nil {
		return nil, 0, errors.Store(err, "list executions")
	}

	return executions, total, nil
}

// Claim conditional queued -> running
func (r *ExecutionRepositoryImpl) Claim(ctx context.Context, id uuid.UUID, startedAt time.Time) (*models.Execution, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Execution{}).
		Where("id = ? AND status = ?", id, models.ExecutionStatusQueued).
		Updates(map[string]interface{}{
			"status":     models.ExecutionStatusRunning,
			"started_at": startedAt.UTC(),
		})
	if result.Error != nil {
		return nil, errors.Store(result.Error, "claim execution")
	}
	if result.RowsAffected == 0 {
		return nil, r.transitionError(ctx, id, models.ExecutionStatusRunning)
	}
	return r.GetByID(ctx, id)
}

// Complete conditional running -> success|failed
// duration_ms = completed_at - started_at; started_at is part of the WHERE so a
// concurrent re-claim cannot slip in between the read and the write.
func (r *ExecutionRepositoryImpl) Complete(ctx context.Context, id uuid.UUID, res models.ExecutionResult) (*models.Execution, error) {
	if !res.Status.IsTerminal() {
		return nil, errors.Validation(fmt.Sprintf("status %q is not terminal", res.Status))
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(res.Status) || current.StartedAt == nil {
		return nil, errors.Conflictf("execution %s cannot move from %s to %s", id, current.Status, res.Status)
	}

	completedAt := res.CompletedAt.UTC()
	if completedAt.IsZero() {
		completedAt = time.Now().UTC()
	}
	duration := completedAt.Sub(*current.StartedAt).Milliseconds()
	if duration < 0 {
		duration = 0
	}

	result := r.db.WithContext(ctx).
		Model(&models.Execution{}).
		Where("id = ? AND status = ? AND started_at = ?", id, models.ExecutionStatusRunning, *current.StartedAt).
		Updates(map[string]interface{}{
			"status":       res.Status,
			"completed_at": completedAt,
			"exit_code":    res.ExitCode,
			"duration_ms":  duration,
			"logs":         res.Logs,
			"error":        res.Error,
		})
	if result.Error != nil {
		return nil, errors.Store(result.Error, "complete execution")
	}
	if result.RowsAffected == 0 {
		return nil, r.transitionError(ctx, id, res.Status)
	}
	return r.GetByID(ctx, id)
}

func (r *ExecutionRepositoryImpl) transitionError(ctx context.Context, id uuid.UUID, next models.ExecutionStatus) error {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return errors.Conflictf("execution %s cannot move from %s to %s", id, current.Status, next)
}

type lastRunRow struct {
	TaskName        string
	LastCompletedAt sql.NullString
	LastEnqueuedAt  sql.NullString
}

type latestExecutionRow struct {
	ID       uuid.UUID
	TaskName string
	Status   string
}

// RunSummaries two batched queries scoped to taskNames: the max timestamps per
// task and the newest execution per task.
func (r *ExecutionRepositoryImpl) RunSummaries(ctx context.Context, taskNames []string) (map[string]models.TaskRunSummary, error) {
	summaries := make(map[string]models.TaskRunSummary, len(taskNames))
	if len(taskNames) == 0 {
		return summaries, nil
	}

	var lastRuns []lastRunRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT task_name,
		       MAX(completed_at) AS last_completed_at,
		       MAX(enqueued_at) AS last_enqueued_at
		FROM task_executions
		WHERE task_name IN ?
		GROUP BY task_name`, taskNames).
		Scan(&lastRuns).Error
	if err != nil {
		return nil, errors.Store(err, "aggregate last runs")
	}

	for _, row := range lastRuns {
		s := summaries[row.TaskName]
		s.TaskName = row.TaskName
		s.LastCompletedAt = parseDBTime(row.LastCompletedAt)
		s.LastEnqueuedAt = parseDBTime(row.LastEnqueuedAt)
		summaries[row.TaskName] = s
	}

	var latest []latestExecutionRow
	err = r.db.WithContext(ctx).Raw(`
		SELECT id, task_name, status
		FROM (
			SELECT id, task_name, status,
			       ROW_NUMBER() OVER (PARTITION BY task_name ORDER BY enqueued_at DESC, id DESC) AS rn
			FROM task_executions
			WHERE task_name IN ?
		) ranked
		WHERE rn = 1`, taskNames).
		Scan(&latest).Error
	if err != nil {
		return nil, errors.Store(err, "latest executions")
	}

	for _, row := range latest {
		id := row.ID
		status := models.ExecutionStatus(row.Status)
		s := summaries[row.TaskName]
		s.TaskName = row.TaskName
		s.LatestExecutionID = &id
		s.LatestStatus = &status
		summaries[row.TaskName] = s
	}

	return summaries, nil
}

func (r *ExecutionRepositoryImpl) CountQueuedBefore(ctx context.Context, before time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Execution{}).
		Where("status = ? AND enqueued_at < ?", models.ExecutionStatusQueued, before.UTC()).
		Count(&count).Error
	if err != nil {
		return 0, errors.Store(err, "count queued executions")
	}
	return count, nil
}

func likePattern(search string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(search))
	return "%" + escaped + "%"
}

// aggregates come back as text on sqlite and as timestamps on postgres
var dbTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func parseDBTime(v sql.NullString) *time.Time {
	if !v.Valid || strings.TrimSpace(v.String) == "" {
		return nil
	}
	for _, layout := range dbTimeLayouts {
		if t, err := time.Parse(layout, v.String); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
