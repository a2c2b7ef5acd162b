package redis

import (
	"context"
	"time"

	"jobcore-api/domain/models"
	"jobcore-api/domain/repositories"
	"jobcore-api/pkg/errors"
	"jobcore-api/pkg/logger"
)

const scheduleKeyPrefix = "job-core:schedule:"

// JSONCache subset of Client used by the schedule cache
type JSONCache interface {
	GetJSON(ctx context.Context, key string, target interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// scheduleEntry Exists=false is a tombstone for "no row"
type scheduleEntry struct {
	Exists          bool      `json:"exists"`
	ScheduleEnabled bool      `json:"schedule_enabled"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CachedScheduleRepository read-through cache in front of the schedule store.
// Redis failures are logged and fall through to the store.
type CachedScheduleRepository struct {
	next  repositories.ScheduleRepository
	cache JSONCache
	ttl   time.Duration
}

var _ repositories.ScheduleRepository = (*CachedScheduleRepository)(nil)

func NewCachedScheduleRepository(next repositories.ScheduleRepository, cache JSONCache, ttl time.Duration) *CachedScheduleRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedScheduleRepository{next: next, cache: cache, ttl: ttl}
}

func scheduleKey(taskName string) string {
	return scheduleKeyPrefix + taskName
}

func (r *CachedScheduleRepository) Upsert(ctx context.Context, taskName string, enabled bool) (*models.Schedule, error) {
	row, err := r.next.Upsert(ctx, taskName, enabled)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Del(ctx, scheduleKey(row.TaskName)); err != nil {
		logger.WarnContext(ctx, "Failed to invalidate schedule cache", "task_name", row.TaskName, "error", err)
	}
	return row, nil
}

func (r *CachedScheduleRepository) GetByTaskName(ctx context.Context, taskName string) (*models.Schedule, error) {
	if row, hit := r.cached(ctx, taskName); hit {
		return row, nil
	}

	row, err := r.next.GetByTaskName(ctx, taskName)
	if err != nil {
		return nil, err
	}
	r.store(ctx, taskName, row)
	return row, nil
}

// FindByTaskNames serves hits and tombstones from the cache, then one store
// query for the misses. Only the misses are written back.
func (r *CachedScheduleRepository) FindByTaskNames(ctx context.Context, taskNames []string) (map[string]*models.Schedule, error) {
	out := make(map[string]*models.Schedule, len(taskNames))
	var misses []string
	for _, name := range taskNames {
		row, hit := r.cached(ctx, name)
		if !hit {
			misses = append(misses, name)
			continue
		}
		if row != nil {
			out[name] = row
		}
	}
	if len(misses) == 0 {
		return out, nil
	}

	rows, err := r.next.FindByTaskNames(ctx, misses)
	if err != nil {
		return nil, err
	}
	for _, name := range misses {
		row := rows[name]
		r.store(ctx, name, row)
		if row != nil {
			out[name] = row
		}
	}
	return out, nil
}

// cached hit=false on miss or redis error; a tombstone is a hit with a nil row
func (r *CachedScheduleRepository) cached(ctx context.Context, taskName string) (*models.Schedule, bool) {
	var entry scheduleEntry
	err := r.cache.GetJSON(ctx, scheduleKey(taskName), &entry)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			logger.WarnContext(ctx, "Schedule cache read failed", "task_name", taskName, "error", err)
		}
		return nil, false
	}
	if !entry.Exists {
		return nil, true
	}
	return &models.Schedule{TaskName: taskName, ScheduleEnabled: entry.ScheduleEnabled, UpdatedAt: entry.UpdatedAt}, true
}

func (r *CachedScheduleRepository) store(ctx context.Context, taskName string, row *models.Schedule) {
	entry := scheduleEntry{}
	if row != nil {
		entry = scheduleEntry{Exists: true, ScheduleEnabled: row.ScheduleEnabled, UpdatedAt: row.UpdatedAt}
	}
	if err := r.cache.SetJSON(ctx, scheduleKey(taskName), entry, r.ttl); err != nil {
		logger.WarnContext(ctx, "Schedule cache write failed", "task_name", taskName, "error", err)
	}
}
