package serviceimpl

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"jobcore-api/domain/models"
	"jobcore-api/domain/ports"
	"jobcore-api/domain/repositories"
	"jobcore-api/pkg/errors"
)

type memoryExecutionRepo struct {
	mu        sync.Mutex
	rows      []*models.Execution
	createErr error
	summErr   error
	lastQuery repositories.ExecutionFilter
}

func (r *memoryExecutionRepo) Create(_ context.Context, e *models.Execution) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	e.ID = uuid.New()
	e.EnqueuedAt = time.Now().UTC()
	r.rows = append(r.rows, e)
	return nil
}

func (r *memoryExecutionRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Execution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.rows {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, errors.NotFound("Execution not found")
}

func (r *memoryExecutionRepo) List(_ context.Context, f repositories.ExecutionFilter) ([]*models.Execution, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastQuery = f
	var out []*models.Execution
	for _, e := range r.rows {
		if f.TaskName != "" && e.TaskName != f.TaskName {
			continue
		}
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (r *memoryExecutionRepo) Claim(context.Context, uuid.UUID, time.Time) (*models.Execution, error) {
	return nil, errors.New("not used")
}

func (r *memoryExecutionRepo) Complete(context.Context, uuid.UUID, models.ExecutionResult) (*models.Execution, error) {
	return nil, errors.New("not used")
}

func (r *memoryExecutionRepo) RunSummaries(_ context.Context, names []string) (map[string]models.TaskRunSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.summErr != nil {
		return nil, r.summErr
	}
	want := map[string]bool{}
	for _, n := range names {
		want[n] = true
	}
	out := map[string]models.TaskRunSummary{}
	for _, e := range r.rows {
		if !want[e.TaskName] {
			continue
		}
		s := out[e.TaskName]
		s.TaskName = e.TaskName
		if s.LastEnqueuedAt == nil || e.EnqueuedAt.After(*s.LastEnqueuedAt) {
			at := e.EnqueuedAt
			id := e.ID
			status := e.Status
			s.LastEnqueuedAt = &at
			s.LatestExecutionID = &id
			s.LatestStatus = &status
		}
		if e.CompletedAt != nil && (s.LastCompletedAt == nil || e.CompletedAt.After(*s.LastCompletedAt)) {
			at := *e.CompletedAt
			s.LastCompletedAt = &at
		}
		out[e.TaskName] = s
	}
	return out, nil
}

func (r *memoryExecutionRepo) CountQueuedBefore(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, e := range r.rows {
		if e.Status == models.ExecutionStatusQueued && e.EnqueuedAt.Before(before) {
			n++
		}
	}
	return n, nil
}

type memoryScheduleRepo struct {
	mu      sync.Mutex
	rows    map[string]*models.Schedule
	findErr error
}

func newMemoryScheduleRepo() *memoryScheduleRepo {
	return &memoryScheduleRepo{rows: map[string]*models.Schedule{}}
}

func (r *memoryScheduleRepo) Upsert(_ context.Context, name string, enabled bool) (*models.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row := &models.Schedule{TaskName: name, ScheduleEnabled: enabled, UpdatedAt: time.Now().UTC()}
	r.rows[name] = row
	return row, nil
}

func (r *memoryScheduleRepo) GetByTaskName(_ context.Context, name string) (*models.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[name], nil
}

func (r *memoryScheduleRepo) FindByTaskNames(_ context.Context, names []string) (map[string]*models.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	out := map[string]*models.Schedule{}
	for _, n := range names {
		if row, ok := r.rows[n]; ok {
			out[n] = row
		}
	}
	return out, nil
}

type recordingPublisher struct {
	events []*ports.ExecutionEnqueuedEvent
	err    error
}

func (p *recordingPublisher) PublishEnqueued(_ context.Context, e *ports.ExecutionEnqueuedEvent) error {
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) GetQueueStatus(context.Context) (*ports.QueueStatus, error) {
	return &ports.QueueStatus{StreamName: "JOB_CORE_EXECUTIONS", Messages: uint64(len(p.events))}, nil
}

func strPtr(s string) *string { return &s }
