package scheduler

import (
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"jobcore-api/pkg/errors"
	"jobcore-api/pkg/logger"
)

// EventScheduler runs in-process housekeeping jobs (queue monitor).
// It never dispatches catalog tasks; that belongs to the worker.
type EventScheduler interface {
	Start()
	Stop()
	AddJob(id, cronExpr string, task func()) error
	RemoveJob(id string) error
	GetJob(id string) (*JobInfo, bool)
	ListJobs() map[string]*JobInfo
	IsRunning() bool
}

type JobInfo struct {
	ID       string
	CronExpr string
	LastRun  *time.Time
	NextRun  *time.Time
	job      *gocron.Job
}

func (j *JobInfo) snapshot() *JobInfo {
	info := &JobInfo{ID: j.ID, CronExpr: j.CronExpr}
	if j.LastRun != nil {
		lastRun := *j.LastRun
		info.LastRun = &lastRun
	}
	if j.job != nil {
		nextRun := j.job.NextRun()
		info.NextRun = &nextRun
	}
	return info
}

type GocronScheduler struct {
	scheduler *gocron.Scheduler
	jobs      map[string]*JobInfo
	mu        sync.RWMutex
	running   bool
}

func NewEventScheduler() EventScheduler {
	s := gocron.NewScheduler(time.UTC)
	// งานเดิมยังไม่เสร็จ ไม่เริ่มรอบใหม่ซ้อน
	s.SingletonModeAll()

	return &GocronScheduler{
		scheduler: s,
		jobs:      make(map[string]*JobInfo),
	}
}

func (s *GocronScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	s.scheduler.StartAsync()
	s.running = true
	logger.Info("Event scheduler started", "jobs", len(s.jobs))
}

func (s *GocronScheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	// ปล่อย lock ก่อน job ที่กำลังรันต้องเขียน LastRun
	s.scheduler.Stop()
	logger.Info("Event scheduler stopped")
}

func (s *GocronScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

func (s *GocronScheduler) AddJob(id, cronExpr string, task func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[id]; exists {
		return errors.Newf("job %s already registered", id)
	}

	job, err := s.scheduler.Cron(cronExpr).Do(func() {
		now := time.Now().UTC()
		s.mu.Lock()
		if info, ok := s.jobs[id]; ok {
			info.LastRun = &now
		}
		s.mu.Unlock()

		task()
	})
	if err != nil {
		return errors.Wrapf(err, "schedule job %s (%s)", id, cronExpr)
	}

	s.jobs[id] = &JobInfo{ID: id, CronExpr: cronExpr, job: job}

	logger.Info("Scheduled job registered", "job_id", id, "cron", cronExpr, "next_run", job.NextRun().Format(time.RFC3339))
	return nil
}

func (s *GocronScheduler) RemoveJob(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, exists := s.jobs[id]
	if !exists {
		return errors.Newf("job %s not found", id)
	}

	if info.job != nil {
		s.scheduler.RemoveByReference(info.job)
	}
	delete(s.jobs, id)
	logger.Info("Scheduled job removed", "job_id", id)
	return nil
}

func (s *GocronScheduler) GetJob(id string) (*JobInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, exists := s.jobs[id]
	if !exists {
		return nil, false
	}
	return info.snapshot(), true
}

func (s *GocronScheduler) ListJobs() map[string]*JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make(map[string]*JobInfo, len(s.jobs))
	for id, info := range s.jobs {
		jobs[id] = info.snapshot()
	}
	return jobs
}
