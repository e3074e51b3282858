package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"gofiber-cms/pkg/logger"
)

// Task คืน error เพื่อให้ scheduler log ผลลัพธ์ให้
type Task func(ctx context.Context) error

type EventScheduler interface {
	Start()
	Stop()
	AddJob(id, cronExpr string, task Task) error
	RemoveJob(id string) error
	ListJobs() []JobInfo
	IsRunning() bool
}

type JobInfo struct {
	ID        string     `json:"id"`
	CronExpr  string     `json:"cron"`
	LastRun   *time.Time `json:"lastRun,omitempty"`
	LastError string     `json:"lastError,omitempty"`
	NextRun   *time.Time `json:"nextRun,omitempty"`
}

type jobEntry struct {
	info JobInfo
	job  *gocron.Job
}

type GocronScheduler struct {
	scheduler *gocron.Scheduler
	jobs      map[string]*jobEntry
	timeout   time.Duration
	mu        sync.RWMutex
	running   bool
}

// NewEventScheduler: job เดียวกันไม่รันซ้อนกัน (singleton mode)
func NewEventScheduler(timeout time.Duration) EventScheduler {
	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.SingletonModeAll()

	return &GocronScheduler{
		scheduler: scheduler,
		jobs:      make(map[string]*jobEntry),
		timeout:   timeout,
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
	logger.Info("Scheduler started", "jobs", len(s.jobs))
}

func (s *GocronScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.scheduler.Stop()
	s.running = false
	logger.Info("Scheduler stopped")
}

func (s *GocronScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

func (s *GocronScheduler) AddJob(id, cronExpr string, task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[id]; exists {
		return fmt.Errorf("job with ID %s already exists", id)
	}

	job, err := s.scheduler.Cron(cronExpr).Tag(id).Do(func() {
		s.run(id, task)
	})
	if err != nil {
		return fmt.Errorf("failed to create job %s: %w", id, err)
	}

	s.jobs[id] = &jobEntry{info: JobInfo{ID: id, CronExpr: cronExpr}, job: job}
	logger.Info("Job scheduled", "job_id", id, "cron", cronExpr)
	return nil
}

func (s *GocronScheduler) run(id string, task Task) {
	ctx := logger.ContextWithRequestID(context.Background(), "job-"+id)
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	logger.InfoContext(ctx, "Executing job", "job_id", id)
	err := task(ctx)

	s.mu.Lock()
	if entry, ok := s.jobs[id]; ok {
		entry.info.LastRun = &started
		entry.info.LastError = ""
		if err != nil {
			entry.info.LastError = err.Error()
		}
	}
	s.mu.Unlock()

	if err != nil {
		logger.ErrorContext(ctx, "Job failed", "job_id", id, "elapsed", time.Since(started), "error", err)
		return
	}
	logger.InfoContext(ctx, "Job finished", "job_id", id, "elapsed", time.Since(started))
}

func (s *GocronScheduler) RemoveJob(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[id]; !exists {
		return fmt.Errorf("job with ID %s not found", id)
	}
	if err := s.scheduler.RemoveByTag(id); err != nil {
		return fmt.Errorf("failed to remove job %s: %w", id, err)
	}
	delete(s.jobs, id)
	return nil
}

func (s *GocronScheduler) ListJobs() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]JobInfo, 0, len(s.jobs))
	for _, entry := range s.jobs {
		info := entry.info
		if entry.job != nil {
			if next := entry.job.NextRun(); !next.IsZero() {
				info.NextRun = &next
			}
		}
		out = append(out, info)
	}
	return out
}
