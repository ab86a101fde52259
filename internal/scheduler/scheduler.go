package scheduler

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const disabledTokenTTL = 30 * 24 * time.Hour

// Store is the maintenance surface the sweeps run against.
type Store interface {
	CloseExpiredJobs(ctx context.Context, now time.Time) (int64, error)
	PurgeNotifications(ctx context.Context, cutoff time.Time) (int64, error)
	PurgeDisabledTokens(ctx context.Context, cutoff time.Time) (int64, error)
}

// Task is one periodic sweep. It returns how many rows it touched.
type Task func(ctx context.Context, now time.Time) (int64, error)

type Scheduler struct {
	jobs   map[string]*Job // job name -> job
	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	now    func() time.Time
}

type Job struct {
	name     string
	interval time.Duration
	task     Task
	ticker   *time.Ticker
	cancel   context.CancelFunc
	lastRun  time.Time
	lastErr  error
}

func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		jobs:   make(map[string]*Job),
		ctx:    ctx,
		cancel: cancel,
		now:    time.Now,
	}
}

// Sweeps registers the standard maintenance jobs: closing open jobs past their
// deadline, purging notifications older than retention, and deleting push
// tokens that have been disabled for 30 days.
func (s *Scheduler) Sweeps(store Store, jobInterval, purgeInterval, retention time.Duration) {
	s.AddJob("close-expired-jobs", jobInterval, func(ctx context.Context, now time.Time) (int64, error) {
		return store.CloseExpiredJobs(ctx, now)
	})
	s.AddJob("purge-notifications", purgeInterval, func(ctx context.Context, now time.Time) (int64, error) {
		return store.PurgeNotifications(ctx, now.Add(-retention))
	})
	s.AddJob("purge-disabled-tokens", purgeInterval, func(ctx context.Context, now time.Time) (int64, error) {
		return store.PurgeDisabledTokens(ctx, now.Add(-disabledTokenTTL))
	})
}

// Stop cancels every job and waits for running sweeps to return.
func (s *Scheduler) Stop() {
	log.Println("Stopping scheduler...")
	s.cancel()

	s.mu.Lock()
	for _, job := range s.jobs {
		job.ticker.Stop()
		job.cancel()
	}
	s.jobs = make(map[string]*Job)
	s.mu.Unlock()

	s.wg.Wait()
	log.Println("Scheduler stopped")
}

// AddJob runs task once immediately and then every interval. A job with the
// same name is replaced. Non-positive intervals disable the job.
func (s *Scheduler) AddJob(name string, interval time.Duration, task Task) {
	if interval <= 0 {
		log.Printf("Job %s disabled (interval %v)", name, interval)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx.Err() != nil {
		return
	}

	if existing, exists := s.jobs[name]; exists {
		existing.ticker.Stop()
		existing.cancel()
	}

	jobCtx, jobCancel := context.WithCancel(s.ctx)
	job := &Job{
		name:     name,
		interval: interval,
		task:     task,
		ticker:   time.NewTicker(interval),
		cancel:   jobCancel,
	}
	s.jobs[name] = job

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.execute(jobCtx, job)
		s.run(jobCtx, job)
	}()

	log.Printf("Added job %s every %v", name, interval)
}

func (s *Scheduler) run(ctx context.Context, job *Job) {
	defer job.ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-job.ticker.C:
			s.execute(ctx, job)
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, job *Job) {
	if ctx.Err() != nil {
		return
	}

	start := s.now()
	n, err := job.task(ctx, start)

	s.mu.Lock()
	job.lastRun = start
	job.lastErr = err
	s.mu.Unlock()

	if err != nil {
		log.WithField("job", job.name).Errorf("Scheduled job failed: %v", err)
		return
	}

	if n > 0 {
		log.WithField("job", job.name).Printf("Scheduled job affected %d rows in %v", n, time.Since(start))
	}
}

// GetStatus returns the registered jobs and whether the scheduler is running.
func (s *Scheduler) GetStatus() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make(map[string]interface{}, len(s.jobs))
	for name, job := range s.jobs {
		status := map[string]interface{}{
			"interval": job.interval.String(),
			"last_run": job.lastRun,
		}
		if job.lastErr != nil {
			status["last_error"] = job.lastErr.Error()
		}
		jobs[name] = status
	}

	return map[string]interface{}{
		"active_jobs": len(s.jobs),
		"jobs":        jobs,
		"running":     s.ctx.Err() == nil,
	}
}
