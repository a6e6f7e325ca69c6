package cron_feature

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"coin-admin/internal/config"
	"coin-admin/internal/features/listing"
	"coin-admin/internal/features/session"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var ErrJobNotFound = errors.New("cron job not found")

type CronService interface {
	ListJobs() []JobInfo
	ExecuteJob(ctx context.Context, name string) (*JobRun, error)
	InitializeScheduler(ctx context.Context) error
	StopScheduler() error
}

type CronServiceImpl struct {
	jobs   map[string]Job
	logger *zap.Logger

	scheduler  *cron.Cron
	jobEntries map[string]cron.EntryID
	lastRuns   map[string]*JobRun
	mu         sync.RWMutex
}

// NewCronService registers the console housekeeping jobs: expired sessions
// and idle list controllers are swept on cfg.SweepSchedule.
func NewCronService(cfg *config.Config, store *session.Store, registry *listing.Registry, logger *zap.Logger) CronService {
	return NewCronServiceWithJobs(logger,
		Job{
			Name:     JobSweepSessions,
			Schedule: cfg.SweepSchedule,
			Run:      store.Sweep,
		},
		Job{
			Name:     JobSweepLists,
			Schedule: cfg.SweepSchedule,
			Run: func(ctx context.Context) (int, error) {
				return registry.Sweep(), nil
			},
		},
	)
}

func NewCronServiceWithJobs(logger *zap.Logger, jobs ...Job) *CronServiceImpl {
	s := &CronServiceImpl{
		jobs:       make(map[string]Job, len(jobs)),
		logger:     logger,
		jobEntries: make(map[string]cron.EntryID),
		lastRuns:   make(map[string]*JobRun),
	}
	for _, j := range jobs {
		s.jobs[j.Name] = j
	}
	return s
}

func (s *CronServiceImpl) ListJobs() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]JobInfo, 0, len(s.jobs))
	for name, job := range s.jobs {
		info := JobInfo{Name: name, Schedule: job.Schedule}
		if schedule, err := cron.ParseStandard(job.Schedule); err == nil {
			next := schedule.Next(time.Now())
			info.NextRun = &next
		}
		if run, ok := s.lastRuns[name]; ok {
			r := *run
			info.LastRun = &r
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *CronServiceImpl) ExecuteJob(ctx context.Context, name string) (*JobRun, error) {
	s.mu.RLock()
	job, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrJobNotFound
	}
	return s.execute(ctx, job), nil
}

func (s *CronServiceImpl) execute(ctx context.Context, job Job) *JobRun {
	run := &JobRun{
		JobName:   job.Name,
		Status:    RunStatusRunning,
		StartTime: time.Now(),
	}

	affected, err := job.Run(ctx)

	end := time.Now()
	run.EndTime = &end
	run.RecordsAffected = affected
	if err != nil {
		run.Status = RunStatusFailed
		run.Error = err.Error()
		s.logger.Error("Cron job failed", zap.String("job", job.Name), zap.Error(err))
	} else {
		run.Status = RunStatusSuccess
		if affected > 0 {
			s.logger.Info("Cron job finished", zap.String("job", job.Name), zap.Int("affected", affected))
		}
	}

	s.mu.Lock()
	s.lastRuns[job.Name] = run
	s.mu.Unlock()

	r := *run
	return &r
}

func (s *CronServiceImpl) InitializeScheduler(ctx context.Context) error {
	s.logger.Info("Initializing cron scheduler", zap.Int("jobs", len(s.jobs)))

	s.mu.Lock()
	defer s.mu.Unlock()

	s.scheduler = cron.New()
	for name, job := range s.jobs {
		job := job
		entryID, err := s.scheduler.AddFunc(job.Schedule, func() {
			s.execute(context.Background(), job)
		})
		if err != nil {
			return fmt.Errorf("failed to add cron job %s to scheduler: %w", name, err)
		}
		s.jobEntries[name] = entryID
	}

	s.scheduler.Start()
	return nil
}

func (s *CronServiceImpl) StopScheduler() error {
	s.mu.RLock()
	scheduler := s.scheduler
	s.mu.RUnlock()

	if scheduler != nil {
		ctx := scheduler.Stop()
		<-ctx.Done()
	}
	return nil
}
