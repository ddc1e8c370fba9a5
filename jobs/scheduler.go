package jobs

import (
	"fmt"

	"github.com/fenilmodi00/neet-cutoff-backend/shared"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Job is a unit of scheduled work
type Job interface {
	Run()
}

// Scheduler runs jobs on cron specs such as "@every 10m" or "0 */15 * * * *"
type Scheduler struct {
	cron *cron.Cron
	jobs map[string]cron.EntryID
}

func NewScheduler() *Scheduler {
	c := cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	return &Scheduler{
		cron: c,
		jobs: make(map[string]cron.EntryID),
	}
}

// Register schedules job under name. An empty spec disables the job.
func (s *Scheduler) Register(name, spec string, job Job) error {
	if spec == "" {
		logrus.WithField("job", name).Info("Job disabled, no schedule configured")
		return nil
	}

	id, err := s.cron.AddFunc(spec, func() {
		logrus.WithField("job", name).Debug("Running scheduled job")
		job.Run()
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", spec, name, err)
	}

	s.jobs[name] = id
	logrus.WithFields(logrus.Fields{"job": name, "schedule": spec}).Info("Job registered")
	return nil
}

// RegisterCacheJobs wires the cleanup and warmup jobs with their configured schedules
func (s *Scheduler) RegisterCacheJobs(config shared.JobsConfig, cleanup *CacheCleanupJob, warmup *CacheWarmupJob) error {
	if err := s.Register("cache_cleanup", config.CacheCleanupSchedule, cleanup); err != nil {
		return err
	}
	return s.Register("cache_warmup", config.CacheWarmupSchedule, warmup)
}

// Registered reports whether a job with the given name is scheduled
func (s *Scheduler) Registered(name string) bool {
	_, ok := s.jobs[name]
	return ok
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logrus.WithField("jobs", len(s.jobs)).Info("Scheduler started")
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logrus.Info("Scheduler stopped")
}
