package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/thedirecttree/directory-gateway/internal/session"
)

// sessionPruneSchedule runs the token store cleanup at minute 5 of every hour
const sessionPruneSchedule = "0 5 * * * *"

// jobTimeout bounds a single scheduled run
const jobTimeout = 2 * time.Minute

// SweepRecorder counts checkouts the sweep marked abandoned
type SweepRecorder interface {
	AddSwept(n int64)
}

// CronService manages scheduled background jobs
type CronService struct {
	cron          *cron.Cron
	checkouts     *CheckoutService
	pruner        session.Pruner
	recorder      SweepRecorder
	sweepSchedule string
	logger        *logrus.Logger
}

// NewCronService creates a new CronService. pruner may be nil when the
// token store expires entries itself.
func NewCronService(checkouts *CheckoutService, pruner session.Pruner, sweepSchedule string, logger *logrus.Logger) *CronService {
	// Cron format: second minute hour day month weekday
	c := cron.New(cron.WithSeconds())

	return &CronService{
		cron:          c,
		checkouts:     checkouts,
		pruner:        pruner,
		sweepSchedule: sweepSchedule,
		logger:        logger,
	}
}

// SetSweepRecorder installs a recorder for sweep results. Call before Start.
func (s *CronService) SetSweepRecorder(r SweepRecorder) {
	s.recorder = r
}

// Start schedules the jobs and starts the scheduler
func (s *CronService) Start() error {
	s.logger.Info("Starting cron service...")

	if _, err := s.cron.AddFunc(s.sweepSchedule, s.sweepAbandonedCheckoutsJob); err != nil {
		return fmt.Errorf("failed to schedule checkout sweep job: %w", err)
	}
	s.logger.WithField("schedule", s.sweepSchedule).Info("Scheduled: sweep abandoned checkouts")

	if s.pruner != nil {
		if _, err := s.cron.AddFunc(sessionPruneSchedule, s.pruneSessionsJob); err != nil {
			return fmt.Errorf("failed to schedule session prune job: %w", err)
		}
		s.logger.WithField("schedule", sessionPruneSchedule).Info("Scheduled: prune expired session tokens")
	}

	s.cron.Start()
	s.logger.Info("Cron service started")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	s.logger.Info("Stopping cron service...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron service stopped")
}

func (s *CronService) sweepAbandonedCheckoutsJob() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	n, err := s.checkouts.SweepAbandoned(ctx)
	if err != nil {
		s.logger.WithError(err).Error("[CRON] Checkout sweep failed")
		return
	}
	if s.recorder != nil {
		s.recorder.AddSwept(n)
	}
	s.logger.WithFields(logrus.Fields{
		"abandoned": n,
		"duration":  time.Since(start).String(),
	}).Info("[CRON] Checkout sweep finished")
}

func (s *CronService) pruneSessionsJob() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.pruner.Prune(ctx)
	if err != nil {
		s.logger.WithError(err).Error("[CRON] Session prune failed")
		return
	}
	if n > 0 {
		s.logger.WithField("removed", n).Info("[CRON] Pruned expired session tokens")
	}
}

// RunSweepNow runs the checkout sweep immediately
func (s *CronService) RunSweepNow() {
	s.logger.Info("[MANUAL] Running checkout sweep now...")
	s.sweepAbandonedCheckoutsJob()
}

// GetJobStatus returns the status of scheduled jobs
func (s *CronService) GetJobStatus() map[string]interface{} {
	entries := s.cron.Entries()

	jobs := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		jobs = append(jobs, map[string]interface{}{
			"id":       entry.ID,
			"next_run": entry.Next,
			"prev_run": entry.Prev,
		})
	}

	return map[string]interface{}{
		"running":   len(entries) > 0,
		"job_count": len(entries),
		"jobs":      jobs,
	}
}
