// Package scheduler runs periodic housekeeping for tool sessions.
package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ziljnk/ai-job-seeker/pkg/logging"
)

// DefaultSpec prunes every five minutes
const DefaultSpec = "@every 5m"

// Pruner drops finished invocations and idle sessions
type Pruner interface {
	Prune(retention, idle time.Duration) (invocations, sessions int)
	Len() int
}

// Scheduler wraps robfig/cron and manages the prune loop.
type Scheduler struct {
	cron      *cron.Cron
	pruner    Pruner
	spec      string
	retention time.Duration
	idle      time.Duration
	logger    *logging.Logger
}

// New creates a Scheduler firing on spec
func New(pruner Pruner, spec string, retention, idle time.Duration, logger *logging.Logger) *Scheduler {
	if spec == "" {
		spec = DefaultSpec
	}
	return &Scheduler{
		cron:      cron.New(cron.WithLogger(cron.DefaultLogger)),
		pruner:    pruner,
		spec:      spec,
		retention: retention,
		idle:      idle,
		logger:    logger,
	}
}

// Start registers the prune job and starts the cron loop
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.RunOnce); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "spec", s.spec)
	return nil
}

// Stop waits for a running prune to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// RunOnce prunes immediately
func (s *Scheduler) RunOnce() {
	invocations, sessions := s.pruner.Prune(s.retention, s.idle)
	if invocations > 0 || sessions > 0 {
		s.logger.Info("pruned tool state", "invocations", invocations, "sessions", sessions, "tracked", s.pruner.Len())
		return
	}
	s.logger.Debug("nothing to prune", "tracked", s.pruner.Len())
}
