// Package app assembles the server from configuration.
package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/ziljnk/ai-job-seeker/internal/scheduler"
	"github.com/ziljnk/ai-job-seeker/pkg/logging"
)

// App owns the HTTP server and the background prune loop
type App struct {
	server    *Server
	scheduler *scheduler.Scheduler
	logger    *logging.Logger

	stopOnce sync.Once
	stopped  chan struct{}
}

func newApp(server *Server, sched *scheduler.Scheduler, logger *logging.Logger) *App {
	return &App{
		server:    server,
		scheduler: sched,
		logger:    logger,
		stopped:   make(chan struct{}),
	}
}

// Run starts the scheduler and serves until Shutdown has finished
func (a *App) Run() error {
	if err := a.scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	if err := a.server.Run(); err != nil {
		a.scheduler.Stop()
		return err
	}

	<-a.stopped
	return nil
}

// Shutdown drains the HTTP server and stops the scheduler
func (a *App) Shutdown(ctx context.Context) error {
	defer a.stopOnce.Do(func() { close(a.stopped) })

	err := a.server.Shutdown(ctx)
	a.scheduler.Stop()
	return err
}
