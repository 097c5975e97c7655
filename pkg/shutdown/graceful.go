package shutdown

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/ziljnk/ai-job-seeker/pkg/logging"
)

type Stoppable interface {
	Shutdown(ctx context.Context) error
}

// Graceful waits for one of signals and shuts down each stoppable in order,
// all within timeout.
func Graceful(signals []os.Signal, timeout time.Duration, log *logging.Logger, stoppables ...Stoppable) {
	sigCtx, stop := signal.NotifyContext(context.Background(), signals...)
	defer stop()

	<-sigCtx.Done()
	log.Info("shutdown signal received")

	Stop(timeout, log, stoppables...)
}

// Stop shuts down stoppables in order without waiting for a signal
func Stop(timeout time.Duration, log *logging.Logger, stoppables ...Stoppable) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	failed := false
	for _, s := range stoppables {
		if err := s.Shutdown(ctx); err != nil {
			failed = true
			log.Warn("graceful shutdown step failed", "err", err)
		}
	}

	if failed {
		log.Warn("graceful shutdown completed with error")
	} else {
		log.Info("graceful shutdown completed successfully")
	}
}
