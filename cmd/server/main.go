package main

import (
	"context"
	"log"
	"os"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ziljnk/ai-job-seeker/internal/app"
	"github.com/ziljnk/ai-job-seeker/internal/config"
	"github.com/ziljnk/ai-job-seeker/pkg/logging"
	"github.com/ziljnk/ai-job-seeker/pkg/shutdown"
)

func main() {
	// a missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	a, cleanup, err := app.InitializeApp(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", "err", err)
		os.Exit(1)
	}
	defer cleanup()

	go shutdown.Graceful(
		[]os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP},
		10*time.Second,
		logger,
		a,
	)

	logger.Info("server initialized and starting", "backend", cfg.StoreBackend)

	if err := a.Run(); err != nil {
		logger.Error("server exited with error", "err", err)
	} else {
		logger.Info("server stopped")
	}
}
