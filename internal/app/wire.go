//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"

	"github.com/ziljnk/ai-job-seeker/internal/config"
	"github.com/ziljnk/ai-job-seeker/internal/domain/search"
	"github.com/ziljnk/ai-job-seeker/internal/mcp"
	"github.com/ziljnk/ai-job-seeker/pkg/logging"
)

// InitializeApp wires the server from cfg. The returned cleanup closes the
// store, cache and broker connections.
func InitializeApp(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, func(), error) {
	wire.Build(
		// Infrastructure
		provideStore,
		provideEvents,
		provideSheetsExporter,

		// Services
		search.NewService,
		provideJobService,
		provideVerifier,

		// Tools and transport
		provideRegistry,
		provideManager,
		mcp.NewHandler,
		provideRouter,
		provideServer,
		provideScheduler,

		newApp,
	)

	return &App{}, nil, nil
}
