package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/ziljnk/ai-job-seeker/internal/api"
	"github.com/ziljnk/ai-job-seeker/internal/config"
	"github.com/ziljnk/ai-job-seeker/internal/domain/auth"
	"github.com/ziljnk/ai-job-seeker/internal/domain/job"
	"github.com/ziljnk/ai-job-seeker/internal/domain/search"
	"github.com/ziljnk/ai-job-seeker/internal/events"
	"github.com/ziljnk/ai-job-seeker/internal/mcp"
	"github.com/ziljnk/ai-job-seeker/internal/mcp/tools"
	"github.com/ziljnk/ai-job-seeker/internal/repository"
	"github.com/ziljnk/ai-job-seeker/internal/scheduler"
	"github.com/ziljnk/ai-job-seeker/internal/storage/memory"
	neo4jstore "github.com/ziljnk/ai-job-seeker/internal/storage/neo4j"
	pgstore "github.com/ziljnk/ai-job-seeker/internal/storage/postgres"
	rediscache "github.com/ziljnk/ai-job-seeker/internal/storage/redis"
	"github.com/ziljnk/ai-job-seeker/internal/toolkit"
	"github.com/ziljnk/ai-job-seeker/pkg/logging"
	n4j "github.com/ziljnk/ai-job-seeker/pkg/neo4j"
	"github.com/ziljnk/ai-job-seeker/pkg/postgres"
	pkgredis "github.com/ziljnk/ai-job-seeker/pkg/redis"
	"github.com/ziljnk/ai-job-seeker/pkg/sheets"
)

// provideStore opens the configured backend and, when REDIS_URL is set,
// puts the search cache in front of it.
func provideStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (repository.Store, func(), error) {
	base, closeBase, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	if cfg.RedisURL == "" {
		return base, closeBase, nil
	}

	rdb, err := pkgredis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		closeBase()
		return nil, nil, err
	}
	logger.Info("search cache enabled", "ttl", cfg.SearchCacheTTL)

	cleanup := func() {
		if err := rdb.Close(); err != nil {
			logger.Warn("failed to close redis client", "err", err)
		}
		closeBase()
	}
	return rediscache.NewCachedStore(base, rdb, cfg.SearchCacheTTL, logger), cleanup, nil
}

func openBackend(ctx context.Context, cfg config.Config, logger *logging.Logger) (repository.Store, func(), error) {
	logger.Info("opening record store", "backend", cfg.StoreBackend)

	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, postgres.Config{URL: cfg.DatabaseURL})
		if err != nil {
			return nil, nil, err
		}
		return pgstore.NewStore(pool), pool.Close, nil

	case config.BackendNeo4j:
		client, err := n4j.NewClient(n4j.Config{
			URI:      cfg.Neo4j.URI,
			Username: cfg.Neo4j.Username,
			Password: cfg.Neo4j.Password,
		})
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := client.Close(context.Background()); err != nil {
				logger.Warn("failed to close neo4j driver", "err", err)
			}
		}
		return neo4jstore.NewStore(client), cleanup, nil

	case config.BackendMemory:
		return memory.New(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// provideEvents connects to the broker, or discards events without one
func provideEvents(cfg config.Config, logger *logging.Logger) (job.Events, func(), error) {
	if cfg.AMQP.URL == "" {
		return events.Noop{}, func() {}, nil
	}

	pub, err := events.NewPublisher(events.Config{URL: cfg.AMQP.URL, Exchange: cfg.AMQP.Exchange}, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := pub.Close(); err != nil {
			logger.Warn("failed to close event publisher", "err", err)
		}
	}
	return pub, cleanup, nil
}

func provideJobService(store repository.Store, ev job.Events, logger *logging.Logger) (*job.Service, error) {
	return job.NewService(store, logger, job.WithEvents(ev))
}

// provideSheetsExporter returns nil when no credentials are configured
func provideSheetsExporter(ctx context.Context, cfg config.Config) (tools.SheetsExporter, error) {
	if cfg.SheetsCredsPath == "" {
		return nil, nil
	}

	client, err := sheets.NewClient(ctx, sheets.Config{CredentialsPath: cfg.SheetsCredsPath})
	if err != nil {
		return nil, err
	}
	return mcp.NewSheetsExporter(client), nil
}

func provideRegistry(searchSvc *search.Service, jobSvc *job.Service, exporter tools.SheetsExporter, logger *logging.Logger) (*toolkit.Registry, error) {
	return tools.Register(logger,
		tools.WithJobSearch(searchSvc),
		tools.WithCompanySearch(searchSvc),
		tools.WithCompanyJobs(searchSvc),
		tools.WithCreateJob(jobSvc),
		tools.WithJobCreationForm(),
		tools.WithDisplayTools(),
		tools.WithSheetsExport(searchSvc, exporter),
	)
}

func provideManager(registry *toolkit.Registry, logger *logging.Logger) *toolkit.Manager {
	return toolkit.NewManager(registry, logger)
}

func provideVerifier(cfg config.Config) (auth.Verifier, error) {
	return auth.NewTokenVerifier(cfg.JWTSecret)
}

func provideRouter(searchSvc *search.Service, jobSvc *job.Service, verifier auth.Verifier, handler *mcp.Handler, logger *logging.Logger) *gin.Engine {
	return api.SetupRouter(&api.Dependencies{
		Search:   searchSvc,
		Jobs:     jobSvc,
		Verifier: verifier,
		MCP:      handler,
		Logger:   logger,
	})
}

func provideServer(cfg config.Config, router *gin.Engine, logger *logging.Logger) *Server {
	return NewServer(cfg, router, logger)
}

func provideScheduler(manager *toolkit.Manager, cfg config.Config, logger *logging.Logger) *scheduler.Scheduler {
	return scheduler.New(manager, cfg.PruneSpec, cfg.InvocationRetention, cfg.SessionIdleTimeout, logger)
}
