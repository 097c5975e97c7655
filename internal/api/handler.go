package api

import (
	"context"
	"net/http"

	"github.com/ziljnk/ai-job-seeker/internal/domain"
	"github.com/ziljnk/ai-job-seeker/internal/domain/auth"
	"github.com/ziljnk/ai-job-seeker/internal/domain/search"
	"github.com/ziljnk/ai-job-seeker/pkg/logging"
)

// Searcher runs the paginated searches
type Searcher interface {
	Jobs(ctx context.Context, p search.Params) (domain.Page, error)
	Companies(ctx context.Context, p search.CompanyParams) (domain.Page, error)
	CompanyJobs(ctx context.Context, key string, p search.Params) (domain.Page, error)
}

// Creator creates job postings
type Creator interface {
	Create(ctx context.Context, input map[string]any) (domain.Record, error)
}

// Dependencies are what the router and handlers need
type Dependencies struct {
	Search   Searcher
	Jobs     Creator
	Verifier auth.Verifier
	MCP      http.Handler
	Logger   *logging.Logger
}

// Handler serves the REST endpoints
type Handler struct {
	search Searcher
	jobs   Creator
	logger *logging.Logger
}

// NewHandler creates a Handler from deps
func NewHandler(deps *Dependencies) *Handler {
	return &Handler{
		search: deps.Search,
		jobs:   deps.Jobs,
		logger: deps.Logger,
	}
}
