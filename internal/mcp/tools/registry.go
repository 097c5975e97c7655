// Package tools declares the agent-facing tools: job and company search, job
// creation, the human-in-the-loop creation form, render-only display tools
// and the spreadsheet export.
package tools

import (
	"context"

	"github.com/ziljnk/ai-job-seeker/internal/domain"
	"github.com/ziljnk/ai-job-seeker/internal/domain/search"
	"github.com/ziljnk/ai-job-seeker/internal/toolkit"
	"github.com/ziljnk/ai-job-seeker/pkg/logging"
)

// Searcher is the read-only search service the search tools call
type Searcher interface {
	Jobs(ctx context.Context, p search.Params) (domain.Page, error)
	Companies(ctx context.Context, p search.CompanyParams) (domain.Page, error)
	CompanyJobs(ctx context.Context, key string, p search.Params) (domain.Page, error)
}

// Creator creates job postings
type Creator interface {
	Create(ctx context.Context, input map[string]any) (domain.Record, error)
}

// Option configures which tools are registered
type Option func(*registry)

type registry struct {
	decls  []toolkit.Declaration
	logger *logging.Logger
}

func (r *registry) add(decl toolkit.Declaration) {
	r.decls = append(r.decls, decl)
}

// Register applies the provided tool options and builds the registry
func Register(logger *logging.Logger, opts ...Option) (*toolkit.Registry, error) {
	reg := &registry{logger: logger}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(reg)
	}

	return toolkit.NewRegistry(reg.decls...)
}
