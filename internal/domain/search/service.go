package search

import (
	"context"
	"strings"

	"github.com/ziljnk/ai-job-seeker/internal/domain"
	"github.com/ziljnk/ai-job-seeker/internal/domain/query"
	"github.com/ziljnk/ai-job-seeker/internal/repository"
	"github.com/ziljnk/ai-job-seeker/pkg/logging"
)

// Service is the read-only paginated search over jobs and companies
type Service struct {
	resolver *query.Resolver
	logger   *logging.Logger
}

// NewService builds a Service on top of the record store
func NewService(store repository.Store, logger *logging.Logger) *Service {
	return &Service{
		resolver: query.NewResolver(store, logger.Named("resolver")),
		logger:   logger,
	}
}

// Jobs searches postings by free text
func (s *Service) Jobs(ctx context.Context, p Params) (domain.Page, error) {
	w := NewWindow(p.Page, p.Limit)
	s.logger.Debug("jobs search", "q", p.Q, "page", w.Page, "perPage", w.PerPage)

	res, err := s.resolver.Resolve(ctx, query.Jobs, query.Request{
		Text: p.Q,
		From: w.From(),
		To:   w.To(),
	})
	if err != nil {
		return domain.Page{}, err
	}

	return envelope(withCompanyInfo(res.Rows), w, res.Total), nil
}

// Companies searches companies by free text plus industry/location filters
func (s *Service) Companies(ctx context.Context, p CompanyParams) (domain.Page, error) {
	w := NewWindow(p.Page, p.Limit)
	s.logger.Debug("companies search", "q", p.Q, "industry", p.Industry, "location", p.Location, "page", w.Page)

	res, err := s.resolver.Resolve(ctx, query.Companies, query.Request{
		Text: p.Q,
		Filters: []repository.Predicate{
			repository.Contains("industry", strings.TrimSpace(p.Industry)),
			repository.Contains("location", strings.TrimSpace(p.Location)),
		},
		From: w.From(),
		To:   w.To(),
	})
	if err != nil {
		return domain.Page{}, err
	}

	return envelope(res.Rows, w, res.Total), nil
}

// CompanyJobs lists postings of one company, addressed by id or name
func (s *Service) CompanyJobs(ctx context.Context, key string, p Params) (domain.Page, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.Page{}, domain.NewValidationError("companyIdOrName",
			"'companyIdOrName' is required and must be a non-empty string.")
	}

	w := NewWindow(p.Page, p.Limit)
	s.logger.Debug("company jobs search", "key", key, "byID", query.IsIdentifier(key), "q", p.Q, "page", w.Page)

	res, err := s.resolver.Resolve(ctx, query.Jobs, query.Request{
		Key:   key,
		KeyOn: query.CompanyOfJob,
		Text:  p.Q,
		From:  w.From(),
		To:    w.To(),
	})
	if err != nil {
		return domain.Page{}, err
	}

	return envelope(withCompanyInfo(res.Rows), w, res.Total), nil
}

func envelope(rows []domain.Record, w Window, total int) domain.Page {
	return domain.Page{
		Data: rows,
		Meta: domain.NewPaginationMeta(w.Page, w.PerPage, total),
	}
}

// withCompanyInfo guarantees every job row carries the company projection,
// null when the row has no matching company.
func withCompanyInfo(rows []domain.Record) []domain.Record {
	for _, row := range rows {
		info, _ := row[domain.CompanyInfoKey].(map[string]any)
		if len(info) == 0 {
			row[domain.CompanyInfoKey] = nil
			continue
		}
		row[domain.CompanyInfoKey] = domain.ProjectCompany(info)
	}
	return rows
}
