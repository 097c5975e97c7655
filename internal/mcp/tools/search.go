package tools

import (
	"context"

	"github.com/ziljnk/ai-job-seeker/internal/domain"
	"github.com/ziljnk/ai-job-seeker/internal/domain/search"
	"github.com/ziljnk/ai-job-seeker/internal/toolkit"
)

// WithJobSearch registers the searchJobs tool
func WithJobSearch(svc Searcher) Option {
	return func(reg *registry) {
		logger := reg.logger.With("tool", "searchJobs")

		reg.add(toolkit.Declaration{
			Name:        "searchJobs",
			Description: "Search for jobs. Optional text query 'q' (matches title, description, location, type). Supports 'page' and 'limit'. Returns a concise list.",
			Params: append([]toolkit.Param{
				{Name: "q", Type: toolkit.TypeString, Description: "Free-text query; leave empty to fetch latest jobs."},
			}, pagingParams...),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				p := searchParams(args)
				logger.Debug("request received", "q", p.Q)

				page, err := svc.Jobs(ctx, p)
				if err != nil {
					return nil, err
				}

				logger.Debug("request completed", "rows", len(page.Data), "total", page.Meta.Total)
				return listResult(summary("jobs", page, jobLine), "jobs", page), nil
			},
			Render: renderJobResults,
		})
	}
}

// WithCompanySearch registers the searchCompanies tool
func WithCompanySearch(svc Searcher) Option {
	return func(reg *registry) {
		logger := reg.logger.With("tool", "searchCompanies")

		reg.add(toolkit.Declaration{
			Name:        "searchCompanies",
			Description: "Search for companies. Optional text query 'q' (matches name, description, industry, location). Supports 'industry', 'location', 'page', and 'limit'. Returns a concise list.",
			Params: append([]toolkit.Param{
				{Name: "q", Type: toolkit.TypeString, Description: "Free-text query across name, description, industry, location."},
				{Name: "industry", Type: toolkit.TypeString, Description: "Filter by industry (partial match)."},
				{Name: "location", Type: toolkit.TypeString, Description: "Filter by location (partial match)."},
			}, pagingParams...),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				p := search.CompanyParams{
					Params:   searchParams(args),
					Industry: stringArg(args, "industry"),
					Location: stringArg(args, "location"),
				}
				logger.Debug("request received", "q", p.Q, "industry", p.Industry, "location", p.Location)

				page, err := svc.Companies(ctx, p)
				if err != nil {
					return nil, err
				}

				return listResult(summary("companies", page, companyLine), "companies", page), nil
			},
			Render: renderCompanyResults,
		})
	}
}

// WithCompanyJobs registers the searchCompanyJobs tool
func WithCompanyJobs(svc Searcher) Option {
	return func(reg *registry) {
		logger := reg.logger.With("tool", "searchCompanyJobs")

		reg.add(toolkit.Declaration{
			Name:        "searchCompanyJobs",
			Description: "Search available jobs for a specific company. Provide 'companyIdOrName' (UUID or company name). Optional 'q', 'page', and 'limit'.",
			Params: append([]toolkit.Param{
				{Name: "companyIdOrName", Type: toolkit.TypeString, Required: true, Description: "Company UUID (preferred) or company name to match."},
				{Name: "q", Type: toolkit.TypeString, Description: "Free-text query across job title, description, location, type."},
			}, pagingParams...),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				key := stringArg(args, "companyIdOrName")
				logger.Debug("request received", "key", key)

				page, err := svc.CompanyJobs(ctx, key, searchParams(args))
				if err != nil {
					return nil, err
				}

				return listResult(summary("jobs", page, companyJobLine), "jobs", page), nil
			},
			Render: renderCompanyJobResults,
		})
	}
}

func jobLine(j domain.Record) []any {
	return []any{j["title"], j["company"], j["location"]}
}

func companyJobLine(j domain.Record) []any {
	company := j["company"]
	if s, _ := company.(string); s == "" {
		if info, ok := j[domain.CompanyInfoKey].(domain.Record); ok {
			company = info["name"]
		}
	}
	return []any{j["title"], company, j["location"]}
}

func companyLine(c domain.Record) []any {
	return []any{c["name"], c["industry"], c["location"]}
}

var renderJobResults = resultRenderer("Searching jobs…", func(result map[string]any) toolkit.Payload {
	return jobListPayload(result, result["meta"])
})

var renderCompanyJobResults = resultRenderer("Searching company jobs…", func(result map[string]any) toolkit.Payload {
	return companyJobsPayload(nil, result, result["meta"])
})

var renderCompanyResults = resultRenderer("Searching companies…", func(result map[string]any) toolkit.Payload {
	list, ok := toolkit.NormalizeList(result, toolkit.CompanyListKeys...)
	if !ok {
		return toolkit.ErrorPayload("Invalid companies payload.")
	}

	p := toolkit.Payload{
		Kind:      toolkit.PayloadCompanyList,
		Companies: make([]toolkit.CompanyCard, 0, len(list)),
		Meta:      toolkit.MetaFrom(result["meta"]),
	}
	for _, c := range list {
		p.Companies = append(p.Companies, toolkit.CompanyCardFrom(c))
	}
	return p
})

// resultRenderer covers the placeholder and failure states shared by tools
// whose result object drives the payload.
func resultRenderer(placeholder string, draw func(map[string]any) toolkit.Payload) toolkit.RenderFunc {
	return func(snap toolkit.Snapshot) toolkit.Payload {
		switch snap.Status {
		case toolkit.StatusInProgress, toolkit.StatusExecuting:
			return toolkit.Placeholder(placeholder)
		case toolkit.StatusComplete:
			if snap.Failed() {
				return toolkit.ErrorPayload(snap.Error)
			}
			result, ok := snap.Result.(map[string]any)
			if !ok {
				return toolkit.ErrorPayload("Invalid result payload.")
			}
			return draw(result)
		default:
			return toolkit.DefaultRender(snap)
		}
	}
}
