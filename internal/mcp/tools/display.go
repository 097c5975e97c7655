package tools

import (
	"context"

	"github.com/ziljnk/ai-job-seeker/internal/domain"
	"github.com/ziljnk/ai-job-seeker/internal/toolkit"
)

// WithDisplayTools registers the render-only tools. Their handlers echo the
// arguments; rendering validates them.
func WithDisplayTools() Option {
	return func(reg *registry) {
		reg.add(toolkit.Declaration{
			Name:        "renderJobCard",
			Description: "Render a single job as a nice card in the chat UI.",
			Params: []toolkit.Param{
				{Name: "job", Type: toolkit.TypeAny, Required: true, Description: "A job object with title, company, location, type, salary, description, etc."},
			},
			Handler: echo("job"),
			Render: renderArgs("Loading job…", func(args map[string]any) toolkit.Payload {
				job, ok := args["job"].(map[string]any)
				if !ok {
					return toolkit.ErrorPayload("Invalid job payload.")
				}
				card := toolkit.JobCardFrom(job)
				return toolkit.Payload{Kind: toolkit.PayloadJobCard, Job: &card}
			}),
		})

		reg.add(toolkit.Declaration{
			Name:        "renderJobList",
			Description: "Render a list of jobs as cards in the chat UI.",
			Params: []toolkit.Param{
				{Name: "jobs", Type: toolkit.TypeAny, Required: true, Description: "Array of job objects. Use the output of the searchJobs tool."},
				{Name: "meta", Type: toolkit.TypeObject, Description: "Optional pagination meta from the search result."},
			},
			Handler: echo("jobs", "meta"),
			Render: renderArgs("Loading jobs…", func(args map[string]any) toolkit.Payload {
				return jobListPayload(args["jobs"], args["meta"])
			}),
		})

		reg.add(toolkit.Declaration{
			Name:        "renderCompanyCard",
			Description: "Render a single company's information as a card in the chat UI.",
			Params: []toolkit.Param{
				{Name: "company", Type: toolkit.TypeAny, Required: true, Description: "Company object with name, website, logo_url, location, industry, size, description."},
			},
			Handler: echo("company"),
			Render: renderArgs("Loading company…", func(args map[string]any) toolkit.Payload {
				company, ok := args["company"].(map[string]any)
				if !ok {
					return toolkit.ErrorPayload("Invalid company payload.")
				}
				card := toolkit.CompanyCardFrom(company)
				return toolkit.Payload{Kind: toolkit.PayloadCompanyCard, Company: &card}
			}),
		})

		reg.add(toolkit.Declaration{
			Name:        "renderCompanyJobs",
			Description: "Render a company's available jobs as a grouped block (company header + list of roles). Pass jobs from searchCompanyJobs and optionally the company info.",
			Params: []toolkit.Param{
				{Name: "company", Type: toolkit.TypeObject, Description: "Company object (optional). If omitted, will use jobs[0].company_info if present."},
				{Name: "jobs", Type: toolkit.TypeAny, Required: true, Description: "Array of job objects, e.g., items from searchCompanyJobs."},
				{Name: "meta", Type: toolkit.TypeObject, Description: "Optional pagination meta from the API (page, perPage, total, totalPages)."},
			},
			Handler: echo("company", "jobs", "meta"),
			Render: renderArgs("Loading company jobs…", func(args map[string]any) toolkit.Payload {
				company, _ := args["company"].(map[string]any)
				return companyJobsPayload(company, args["jobs"], args["meta"])
			}),
		})
	}
}

func echo(names ...string) toolkit.Handler {
	return func(_ context.Context, args map[string]any) (any, error) {
		out := make(map[string]any, len(names))
		for _, name := range names {
			if v, ok := args[name]; ok {
				out[name] = v
			}
		}
		return out, nil
	}
}

// renderArgs draws from the arguments once they are final
func renderArgs(placeholder string, draw func(map[string]any) toolkit.Payload) toolkit.RenderFunc {
	return func(snap toolkit.Snapshot) toolkit.Payload {
		switch snap.Status {
		case toolkit.StatusInProgress:
			return toolkit.Placeholder(placeholder)
		case toolkit.StatusExecuting:
			return draw(snap.Args)
		case toolkit.StatusComplete:
			if snap.Failed() {
				return toolkit.ErrorPayload(snap.Error)
			}
			return draw(snap.Args)
		default:
			return toolkit.DefaultRender(snap)
		}
	}
}

func jobListPayload(jobs, meta any) toolkit.Payload {
	list, ok := toolkit.NormalizeList(jobs, toolkit.JobListKeys...)
	if !ok {
		return toolkit.ErrorPayload("Invalid jobs payload.")
	}

	return toolkit.Payload{
		Kind: toolkit.PayloadJobList,
		Jobs: jobCards(list),
		Meta: toolkit.MetaFrom(meta),
	}
}

func companyJobsPayload(company domain.Record, jobs, meta any) toolkit.Payload {
	list, ok := toolkit.NormalizeList(jobs, toolkit.JobListKeys...)
	if !ok {
		return toolkit.ErrorPayload("Invalid jobs payload.")
	}

	if company == nil && len(list) > 0 {
		company, _ = list[0][domain.CompanyInfoKey].(map[string]any)
	}

	p := toolkit.Payload{
		Kind: toolkit.PayloadCompanyJobs,
		Jobs: jobCards(list),
		Meta: toolkit.MetaFrom(meta),
	}
	if company != nil {
		card := toolkit.CompanyCardFrom(company)
		p.Company = &card
	}
	return p
}

func jobCards(list []domain.Record) []toolkit.JobCard {
	cards := make([]toolkit.JobCard, 0, len(list))
	for _, job := range list {
		cards = append(cards, toolkit.JobCardFrom(job))
	}
	return cards
}
