package tools

import (
	"context"
	"fmt"

	"github.com/ziljnk/ai-job-seeker/internal/domain"
	"github.com/ziljnk/ai-job-seeker/internal/toolkit"
)

const companyNotSpecified = "(company not specified)"

// WithCreateJob registers the recruiter-only createJob tool
func WithCreateJob(svc Creator) Option {
	return func(reg *registry) {
		logger := reg.logger.With("tool", "createJob")

		reg.add(toolkit.Declaration{
			Name:         "createJob",
			Description:  "Create a new job (recruiter only). Provide at least a non-empty 'title'. Optional: description, location, company, type, salary, metadata, jd.",
			RequiredRole: domain.RoleRecruiter,
			Params: []toolkit.Param{
				{Name: "title", Type: toolkit.TypeString, Required: true, Description: "Job title"},
				{Name: "description", Type: toolkit.TypeString, Description: "Job description"},
				{Name: "location", Type: toolkit.TypeString, Description: "Location (e.g., Remote, City, Country)"},
				{Name: "company", Type: toolkit.TypeString, Description: "Company name"},
				{Name: "type", Type: toolkit.TypeString, Description: "Employment type (e.g., full-time, contract)"},
				{Name: "salary", Type: toolkit.TypeStringOrNumber, Description: "Salary range or amount"},
				{Name: "metadata", Type: toolkit.TypeObject, Description: "Arbitrary JSON metadata for the job"},
				{Name: "jd", Type: toolkit.TypeString, Description: "Full job description in markdown"},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				job, err := svc.Create(ctx, args)
				if err != nil {
					return nil, err
				}

				logger.Info("job created", "id", job["id"])
				return map[string]any{
					"message": createdMessage(job),
					"job":     job,
				}, nil
			},
			Render: resultRenderer("Creating job…", func(result map[string]any) toolkit.Payload {
				job, ok := result["job"].(map[string]any)
				if !ok {
					return toolkit.ErrorPayload("Invalid job payload.")
				}
				card := toolkit.JobCardFrom(job)
				msg, _ := result["message"].(string)
				return toolkit.Payload{Kind: toolkit.PayloadJobCard, Message: msg, Job: &card}
			}),
		})
	}
}

func createdMessage(job domain.Record) string {
	company, _ := job["company"].(string)
	if company == "" {
		company = companyNotSpecified
	}
	return fmt.Sprintf("Job created: %s at %s.", job["title"], company)
}

// WithJobCreationForm registers the human-in-the-loop job form. The
// submitted values are returned to the agent, which then calls createJob.
func WithJobCreationForm() Option {
	return func(reg *registry) {
		decl := jobForm()
		decl.Render = renderJobForm
		reg.add(decl)
	}
}

func jobForm() toolkit.Declaration {
	return toolkit.Declaration{
		Name:        "jobCreationForm",
		Description: "Render a form to collect missing fields when the user wants to create a job. After submission, continue by calling the createJob tool with the returned values.",
		Kind:        toolkit.KindHumanInTheLoop,
		Params: []toolkit.Param{
			{Name: "title", Type: toolkit.TypeString, Description: "Job title (required to create)"},
			{Name: "company", Type: toolkit.TypeString, Description: "Company name"},
			{Name: "location", Type: toolkit.TypeString, Description: "Location (e.g., Remote, City, Country)"},
			{Name: "type", Type: toolkit.TypeString, Description: "Employment type (e.g., full-time, contract)"},
			{Name: "salary", Type: toolkit.TypeStringOrNumber, Description: "Salary range or amount"},
			{Name: "description", Type: toolkit.TypeString, Description: "Short description for the listing"},
			{Name: "jd", Type: toolkit.TypeString, Description: "Full job description / responsibilities"},
		},
		SubmitRequired: []string{"title"},
		Prompt:         "Fill out the details below. After you submit, I will create the job with these values.",
	}
}

func renderJobForm(snap toolkit.Snapshot) toolkit.Payload {
	switch snap.Status {
	case toolkit.StatusInProgress:
		return toolkit.Placeholder("Preparing job form…")
	case toolkit.StatusExecuting:
		form := jobForm()
		return toolkit.Payload{
			Kind:    toolkit.PayloadForm,
			Message: "Create a Job",
			Form:    toolkit.FormFor(&form, snap.Args),
		}
	case toolkit.StatusComplete:
		if snap.Failed() {
			return toolkit.ErrorPayload(snap.Error)
		}
		if result, _ := snap.Result.(map[string]any); result["cancelled"] == true {
			return toolkit.StatusMessage("Cancelled")
		}
		return toolkit.StatusMessage("Submitted job details.")
	default:
		return toolkit.DefaultRender(snap)
	}
}
