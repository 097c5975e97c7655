package toolkit

import (
	"fmt"
	"strings"
)

// Markdown renders the payload as chat transcript text
func (p Payload) Markdown() string {
	var b strings.Builder

	switch p.Kind {
	case PayloadPlaceholder, PayloadStatus:
		b.WriteString(p.Message)
	case PayloadError:
		fmt.Fprintf(&b, "**Error:** %s", p.Message)
	case PayloadJobCard:
		if p.Job != nil {
			writeJob(&b, *p.Job, true)
		}
	case PayloadJobList:
		writeMessage(&b, p.Message)
		if len(p.Jobs) == 0 {
			b.WriteString("_No jobs found._")
		}
		for i, job := range p.Jobs {
			if i > 0 {
				b.WriteString("\n")
			}
			writeJob(&b, job, false)
		}
	case PayloadCompanyCard:
		if p.Company != nil {
			writeCompany(&b, *p.Company)
		}
	case PayloadCompanyList:
		writeMessage(&b, p.Message)
		if len(p.Companies) == 0 {
			b.WriteString("_No companies found._")
		}
		for i, c := range p.Companies {
			if i > 0 {
				b.WriteString("\n")
			}
			writeCompany(&b, c)
		}
	case PayloadCompanyJobs:
		if p.Company != nil {
			writeCompany(&b, *p.Company)
			b.WriteString("\n")
		}
		if p.Meta != nil {
			fmt.Fprintf(&b, "%d open roles · page %d · %d per page\n\n", p.Meta.Total, p.Meta.Page, p.Meta.PerPage)
		}
		if len(p.Jobs) == 0 {
			b.WriteString("_No open roles._")
		}
		for _, job := range p.Jobs {
			fmt.Fprintf(&b, "- **%s**%s\n", job.Title, suffix(" · ", job.Location, job.Type, job.Salary))
		}
	case PayloadForm:
		writeMessage(&b, p.Message)
		if p.Form != nil {
			if p.Form.Prompt != "" {
				b.WriteString(p.Form.Prompt + "\n\n")
			}
			for _, f := range p.Form.Fields {
				mark := ""
				if f.Required {
					mark = " *"
				}
				value := "_empty_"
				if f.Value != nil {
					value = str(f.Value)
				}
				fmt.Fprintf(&b, "- %s%s: %s\n", f.Name, mark, value)
			}
		}
	default:
		b.WriteString(p.Message)
	}

	return strings.TrimRight(b.String(), "\n")
}

func writeMessage(b *strings.Builder, msg string) {
	if msg != "" {
		b.WriteString(msg + "\n\n")
	}
}

func writeJob(b *strings.Builder, job JobCard, full bool) {
	fmt.Fprintf(b, "### %s\n", job.Title)
	fmt.Fprintf(b, "%s%s\n", job.Company, suffix(" · ", job.Location, job.Type))

	if len(job.Labels) > 0 {
		fmt.Fprintf(b, "Labels: %s\n", strings.Join(job.Labels, ", "))
	}
	if job.Salary != "" {
		fmt.Fprintf(b, "Salary: %s\n", job.Salary)
	}

	var extras []string
	if job.Remote {
		extras = append(extras, "Work from anywhere")
	}
	if job.WorkAnytime {
		extras = append(extras, "Work anytime")
	}
	if job.HoursPerWeek != "" {
		extras = append(extras, job.HoursPerWeek+" hrs/week")
	}
	if len(extras) > 0 {
		b.WriteString(strings.Join(extras, " · ") + "\n")
	}
	if len(job.Skills) > 0 {
		fmt.Fprintf(b, "Skills: %s\n", strings.Join(job.Skills, ", "))
	}
	if job.Description != "" {
		b.WriteString("\n" + job.Description + "\n")
	}
	if job.URL != "" {
		fmt.Fprintf(b, "[Apply](%s)\n", job.URL)
	}

	if full && job.JD != "" {
		open := ""
		if job.JDExpanded {
			open = " open"
		}
		fmt.Fprintf(b, "\n<details%s><summary>Full job description</summary>\n\n%s\n\n</details>\n", open, job.JD)
	}
}

func writeCompany(b *strings.Builder, c CompanyCard) {
	fmt.Fprintf(b, "### %s\n", c.Name)
	if line := suffix("", c.Industry, c.Location, c.Size); line != "" {
		b.WriteString(line + "\n")
	}
	if c.Website != "" {
		fmt.Fprintf(b, "%s\n", c.Website)
	}
	if c.Description != "" {
		b.WriteString("\n" + c.Description + "\n")
	}
}

// suffix joins the non-empty parts with " · " behind lead
func suffix(lead string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return ""
	}
	return lead + strings.Join(kept, " · ")
}
