package toolkit

import (
	"fmt"

	"github.com/ziljnk/ai-job-seeker/internal/domain"
)

// PayloadKind names the visual component a payload is drawn with
type PayloadKind string

const (
	PayloadPlaceholder PayloadKind = "placeholder"
	PayloadJobCard     PayloadKind = "jobCard"
	PayloadJobList     PayloadKind = "jobList"
	PayloadCompanyCard PayloadKind = "companyCard"
	PayloadCompanyList PayloadKind = "companyList"
	PayloadCompanyJobs PayloadKind = "companyJobs"
	PayloadForm        PayloadKind = "form"
	PayloadStatus      PayloadKind = "status"
	PayloadError       PayloadKind = "error"
)

// Payload is the presentational form of an invocation state
type Payload struct {
	Kind      PayloadKind           `json:"kind"`
	Message   string                `json:"message,omitempty"`
	Job       *JobCard              `json:"job,omitempty"`
	Jobs      []JobCard             `json:"jobs,omitempty"`
	Company   *CompanyCard          `json:"company,omitempty"`
	Companies []CompanyCard         `json:"companies,omitempty"`
	Meta      *domain.PaginationMeta `json:"meta,omitempty"`
	Form      *Form                 `json:"form,omitempty"`
}

// Form is a pre-populated form awaiting a human
type Form struct {
	Prompt string      `json:"prompt,omitempty"`
	Fields []FormField `json:"fields"`
}

// FormField is one input of a Form
type FormField struct {
	Name     string    `json:"name"`
	Type     ParamType `json:"type"`
	Required bool      `json:"required"`
	Label    string    `json:"label,omitempty"`
	Value    any       `json:"value,omitempty"`
}

// Placeholder is drawn while a result is not available yet
func Placeholder(message string) Payload {
	return Payload{Kind: PayloadPlaceholder, Message: message}
}

// StatusMessage is a plain status line
func StatusMessage(message string) Payload {
	return Payload{Kind: PayloadStatus, Message: message}
}

// ErrorPayload reports something that could not be rendered or executed
func ErrorPayload(message string) Payload {
	return Payload{Kind: PayloadError, Message: message}
}

// Render draws snap with the tool's renderer. Tools without one get a
// generic status; a panicking renderer yields an error payload.
func Render(decl *Declaration, snap Snapshot) (p Payload) {
	defer func() {
		if r := recover(); r != nil {
			p = ErrorPayload(fmt.Sprintf("Failed to render %s: %v", snap.Tool, r))
		}
	}()

	if decl != nil && decl.Render != nil {
		return decl.Render(snap)
	}
	return DefaultRender(snap)
}

// DefaultRender switches over every status
func DefaultRender(snap Snapshot) Payload {
	switch snap.Status {
	case StatusInProgress, StatusExecuting:
		return Placeholder(fmt.Sprintf("Running %s…", snap.Tool))
	case StatusComplete:
		if snap.Failed() {
			return ErrorPayload(snap.Error)
		}
		return StatusMessage(fmt.Sprintf("%s finished.", snap.Tool))
	default:
		return ErrorPayload(fmt.Sprintf("unknown invocation status %q", snap.Status))
	}
}

// FormFor builds the human-facing form of a declaration, pre-populated from
// args.
func FormFor(decl *Declaration, args map[string]any) *Form {
	required := make(map[string]bool, len(decl.SubmitRequired))
	for _, name := range decl.SubmitRequired {
		required[name] = true
	}

	form := &Form{Prompt: decl.Prompt, Fields: make([]FormField, 0, len(decl.Params))}
	for _, p := range decl.Params {
		form.Fields = append(form.Fields, FormField{
			Name:     p.Name,
			Type:     p.Type,
			Required: p.Required || required[p.Name],
			Label:    p.Description,
			Value:    args[p.Name],
		})
	}
	return form
}
