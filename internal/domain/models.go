package domain

import "math"

// Record is a single row as returned by the record store. Columns may be
// missing depending on the deployed schema, so rows stay loosely typed.
type Record = map[string]any

// Collection names understood by the record store
const (
	CollectionJobs      = "jobs"
	CollectionCompanies = "companies"
)

// CompanyInfoKey is the key under which job rows carry their joined company
const CompanyInfoKey = "company_info"

// CompanyInfoFields is the company projection embedded on job rows
var CompanyInfoFields = []string{
	"id",
	"name",
	"website",
	"logo_url",
	"location",
	"industry",
	"size",
	"description",
}

// Role is the normalized account role of an identity
type Role string

const (
	RoleRecruiter Role = "recruiter"
	RoleEmployee  Role = "employee"
)

// Identity is the provider-independent view of the caller
type Identity struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// Job is a posting as accepted for creation
type Job struct {
	Title       string         `json:"title" validate:"required"`
	Description *string        `json:"description"`
	Location    *string        `json:"location"`
	Company     *string        `json:"company"`
	Type        *string        `json:"type"`
	Salary      any            `json:"salary"`
	Metadata    map[string]any `json:"metadata"`
	JD          *string        `json:"jd"`
	CreatedBy   string         `json:"created_by" validate:"required"`
}

// Values returns the insert payload for the job. Absent optional fields are
// stored as explicit nulls.
func (j Job) Values() Record {
	var metadata any
	if j.Metadata != nil {
		metadata = j.Metadata
	}

	return Record{
		"title":       j.Title,
		"description": derefOrNil(j.Description),
		"location":    derefOrNil(j.Location),
		"company":     derefOrNil(j.Company),
		"type":        derefOrNil(j.Type),
		"salary":      j.Salary,
		"metadata":    metadata,
		"jd":          derefOrNil(j.JD),
		"created_by":  j.CreatedBy,
	}
}

// PaginationMeta describes the page window of a search result
type PaginationMeta struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"perPage"`
	Total      int  `json:"total"`
	TotalPages *int `json:"totalPages"`
}

// NewPaginationMeta builds meta for a page; totalPages is nil when there are
// no rows at all.
func NewPaginationMeta(page, perPage, total int) PaginationMeta {
	meta := PaginationMeta{Page: page, PerPage: perPage, Total: total}
	if total > 0 && perPage > 0 {
		pages := int(math.Ceil(float64(total) / float64(perPage)))
		meta.TotalPages = &pages
	}
	return meta
}

// Page is the uniform search envelope
type Page struct {
	Data []Record      `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// ProjectCompany reduces a company row to the fields embedded on job rows
func ProjectCompany(row Record) Record {
	if row == nil {
		return nil
	}

	out := make(Record, len(CompanyInfoFields))
	for _, field := range CompanyInfoFields {
		if v, ok := row[field]; ok {
			out[field] = v
		}
	}
	return out
}

func derefOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
