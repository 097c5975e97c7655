package toolkit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ziljnk/ai-job-seeker/internal/domain"
)

const (
	maxLabels = 3
	maxSkills = 6

	// descriptions up to this length start expanded
	jdExpandLimit = 1000

	unknownCompany = "Unknown company"
)

// JobCard is the display projection of a job row
type JobCard struct {
	ID           any          `json:"id,omitempty"`
	Title        string       `json:"title"`
	Company      string       `json:"company"`
	CompanyInfo  *CompanyCard `json:"companyInfo,omitempty"`
	Location     string       `json:"location,omitempty"`
	Type         string       `json:"type,omitempty"`
	Salary       string       `json:"salary,omitempty"`
	Description  string       `json:"description,omitempty"`
	Labels       []string     `json:"labels,omitempty"`
	Skills       []string     `json:"skills,omitempty"`
	Remote       bool         `json:"remote"`
	WorkAnytime  bool         `json:"workAnytime"`
	HoursPerWeek string       `json:"hoursPerWeek,omitempty"`
	URL          string       `json:"url,omitempty"`
	JD           string       `json:"jd,omitempty"`
	JDExpanded   bool         `json:"jdExpanded"`
}

// CompanyCard is the display projection of a company row
type CompanyCard struct {
	ID          any    `json:"id,omitempty"`
	Name        string `json:"name"`
	Website     string `json:"website,omitempty"`
	LogoURL     string `json:"logoUrl,omitempty"`
	Location    string `json:"location,omitempty"`
	Industry    string `json:"industry,omitempty"`
	Size        string `json:"size,omitempty"`
	Description string `json:"description,omitempty"`
}

// JobCardFrom projects a job row. Display attributes are read from the row
// first and from its metadata second.
func JobCardFrom(job domain.Record) JobCard {
	meta, _ := job["metadata"].(map[string]any)

	card := JobCard{
		ID:          job["id"],
		Title:       str(job["title"]),
		Company:     unknownCompany,
		Location:    str(job["location"]),
		Type:        str(job["type"]),
		Salary:      str(job["salary"]),
		Description: str(job["description"]),
		Labels:      firstN(stringList(job["labels"], meta["labels"]), maxLabels),
		Skills:      firstN(stringList(job["skills"], meta["skills"]), maxSkills),
		Remote:      flag(job["remote"], meta["remote"]),
		WorkAnytime: flag(job["work_anytime"], meta["work_anytime"]),
		URL:         str(firstPresent(job["url"], meta["url"])),
		JD:          str(job["jd"]),
	}
	card.JDExpanded = card.JD != "" && len(card.JD) <= jdExpandLimit

	if hpw := firstPresent(job["hours_per_week"], meta["hours_per_week"]); hpw != nil {
		card.HoursPerWeek = str(hpw)
	}

	switch c := job["company"].(type) {
	case string:
		if c != "" {
			card.Company = c
		}
	case map[string]any:
		if name := str(c["name"]); name != "" {
			card.Company = name
		}
	}

	info, _ := job[domain.CompanyInfoKey].(map[string]any)
	if info == nil {
		info, _ = job["company"].(map[string]any)
	}
	if info != nil {
		cc := CompanyCardFrom(info)
		card.CompanyInfo = &cc
		if card.Location == "" {
			card.Location = cc.Location
		}
	}

	return card
}

// CompanyCardFrom projects a company row
func CompanyCardFrom(c domain.Record) CompanyCard {
	return CompanyCard{
		ID:          c["id"],
		Name:        str(c["name"]),
		Website:     str(c["website"]),
		LogoURL:     str(c["logo_url"]),
		Location:    str(c["location"]),
		Industry:    str(c["industry"]),
		Size:        str(c["size"]),
		Description: str(c["description"]),
	}
}

// NormalizeList extracts a list of records from a bare array or from an
// object carrying it under one of keys. An object whose key holds another
// such object is unwrapped once more.
func NormalizeList(v any, keys ...string) ([]domain.Record, bool) {
	return normalizeList(v, keys, 2)
}

func normalizeList(v any, keys []string, depth int) ([]domain.Record, bool) {
	switch t := v.(type) {
	case []any:
		out := make([]domain.Record, 0, len(t))
		for _, item := range t {
			rec, ok := item.(map[string]any)
			if !ok {
				return nil, false
			}
			out = append(out, rec)
		}
		return out, true
	case []domain.Record:
		return t, true
	case map[string]any:
		if depth == 0 {
			return nil, false
		}
		for _, k := range keys {
			inner, ok := t[k]
			if !ok {
				continue
			}
			if list, ok := normalizeList(inner, keys, depth-1); ok {
				return list, true
			}
		}
	}
	return nil, false
}

// JobListKeys are the keys a job list may be wrapped under
var JobListKeys = []string{"jobs", "items", "data"}

// CompanyListKeys are the keys a company list may be wrapped under
var CompanyListKeys = []string{"companies", "items", "data"}

// MetaFrom reads pagination meta from a loosely typed value
func MetaFrom(v any) *domain.PaginationMeta {
	switch m := v.(type) {
	case domain.PaginationMeta:
		return &m
	case *domain.PaginationMeta:
		return m
	case map[string]any:
		page, ok1 := intOf(m["page"])
		perPage, ok2 := intOf(m["perPage"])
		total, ok3 := intOf(m["total"])
		if !ok1 && !ok2 && !ok3 {
			return nil
		}
		meta := domain.NewPaginationMeta(page, perPage, total)
		return &meta
	}
	return nil
}

func intOf(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	}
	return 0, false
}

func str(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func firstPresent(vals ...any) any {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

func flag(primary, fallback any) bool {
	if b, ok := primary.(bool); ok {
		return b
	}
	b, _ := fallback.(bool)
	return b
}

func stringList(primary, fallback any) []string {
	list, ok := primary.([]any)
	if !ok {
		list, _ = fallback.([]any)
	}

	out := make([]string, 0, len(list))
	for _, item := range list {
		if s := str(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func firstN(list []string, n int) []string {
	if len(list) > n {
		return list[:n]
	}
	return list
}
