package search

import (
	"encoding/json"
	"math"
	"strings"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100

	maxPage = math.MaxInt32 / MaxPerPage
)

// Params are the common search inputs. Page and Limit accept whatever the
// caller sent (query string text, JSON numbers) and are normalized here.
type Params struct {
	Q     string
	Page  any
	Limit any
}

// CompanyParams adds the structured company filters
type CompanyParams struct {
	Params
	Industry string
	Location string
}

// Window is a normalized page request
type Window struct {
	Page    int
	PerPage int
}

// From is the zero-based index of the first row
func (w Window) From() int {
	return (w.Page - 1) * w.PerPage
}

// To is the zero-based inclusive index of the last row
func (w Window) To() int {
	return w.From() + w.PerPage - 1
}

// NewWindow normalizes raw page inputs
func NewWindow(page, limit any) Window {
	return Window{Page: NormalizePage(page), PerPage: NormalizePerPage(limit)}
}

// NormalizePage coerces page to an integer >= 1
func NormalizePage(v any) int {
	n, ok := toInt(v)
	if !ok || n <= 0 {
		return DefaultPage
	}
	if n > maxPage {
		return maxPage
	}
	return n
}

// NormalizePerPage coerces limit to an integer within [1, MaxPerPage]
func NormalizePerPage(v any) int {
	n, ok := toInt(v)
	if !ok || n <= 0 {
		return DefaultPerPage
	}
	if n > MaxPerPage {
		return MaxPerPage
	}
	return n
}

// toInt truncates numeric inputs. Strings are read like a query parameter:
// leading sign and digits, anything after is ignored.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return clampFloat(float64(n))
	case float32:
		return clampFloat(float64(n))
	case float64:
		return clampFloat(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return clampFloat(f)
	case string:
		return parseLeadingInt(n)
	default:
		return 0, false
	}
}

func clampFloat(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	f = math.Trunc(f)
	switch {
	case f > math.MaxInt32:
		return math.MaxInt32, true
	case f < math.MinInt32:
		return math.MinInt32, true
	}
	return int(f), true
}

func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	n, digits := 0, 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		if n < math.MaxInt32 {
			n = n*10 + int(r-'0')
		}
		digits++
	}
	if digits == 0 {
		return 0, false
	}

	if n > math.MaxInt32 {
		n = math.MaxInt32
	}
	if neg {
		n = -n
	}
	return n, true
}
