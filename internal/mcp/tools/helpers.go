package tools

import (
	"fmt"
	"strings"

	"github.com/ziljnk/ai-job-seeker/internal/domain"
	"github.com/ziljnk/ai-job-seeker/internal/domain/search"
	"github.com/ziljnk/ai-job-seeker/internal/toolkit"
)

var pagingParams = []toolkit.Param{
	{Name: "page", Type: toolkit.TypeNumber, Description: "Page number (1-based). Default 1."},
	{Name: "limit", Type: toolkit.TypeNumber, Description: "Items per page (default 10, max 100)."},
}

func stringArg(args map[string]any, name string) string {
	s, _ := args[name].(string)
	return strings.TrimSpace(s)
}

func searchParams(args map[string]any) search.Params {
	return search.Params{
		Q:     stringArg(args, "q"),
		Page:  args["page"],
		Limit: args["limit"],
	}
}

// summary formats the chat line list returned next to search results
func summary(noun string, page domain.Page, line func(domain.Record) []any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d %s (showing %d).\n", page.Meta.Total, noun, len(page.Data))
	for i, row := range page.Data {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("• " + joinPresent(line(row)...))
	}
	return b.String()
}

func joinPresent(vals ...any) string {
	parts := make([]string, 0, len(vals))
	for _, v := range vals {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " — ")
}

func listResult(message, alias string, page domain.Page) map[string]any {
	return map[string]any{
		"message": message,
		"items":   page.Data,
		alias:     page.Data,
		"meta":    page.Meta,
	}
}
