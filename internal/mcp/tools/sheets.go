package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/ziljnk/ai-job-seeker/internal/domain"
	"github.com/ziljnk/ai-job-seeker/internal/toolkit"
)

// SheetRow is one exported job
type SheetRow struct {
	Title     string `json:"title"`
	Company   string `json:"company,omitempty"`
	Location  string `json:"location,omitempty"`
	Type      string `json:"type,omitempty"`
	Salary    string `json:"salary,omitempty"`
	URL       string `json:"url,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// SheetsExportParams describes where and what to write
type SheetsExportParams struct {
	SpreadsheetID string
	Tab           string
	ClearTab      bool
	Rows          []SheetRow
}

// SheetsExportResult describes the summary returned after export
type SheetsExportResult struct {
	SpreadsheetID string    `json:"spreadsheet_id"`
	Tab           string    `json:"tab,omitempty"`
	WrittenRows   int       `json:"written_rows"`
	CompletedAt   time.Time `json:"completed_at"`
	Message       string    `json:"message,omitempty"`
}

// SheetsExporter writes rows to a spreadsheet
type SheetsExporter interface {
	Export(ctx context.Context, params SheetsExportParams) (SheetsExportResult, error)
}

// WithSheetsExport registers the exportJobs tool. A nil exporter leaves the
// tool out.
func WithSheetsExport(svc Searcher, exporter SheetsExporter) Option {
	return func(reg *registry) {
		if exporter == nil {
			return
		}
		logger := reg.logger.With("tool", "exportJobs")

		reg.add(toolkit.Declaration{
			Name:        "exportJobs",
			Description: "Export a page of job search results to a Google Sheets tab. Accepts the same 'q', 'page' and 'limit' as searchJobs.",
			Params: append([]toolkit.Param{
				{Name: "spreadsheetId", Type: toolkit.TypeString, Required: true, Description: "Google Sheets document ID"},
				{Name: "tab", Type: toolkit.TypeString, Description: "Tab name to write to (default Sheet1)"},
				{Name: "clearTab", Type: toolkit.TypeBoolean, Description: "Clear existing rows before writing"},
				{Name: "q", Type: toolkit.TypeString, Description: "Free-text job query"},
			}, pagingParams...),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				page, err := svc.Jobs(ctx, searchParams(args))
				if err != nil {
					return nil, err
				}

				clearTab, _ := args["clearTab"].(bool)
				params := SheetsExportParams{
					SpreadsheetID: stringArg(args, "spreadsheetId"),
					Tab:           stringArg(args, "tab"),
					ClearTab:      clearTab,
					Rows:          sheetRows(page.Data),
				}
				logger.Info("exporting jobs", "spreadsheet_id", params.SpreadsheetID, "rows", len(params.Rows))

				result, err := exporter.Export(ctx, params)
				if err != nil {
					return nil, err
				}
				return result, nil
			},
			Render: func(snap toolkit.Snapshot) toolkit.Payload {
				switch snap.Status {
				case toolkit.StatusInProgress, toolkit.StatusExecuting:
					return toolkit.Placeholder("Exporting jobs…")
				case toolkit.StatusComplete:
					if snap.Failed() {
						return toolkit.ErrorPayload(snap.Error)
					}
					if res, ok := snap.Result.(SheetsExportResult); ok {
						return toolkit.StatusMessage(res.Message)
					}
					return toolkit.StatusMessage("Export finished.")
				default:
					return toolkit.DefaultRender(snap)
				}
			},
		})
	}
}

func sheetRows(jobs []domain.Record) []SheetRow {
	rows := make([]SheetRow, 0, len(jobs))
	for _, job := range jobs {
		card := toolkit.JobCardFrom(job)
		row := SheetRow{
			Title:    card.Title,
			Company:  card.Company,
			Location: card.Location,
			Type:     card.Type,
			Salary:   card.Salary,
			URL:      card.URL,
		}
		if v := job["created_at"]; v != nil {
			row.CreatedAt = formatTime(v)
		}
		rows = append(rows, row)
	}
	return rows
}

func formatTime(v any) string {
	if t, ok := v.(time.Time); ok {
		return t.UTC().Format(time.RFC3339)
	}
	return fmt.Sprint(v)
}
