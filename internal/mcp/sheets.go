package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/ziljnk/ai-job-seeker/internal/mcp/tools"
	sheetsclient "github.com/ziljnk/ai-job-seeker/pkg/sheets"
)

const defaultTab = "Sheet1"

var sheetHeader = []any{"Title", "Company", "Location", "Type", "Salary", "URL", "Created at"}

type valuesWriter interface {
	AppendValues(ctx context.Context, spreadsheetID, rng string, values [][]any) error
	ClearValues(ctx context.Context, spreadsheetID, rng string) error
}

// sheetsExporter writes job rows through the Sheets client
type sheetsExporter struct {
	client valuesWriter
	clock  func() time.Time
}

// NewSheetsExporter adapts a Sheets client to the export tool. A nil client
// yields a nil exporter so the tool is not registered.
func NewSheetsExporter(client *sheetsclient.Client) tools.SheetsExporter {
	if client == nil {
		return nil
	}
	return &sheetsExporter{client: client, clock: time.Now}
}

func (a *sheetsExporter) Export(ctx context.Context, params tools.SheetsExportParams) (tools.SheetsExportResult, error) {
	tab := params.Tab
	if tab == "" {
		tab = defaultTab
	}

	result := tools.SheetsExportResult{
		SpreadsheetID: params.SpreadsheetID,
		Tab:           tab,
	}

	if params.ClearTab {
		if err := a.client.ClearValues(ctx, params.SpreadsheetID, buildClearRange(tab)); err != nil {
			return result, fmt.Errorf("sheets: failed to clear sheet: %w", err)
		}
	}

	result.CompletedAt = a.clock().UTC()
	if len(params.Rows) == 0 {
		result.Message = "no rows to export"
		return result, nil
	}

	values := convertRowsToValues(params.Rows, params.ClearTab)
	if err := a.client.AppendValues(ctx, params.SpreadsheetID, buildRange(tab), values); err != nil {
		return result, fmt.Errorf("sheets: failed to append rows: %w", err)
	}

	result.WrittenRows = len(params.Rows)
	result.Message = fmt.Sprintf("successfully exported %d row(s)", result.WrittenRows)

	return result, nil
}

func buildRange(tab string) string {
	return fmt.Sprintf("%s!A1", tab)
}

func buildClearRange(tab string) string {
	return fmt.Sprintf("%s!A1:Z", tab)
}

// convertRowsToValues prepends the header when the tab was cleared
func convertRowsToValues(rows []tools.SheetRow, withHeader bool) [][]any {
	values := make([][]any, 0, len(rows)+1)
	if withHeader {
		values = append(values, sheetHeader)
	}
	for _, row := range rows {
		values = append(values, []any{
			row.Title,
			row.Company,
			row.Location,
			row.Type,
			row.Salary,
			row.URL,
			row.CreatedAt,
		})
	}
	return values
}
