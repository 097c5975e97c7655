package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziljnk/ai-job-seeker/internal/mcp/tools"
)

type call struct {
	op     string
	rng    string
	values [][]any
}

type fakeWriter struct {
	calls     []call
	appendErr error
}

func (f *fakeWriter) AppendValues(_ context.Context, _ string, rng string, values [][]any) error {
	f.calls = append(f.calls, call{op: "append", rng: rng, values: values})
	return f.appendErr
}

func (f *fakeWriter) ClearValues(_ context.Context, _ string, rng string) error {
	f.calls = append(f.calls, call{op: "clear", rng: rng})
	return nil
}

func TestSheetsExporter(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	rows := []tools.SheetRow{{Title: "Go Engineer", Company: "Acme Corp"}}

	t.Run("append to default tab", func(t *testing.T) {
		w := &fakeWriter{}
		exp := &sheetsExporter{client: w, clock: func() time.Time { return now }}

		res, err := exp.Export(context.Background(), tools.SheetsExportParams{SpreadsheetID: "s-1", Rows: rows})
		require.NoError(t, err)

		assert.Equal(t, "Sheet1", res.Tab)
		assert.Equal(t, 1, res.WrittenRows)
		assert.Equal(t, now, res.CompletedAt)
		require.Len(t, w.calls, 1)
		assert.Equal(t, "Sheet1!A1", w.calls[0].rng)
		assert.Len(t, w.calls[0].values, 1)
	})

	t.Run("clear writes header", func(t *testing.T) {
		w := &fakeWriter{}
		exp := &sheetsExporter{client: w, clock: func() time.Time { return now }}

		_, err := exp.Export(context.Background(), tools.SheetsExportParams{SpreadsheetID: "s-1", Tab: "Jobs", ClearTab: true, Rows: rows})
		require.NoError(t, err)

		require.Len(t, w.calls, 2)
		assert.Equal(t, call{op: "clear", rng: "Jobs!A1:Z"}, w.calls[0])
		assert.Equal(t, sheetHeader, w.calls[1].values[0])
		assert.Equal(t, "Go Engineer", w.calls[1].values[1][0])
	})

	t.Run("no rows", func(t *testing.T) {
		w := &fakeWriter{}
		exp := &sheetsExporter{client: w, clock: func() time.Time { return now }}

		res, err := exp.Export(context.Background(), tools.SheetsExportParams{SpreadsheetID: "s-1"})
		require.NoError(t, err)
		assert.Equal(t, "no rows to export", res.Message)
		assert.Empty(t, w.calls)
	})

	t.Run("append error", func(t *testing.T) {
		w := &fakeWriter{appendErr: errors.New("quota")}
		exp := &sheetsExporter{client: w, clock: func() time.Time { return now }}

		_, err := exp.Export(context.Background(), tools.SheetsExportParams{SpreadsheetID: "s-1", Rows: rows})
		assert.ErrorContains(t, err, "failed to append rows")
	})
}

func TestNewSheetsExporterNil(t *testing.T) {
	assert.Nil(t, NewSheetsExporter(nil))
}
