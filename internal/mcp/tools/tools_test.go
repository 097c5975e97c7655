package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziljnk/ai-job-seeker/internal/domain"
	"github.com/ziljnk/ai-job-seeker/internal/domain/job"
	"github.com/ziljnk/ai-job-seeker/internal/domain/search"
	"github.com/ziljnk/ai-job-seeker/internal/repository"
	"github.com/ziljnk/ai-job-seeker/internal/storage/memory"
	"github.com/ziljnk/ai-job-seeker/internal/toolkit"
	"github.com/ziljnk/ai-job-seeker/pkg/logging"
)

const acmeID = "0b5c6d7e-1111-4a2b-9c3d-4e5f6a7b8c9d"

var (
	recruiter = &domain.Identity{ID: "r-1", Role: domain.RoleRecruiter}
	employee  = &domain.Identity{ID: "e-1", Role: domain.RoleEmployee}
)

type fakeExporter struct {
	got SheetsExportParams
	err error
}

func (f *fakeExporter) Export(_ context.Context, p SheetsExportParams) (SheetsExportResult, error) {
	f.got = p
	return SheetsExportResult{SpreadsheetID: p.SpreadsheetID, WrittenRows: len(p.Rows), Message: "exported"}, f.err
}

func seededStore() *memory.Store {
	return memory.New(
		memory.WithRows(domain.CollectionJobs,
			domain.Record{"id": "j-1", "title": "Go Engineer", "company": "Acme Corp", "company_id": acmeID, "location": "Berlin"},
			domain.Record{"id": "j-2", "title": "Data Analyst", "location": "Remote"},
		),
		memory.WithRows(domain.CollectionCompanies,
			domain.Record{"id": acmeID, "name": "Acme Corp", "industry": "Software", "location": "Berlin"},
		),
	)
}

func newRegistry(t *testing.T, store repository.Store, exporter SheetsExporter) *toolkit.Registry {
	t.Helper()
	logger := logging.NewNop()

	searchSvc := search.NewService(store, logger)
	jobSvc, err := job.NewService(store, logger)
	require.NoError(t, err)

	reg, err := Register(logger,
		WithJobSearch(searchSvc),
		WithCompanySearch(searchSvc),
		WithCompanyJobs(searchSvc),
		WithCreateJob(jobSvc),
		WithJobCreationForm(),
		WithDisplayTools(),
		WithSheetsExport(searchSvc, exporter),
	)
	require.NoError(t, err)
	return reg
}

func countJobs(t *testing.T, store repository.Store) int {
	t.Helper()
	res, err := store.Select(context.Background(), repository.Query{Collection: domain.CollectionJobs, To: 99, Count: true})
	require.NoError(t, err)
	require.NotNil(t, res.Total)
	return *res.Total
}

func TestRegisterNames(t *testing.T) {
	reg := newRegistry(t, seededStore(), nil)

	assert.Equal(t, []string{
		"createJob",
		"jobCreationForm",
		"renderCompanyCard",
		"renderCompanyJobs",
		"renderJobCard",
		"renderJobList",
		"searchCompanies",
		"searchCompanyJobs",
		"searchJobs",
	}, reg.Names())

	reg = newRegistry(t, seededStore(), &fakeExporter{})
	_, ok := reg.Lookup("exportJobs")
	assert.True(t, ok)
}

func TestSearchJobsResultShape(t *testing.T) {
	session := newRegistry(t, seededStore(), nil).NewSession(nil, logging.NewNop())

	_, snap, err := session.Invoke(context.Background(), "searchJobs", map[string]any{"q": "go"})
	require.NoError(t, err)

	result := snap.Result.(map[string]any)
	assert.Equal(t, "Found 1 jobs (showing 1).\n• Go Engineer — Acme Corp — Berlin", result["message"])
	assert.Equal(t, result["items"], result["jobs"])

	meta := result["meta"].(domain.PaginationMeta)
	assert.Equal(t, 1, meta.Page)
	assert.Equal(t, 10, meta.PerPage)
}

func TestSearchCompaniesResultShape(t *testing.T) {
	reg := newRegistry(t, seededStore(), nil)
	session := reg.NewSession(nil, logging.NewNop())

	_, snap, err := session.Invoke(context.Background(), "searchCompanies", map[string]any{"industry": "soft"})
	require.NoError(t, err)

	result := snap.Result.(map[string]any)
	assert.Equal(t, "Found 1 companies (showing 1).\n• Acme Corp — Software — Berlin", result["message"])
	assert.Contains(t, result, "companies")

	payload := toolkit.Render(mustLookup(t, reg, "searchCompanies"), snap)
	assert.Equal(t, toolkit.PayloadCompanyList, payload.Kind)
	require.Len(t, payload.Companies, 1)
}

func TestSearchCompanyJobs(t *testing.T) {
	reg := newRegistry(t, seededStore(), nil)
	session := reg.NewSession(nil, logging.NewNop())

	_, snap, err := session.Invoke(context.Background(), "searchCompanyJobs", map[string]any{"companyIdOrName": acmeID})
	require.NoError(t, err)
	result := snap.Result.(map[string]any)
	assert.Len(t, result["jobs"], 1)

	payload := toolkit.Render(mustLookup(t, reg, "searchCompanyJobs"), snap)
	assert.Equal(t, toolkit.PayloadCompanyJobs, payload.Kind)
	require.NotNil(t, payload.Company)
	assert.Equal(t, "Acme Corp", payload.Company.Name)

	_, _, err = session.Invoke(context.Background(), "searchCompanyJobs", map[string]any{"companyIdOrName": "  "})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "'companyIdOrName' is required and must be a non-empty string.", verr.Message)
}

func TestCreateJobRoleGate(t *testing.T) {
	store := seededStore()
	reg := newRegistry(t, store, nil)
	ctx := context.Background()

	_, _, err := reg.NewSession(employee, logging.NewNop()).Invoke(ctx, "createJob", map[string]any{"title": "SRE"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, _, err = reg.NewSession(nil, logging.NewNop()).Invoke(ctx, "createJob", map[string]any{"title": "SRE"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Equal(t, 2, countJobs(t, store))

	_, snap, err := reg.NewSession(recruiter, logging.NewNop()).Invoke(ctx, "createJob", map[string]any{"title": "SRE"})
	require.NoError(t, err)

	result := snap.Result.(map[string]any)
	assert.Equal(t, "Job created: SRE at (company not specified).", result["message"])
	assert.Equal(t, "r-1", result["job"].(domain.Record)["created_by"])
	assert.Equal(t, 3, countJobs(t, store))
}

func TestCreateJobBlankTitle(t *testing.T) {
	session := newRegistry(t, seededStore(), nil).NewSession(employee, logging.NewNop())

	_, snap, err := session.Invoke(context.Background(), "createJob", map[string]any{"title": "  "})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, snap.Failed())
}

func TestCancelledFormNeverCreates(t *testing.T) {
	store := seededStore()
	session := newRegistry(t, store, nil).NewSession(recruiter, logging.NewNop())

	inv, err := session.Begin("jobCreationForm", map[string]any{"title": "Draft"})
	require.NoError(t, err)
	assert.Equal(t, "Preparing job form…", toolkit.Render(inv.Declaration(), inv.Snapshot()).Message)

	snap, err := inv.Finalize(context.Background())
	require.NoError(t, err)
	form := toolkit.Render(inv.Declaration(), snap)
	assert.Equal(t, toolkit.PayloadForm, form.Kind)
	require.NotNil(t, form.Form)
	assert.Equal(t, "title", form.Form.Fields[0].Name)
	assert.True(t, form.Form.Fields[0].Required)
	assert.Equal(t, "Draft", form.Form.Fields[0].Value)

	snap, err = inv.Cancel()
	require.NoError(t, err)
	assert.Equal(t, toolkit.Cancelled, snap.Result)
	assert.Equal(t, "Cancelled", toolkit.Render(inv.Declaration(), snap).Message)
	assert.Equal(t, 2, countJobs(t, store))
}

func TestSubmittedFormDropsBlankSalary(t *testing.T) {
	session := newRegistry(t, seededStore(), nil).NewSession(recruiter, logging.NewNop())

	inv, err := session.Begin("jobCreationForm", nil)
	require.NoError(t, err)
	_, err = inv.Finalize(context.Background())
	require.NoError(t, err)

	_, err = inv.Respond(map[string]any{"title": "", "salary": ""})
	require.Error(t, err)
	assert.Equal(t, toolkit.StatusExecuting, inv.Snapshot().Status)

	snap, err := inv.Respond(map[string]any{"title": "Platform Engineer", "salary": ""})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "Platform Engineer"}, snap.Result)
	assert.Equal(t, "Submitted job details.", toolkit.Render(inv.Declaration(), snap).Message)
}

func TestRenderJobListShapes(t *testing.T) {
	session := newRegistry(t, seededStore(), nil).NewSession(nil, logging.NewNop())
	jobs := []any{
		map[string]any{"title": "Go Engineer", "company": "Acme"},
		map[string]any{"title": "Data Analyst"},
	}

	shapes := map[string]any{
		"bare":  jobs,
		"jobs":  map[string]any{"jobs": jobs},
		"items": map[string]any{"items": jobs},
		"data":  map[string]any{"data": jobs},
	}

	var want []toolkit.JobCard
	for name, shape := range shapes {
		inv, snap, err := session.Invoke(context.Background(), "renderJobList", map[string]any{"jobs": shape})
		require.NoError(t, err, name)

		payload := toolkit.Render(inv.Declaration(), snap)
		require.Equal(t, toolkit.PayloadJobList, payload.Kind, name)
		if want == nil {
			want = payload.Jobs
			continue
		}
		assert.Equal(t, want, payload.Jobs, name)
	}
	require.Len(t, want, 2)
	assert.Equal(t, "Unknown company", want[1].Company)
}

func TestRenderInvalidPayloads(t *testing.T) {
	session := newRegistry(t, seededStore(), nil).NewSession(nil, logging.NewNop())

	tests := []struct {
		tool string
		args map[string]any
		want string
	}{
		{"renderJobCard", map[string]any{"job": "not a job"}, "Invalid job payload."},
		{"renderCompanyCard", map[string]any{"company": 12.0}, "Invalid company payload."},
		{"renderJobList", map[string]any{"jobs": map[string]any{"rows": []any{}}}, "Invalid jobs payload."},
		{"renderCompanyJobs", map[string]any{"jobs": "nope"}, "Invalid jobs payload."},
	}
	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			inv, snap, err := session.Invoke(context.Background(), tt.tool, tt.args)
			require.NoError(t, err)

			payload := toolkit.Render(inv.Declaration(), snap)
			assert.Equal(t, toolkit.PayloadError, payload.Kind)
			assert.Equal(t, tt.want, payload.Message)
		})
	}
}

func TestExportJobs(t *testing.T) {
	exporter := &fakeExporter{}
	session := newRegistry(t, seededStore(), exporter).NewSession(nil, logging.NewNop())

	_, snap, err := session.Invoke(context.Background(), "exportJobs", map[string]any{"spreadsheetId": "sheet-1", "q": "go"})
	require.NoError(t, err)

	assert.Equal(t, "sheet-1", exporter.got.SpreadsheetID)
	require.Len(t, exporter.got.Rows, 1)
	assert.Equal(t, SheetRow{Title: "Go Engineer", Company: "Acme Corp", Location: "Berlin"}, exporter.got.Rows[0])
	assert.Equal(t, 1, snap.Result.(SheetsExportResult).WrittenRows)

	exporter.err = errors.New("quota exceeded")
	_, _, err = session.Invoke(context.Background(), "exportJobs", map[string]any{"spreadsheetId": "sheet-1"})
	var terr *domain.ToolExecutionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "quota exceeded", terr.Message)
}

func mustLookup(t *testing.T, reg *toolkit.Registry, name string) *toolkit.Declaration {
	t.Helper()
	decl, ok := reg.Lookup(name)
	require.True(t, ok, name)
	return decl
}
