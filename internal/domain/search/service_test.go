package search

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziljnk/ai-job-seeker/internal/domain"
	"github.com/ziljnk/ai-job-seeker/internal/storage/memory"
	"github.com/ziljnk/ai-job-seeker/pkg/logging"
)

const acmeID = "0b5c6d7e-1111-4a2b-9c3d-4e5f6a7b8c9d"

func seededStore(opts ...memory.Option) *memory.Store {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	jobs := make([]domain.Record, 0, 25)
	for i := 0; i < 25; i++ {
		job := domain.Record{
			"id":         fmt.Sprintf("job-%02d", i),
			"title":      fmt.Sprintf("Engineer %02d", i),
			"location":   "Remote",
			"created_at": base.Add(time.Duration(i) * time.Hour),
		}
		if i%5 == 0 {
			job["company"] = "Acme Corp"
			job["company_id"] = acmeID
		}
		jobs = append(jobs, job)
	}

	all := []memory.Option{
		memory.WithRows(domain.CollectionJobs, jobs...),
		memory.WithRows(domain.CollectionCompanies,
			domain.Record{"id": acmeID, "name": "Acme Corp", "industry": "Software", "location": "Berlin", "size": "51-200"},
			domain.Record{"id": "c-2", "name": "Beta Labs", "industry": "Biotech", "location": "Boston"},
		),
	}
	return memory.New(append(all, opts...)...)
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		in   any
		want int
	}{
		{nil, 1},
		{0, 1},
		{-3, 1},
		{"abc", 1},
		{"", 1},
		{"4", 4},
		{"4abc", 4},
		{2.9, 2},
		{math.NaN(), 1},
		{math.Inf(1), 1},
		{float64(1e12), maxPage},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePage(tt.in), "page %v", tt.in)
	}
}

func TestNormalizePerPage(t *testing.T) {
	tests := []struct {
		in   any
		want int
	}{
		{nil, 10},
		{0, 10},
		{-5, 10},
		{"nope", 10},
		{1, 1},
		{"25", 25},
		{100, 100},
		{101, 100},
		{"5000", 100},
		{7.5, 7},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePerPage(tt.in), "limit %v", tt.in)
	}
}

func TestWindowRange(t *testing.T) {
	w := NewWindow(3, 10)
	assert.Equal(t, 20, w.From())
	assert.Equal(t, 29, w.To())
}

func TestJobsPaginationMeta(t *testing.T) {
	svc := NewService(seededStore(), logging.NewNop())

	page, err := svc.Jobs(context.Background(), Params{Page: "3", Limit: "10"})
	require.NoError(t, err)

	assert.Len(t, page.Data, 5)
	assert.Equal(t, 3, page.Meta.Page)
	assert.Equal(t, 10, page.Meta.PerPage)
	assert.Equal(t, 25, page.Meta.Total)
	require.NotNil(t, page.Meta.TotalPages)
	assert.Equal(t, 3, *page.Meta.TotalPages)

	// newest first
	assert.Equal(t, "job-04", page.Data[0]["id"])
}

func TestJobsCompanyInfo(t *testing.T) {
	svc := NewService(seededStore(), logging.NewNop())

	page, err := svc.Jobs(context.Background(), Params{Limit: 100})
	require.NoError(t, err)

	for _, row := range page.Data {
		require.Contains(t, row, domain.CompanyInfoKey)
		if row["company_id"] == acmeID {
			info, ok := row[domain.CompanyInfoKey].(domain.Record)
			require.True(t, ok)
			assert.Equal(t, "Acme Corp", info["name"])
			assert.Equal(t, "51-200", info["size"])
		} else {
			assert.Nil(t, row[domain.CompanyInfoKey])
		}
	}
}

func TestJobsEmptyResult(t *testing.T) {
	svc := NewService(seededStore(), logging.NewNop())

	page, err := svc.Jobs(context.Background(), Params{Q: "astronaut"})
	require.NoError(t, err)

	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
	assert.Equal(t, 0, page.Meta.Total)
	assert.Nil(t, page.Meta.TotalPages)
}

func TestJobsWithoutCreatedAtColumn(t *testing.T) {
	store := seededStore(memory.WithColumns(domain.CollectionJobs,
		"id", "title", "location", "company", "company_id", "description", "type"))

	svc := NewService(store, logging.NewNop())

	page, err := svc.Jobs(context.Background(), Params{Page: 1, Limit: 10})
	require.NoError(t, err)

	assert.Len(t, page.Data, 10)
	assert.Equal(t, 25, page.Meta.Total)
	// id descending
	assert.Equal(t, "job-24", page.Data[0]["id"])
}

func TestCompanies(t *testing.T) {
	svc := NewService(seededStore(), logging.NewNop())

	page, err := svc.Companies(context.Background(), CompanyParams{Industry: "soft"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Acme Corp", page.Data[0]["name"])

	page, err = svc.Companies(context.Background(), CompanyParams{Params: Params{Q: "bos"}})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Beta Labs", page.Data[0]["name"])

	page, err = svc.Companies(context.Background(), CompanyParams{})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "Acme Corp", page.Data[0]["name"])
}

func TestCompanyJobsKeyResolution(t *testing.T) {
	svc := NewService(seededStore(), logging.NewNop())

	byID, err := svc.CompanyJobs(context.Background(), acmeID, Params{})
	require.NoError(t, err)
	assert.Equal(t, 5, byID.Meta.Total)

	byName, err := svc.CompanyJobs(context.Background(), "acme", Params{})
	require.NoError(t, err)
	assert.Equal(t, 5, byName.Meta.Total)

	filtered, err := svc.CompanyJobs(context.Background(), "acme", Params{Q: "Engineer 1"})
	require.NoError(t, err)
	assert.Equal(t, 2, filtered.Meta.Total, "Engineer 10 and Engineer 15")
}

func TestCompanyJobsBlankKey(t *testing.T) {
	svc := NewService(seededStore(), logging.NewNop())

	_, err := svc.CompanyJobs(context.Background(), "   ", Params{})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "'companyIdOrName' is required and must be a non-empty string.", verr.Error())
}
