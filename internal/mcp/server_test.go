package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziljnk/ai-job-seeker/internal/domain"
	"github.com/ziljnk/ai-job-seeker/internal/domain/auth"
	"github.com/ziljnk/ai-job-seeker/internal/domain/job"
	"github.com/ziljnk/ai-job-seeker/internal/domain/search"
	"github.com/ziljnk/ai-job-seeker/internal/mcp/tools"
	"github.com/ziljnk/ai-job-seeker/internal/repository"
	"github.com/ziljnk/ai-job-seeker/internal/storage/memory"
	"github.com/ziljnk/ai-job-seeker/internal/toolkit"
	"github.com/ziljnk/ai-job-seeker/pkg/logging"
)

const secret = "test-secret"

type elicitFunc func(context.Context, *sdkmcp.ElicitRequest) (*sdkmcp.ElicitResult, error)

type fixture struct {
	handler *Handler
	store   *memory.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := logging.NewNop()
	store := memory.New(memory.WithRows(domain.CollectionJobs,
		domain.Record{"id": "j-1", "title": "Go Engineer", "company": "Acme Corp", "location": "Berlin"},
	))

	jobSvc, err := job.NewService(store, logger)
	require.NoError(t, err)
	searchSvc := search.NewService(store, logger)

	reg, err := tools.Register(logger,
		tools.WithJobSearch(searchSvc),
		tools.WithCreateJob(jobSvc),
		tools.WithJobCreationForm(),
	)
	require.NoError(t, err)

	verifier, err := auth.NewTokenVerifier(secret)
	require.NoError(t, err)

	return &fixture{
		handler: NewHandler(toolkit.NewManager(reg, logger), verifier, logger),
		store:   store,
	}
}

func (f *fixture) connect(t *testing.T, identity *domain.Identity, elicit elicitFunc) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()
	_, err := f.handler.serverFor(identity).Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	opts := &sdkmcp.ClientOptions{}
	if elicit != nil {
		opts.ElicitationHandler = elicit
	}
	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "0.0.1"}, opts)

	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func (f *fixture) jobCount(t *testing.T) int {
	t.Helper()
	res, err := f.store.Select(context.Background(), repository.Query{Collection: domain.CollectionJobs, To: 99, Count: true})
	require.NoError(t, err)
	return *res.Total
}

func callTool(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any) (*sdkmcp.CallToolResult, ToolOutput) {
	t.Helper()
	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)

	var out ToolOutput
	raw, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &out))
	return res, out
}

func text(res *sdkmcp.CallToolResult) string {
	if len(res.Content) == 0 {
		return ""
	}
	tc, _ := res.Content[0].(*sdkmcp.TextContent)
	if tc == nil {
		return ""
	}
	return tc.Text
}

func TestListTools(t *testing.T) {
	session := newFixture(t).connect(t, nil, nil)

	res, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"searchJobs", "createJob", "jobCreationForm"}, names)
}

func TestSearchJobsOverMCP(t *testing.T) {
	session := newFixture(t).connect(t, nil, nil)

	res, out := callTool(t, session, "searchJobs", map[string]any{"q": "go"})
	assert.False(t, res.IsError)
	assert.Contains(t, text(res), "Found 1 jobs (showing 1).")
	assert.Equal(t, toolkit.StatusComplete, out.Status)
	assert.Equal(t, toolkit.PayloadJobList, out.Payload.Kind)
}

func TestCreateJobRequiresRecruiter(t *testing.T) {
	f := newFixture(t)
	employee := f.connect(t, &domain.Identity{ID: "e-1", Role: domain.RoleEmployee}, nil)

	res, out := callTool(t, employee, "createJob", map[string]any{"title": "SRE"})
	assert.True(t, res.IsError)
	assert.Equal(t, "Forbidden: recruiter role required", out.Error)
	assert.Equal(t, 1, f.jobCount(t))

	recruiter := f.connect(t, &domain.Identity{ID: "r-1", Role: domain.RoleRecruiter}, nil)
	res, _ = callTool(t, recruiter, "createJob", map[string]any{"title": "SRE", "company": "Acme Corp"})
	assert.False(t, res.IsError)
	assert.Contains(t, text(res), "Job created: SRE at Acme Corp.")
	assert.Equal(t, 2, f.jobCount(t))
}

func TestJobFormElicitation(t *testing.T) {
	tests := []struct {
		name    string
		elicit  elicitFunc
		want    any
		prompts int
	}{
		{
			name: "accept",
			elicit: func(context.Context, *sdkmcp.ElicitRequest) (*sdkmcp.ElicitResult, error) {
				return &sdkmcp.ElicitResult{Action: "accept", Content: map[string]any{"title": "Platform Engineer", "salary": ""}}, nil
			},
			want:    map[string]any{"title": "Platform Engineer"},
			prompts: 1,
		},
		{
			name: "decline",
			elicit: func(context.Context, *sdkmcp.ElicitRequest) (*sdkmcp.ElicitResult, error) {
				return &sdkmcp.ElicitResult{Action: "decline"}, nil
			},
			want:    map[string]any{"cancelled": true},
			prompts: 1,
		},
		{
			name: "blank title until attempts run out",
			elicit: func(context.Context, *sdkmcp.ElicitRequest) (*sdkmcp.ElicitResult, error) {
				return &sdkmcp.ElicitResult{Action: "accept", Content: map[string]any{"title": " "}}, nil
			},
			want:    map[string]any{"cancelled": true},
			prompts: maxFormAttempts,
		},
		{
			name: "client error",
			elicit: func(context.Context, *sdkmcp.ElicitRequest) (*sdkmcp.ElicitResult, error) {
				return nil, errors.New("no human attached")
			},
			want:    map[string]any{"cancelled": true},
			prompts: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			prompts := 0
			session := f.connect(t, &domain.Identity{ID: "r-1", Role: domain.RoleRecruiter},
				func(ctx context.Context, req *sdkmcp.ElicitRequest) (*sdkmcp.ElicitResult, error) {
					prompts++
					return tt.elicit(ctx, req)
				})

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: "jobCreationForm", Arguments: map[string]any{"title": "Draft"}})
			require.NoError(t, err)
			assert.False(t, res.IsError)

			raw, err := json.Marshal(res.StructuredContent)
			require.NoError(t, err)
			var out ToolOutput
			require.NoError(t, json.Unmarshal(raw, &out))

			assert.Equal(t, tt.want, out.Result)
			assert.Equal(t, tt.prompts, prompts)
			assert.Equal(t, 1, f.jobCount(t))
		})
	}
}

func TestIdentityFromBearer(t *testing.T) {
	f := newFixture(t)
	token, err := auth.IssueToken(secret, domain.Identity{ID: "r-1", Role: domain.RoleRecruiter}, time.Minute)
	require.NoError(t, err)

	tests := []struct {
		header string
		want   *domain.Identity
	}{
		{"Bearer " + token, &domain.Identity{ID: "r-1", Role: domain.RoleRecruiter}},
		{"Bearer not-a-token", nil},
		{"", nil},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("POST", "/mcp/stream", nil)
		if tt.header != "" {
			r.Header.Set("Authorization", tt.header)
		}
		assert.Equal(t, tt.want, f.handler.identity(r))
	}
}
