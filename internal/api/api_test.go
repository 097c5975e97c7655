package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziljnk/ai-job-seeker/internal/domain"
	"github.com/ziljnk/ai-job-seeker/internal/domain/auth"
	"github.com/ziljnk/ai-job-seeker/internal/domain/job"
	"github.com/ziljnk/ai-job-seeker/internal/domain/search"
	"github.com/ziljnk/ai-job-seeker/internal/storage/memory"
	"github.com/ziljnk/ai-job-seeker/pkg/logging"
)

const (
	secret = "api-secret"
	acmeID = "0b5c6d7e-1111-4a2b-9c3d-4e5f6a7b8c9d"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	logger := logging.NewNop()

	store := memory.New(
		memory.WithRows(domain.CollectionJobs,
			domain.Record{"id": "j-1", "title": "Go Engineer", "company": "Acme Corp", "company_id": acmeID, "location": "Berlin"},
			domain.Record{"id": "j-2", "title": "Data Analyst", "company": "Beta Labs", "company_id": "c-2", "location": "Boston"},
		),
		memory.WithRows(domain.CollectionCompanies,
			domain.Record{"id": acmeID, "name": "Acme Corp", "industry": "Software", "location": "Berlin"},
			domain.Record{"id": "c-2", "name": "Beta Labs", "industry": "Biotech", "location": "Boston"},
		),
	)

	jobs, err := job.NewService(store, logger)
	require.NoError(t, err)
	verifier, err := auth.NewTokenVerifier(secret)
	require.NoError(t, err)

	return SetupRouter(&Dependencies{
		Search:   search.NewService(store, logger),
		Jobs:     jobs,
		Verifier: verifier,
		MCP: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusAccepted)
		}),
		Logger: logger,
	})
}

func bearer(t *testing.T, role domain.Role) string {
	t.Helper()
	token, err := auth.IssueToken(secret, domain.Identity{ID: "u-1", Role: role}, time.Minute)
	require.NoError(t, err)
	return "Bearer " + token
}

func do(r *gin.Engine, method, path, body, authz string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealthz(t *testing.T) {
	w := do(newRouter(t), http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestMCPMounted(t *testing.T) {
	w := do(newRouter(t), http.MethodPost, "/mcp/stream", "{}", "")
	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestListJobs(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodGet, "/api/jobs?q=engineer&page=abc&limit=5", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	out := decode(t, w)
	data := out["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "Go Engineer", data[0].(map[string]any)["title"])

	meta := out["meta"].(map[string]any)
	assert.EqualValues(t, 1, meta["page"])
	assert.EqualValues(t, 5, meta["perPage"])
	assert.EqualValues(t, 1, meta["total"])
}

func TestListJobsEmpty(t *testing.T) {
	w := do(newRouter(t), http.MethodGet, "/api/jobs?q=astronaut", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	out := decode(t, w)
	assert.Equal(t, []any{}, out["data"])
	assert.Nil(t, out["meta"].(map[string]any)["totalPages"])
}

func TestListCompanies(t *testing.T) {
	w := do(newRouter(t), http.MethodGet, "/api/companies?industry=bio", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	data := decode(t, w)["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "Beta Labs", data[0].(map[string]any)["name"])
}

func TestListCompanyJobs(t *testing.T) {
	r := newRouter(t)

	for _, key := range []string{acmeID, "Acme%20Corp"} {
		w := do(r, http.MethodGet, "/api/companies/"+key+"/jobs", "", "")
		require.Equal(t, http.StatusOK, w.Code, key)

		data := decode(t, w)["data"].([]any)
		require.Len(t, data, 1, key)
		assert.Equal(t, "Go Engineer", data[0].(map[string]any)["title"])
	}
}

func TestCreateJob(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		authz  string
		status int
		err    string
	}{
		{
			name:   "not json",
			body:   "title=x",
			authz:  "recruiter",
			status: http.StatusBadRequest,
			err:    "Invalid JSON body",
		},
		{
			name:   "blank title as employee",
			body:   `{"title": "  "}`,
			authz:  "employee",
			status: http.StatusBadRequest,
		},
		{
			name:   "anonymous",
			body:   `{"title": "SRE"}`,
			status: http.StatusUnauthorized,
			err:    "Unauthorized",
		},
		{
			name:   "employee",
			body:   `{"title": "SRE"}`,
			authz:  "employee",
			status: http.StatusForbidden,
			err:    "Forbidden: recruiter role required",
		},
		{
			name:   "recruiter",
			body:   `{"title": "SRE", "company": "Acme Corp", "salary": 90000}`,
			authz:  "recruiter",
			status: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(t)
			authz := ""
			if tt.authz != "" {
				authz = bearer(t, domain.Role(tt.authz))
			}

			w := do(r, http.MethodPost, "/api/jobs", tt.body, authz)
			require.Equal(t, tt.status, w.Code, w.Body.String())

			out := decode(t, w)
			if tt.status == http.StatusCreated {
				created := out["data"].(map[string]any)
				assert.Equal(t, "SRE", created["title"])
				assert.Equal(t, "u-1", created["created_by"])
				assert.NotEmpty(t, created["id"])
				return
			}
			if tt.err != "" {
				assert.Equal(t, tt.err, out["error"])
			} else {
				assert.NotEmpty(t, out["error"])
			}
		})
	}
}

func TestMe(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodGet, "/api/me", "", bearer(t, domain.RoleRecruiter))
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "recruiter", data["role"])
	assert.Equal(t, "/chat/recruiter", data["landing"])

	w = do(r, http.MethodGet, "/api/me", "", "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	w := do(newRouter(t), http.MethodOptions, "/api/jobs", "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
