package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"LOG_LEVEL", "MCP_HOST", "PORT", "STORE_BACKEND", "DATABASE_URL",
	"NEO4J_URI", "NEO4J_USERNAME", "NEO4J_PASSWORD", "JWT_SECRET",
	"REDIS_URL", "SEARCH_CACHE_TTL", "AMQP_URL", "AMQP_EXCHANGE",
	"GOOGLE_SHEETS_CREDENTIALS_PATH", "INVOCATION_RETENTION",
	"INVOCATION_PRUNE_SPEC", "SESSION_IDLE_TIMEOUT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "postgres://localhost/jobs")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendPostgres, cfg.StoreBackend)
	assert.Equal(t, 30*time.Second, cfg.SearchCacheTTL)
	assert.Equal(t, 15*time.Minute, cfg.InvocationRetention)
	assert.Equal(t, "@every 5m", cfg.PruneSpec)
	assert.Equal(t, "jobseeker.events", cfg.AMQP.Exchange)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_BACKEND", "Neo4j")
	t.Setenv("NEO4J_URI", "neo4j://localhost:7687")
	t.Setenv("NEO4J_USERNAME", "neo4j")
	t.Setenv("NEO4J_PASSWORD", "pw")
	t.Setenv("PORT", "9000")
	t.Setenv("SEARCH_CACHE_TTL", "2m")
	t.Setenv("AMQP_EXCHANGE", "jobs")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendNeo4j, cfg.StoreBackend)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 2*time.Minute, cfg.SearchCacheTTL)
	assert.Equal(t, "jobs", cfg.AMQP.Exchange)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "missing reported together",
			env:  map[string]string{},
			want: "missing required environment variables: JWT_SECRET, DATABASE_URL",
		},
		{
			name: "neo4j credentials",
			env:  map[string]string{"JWT_SECRET": "s", "STORE_BACKEND": "neo4j"},
			want: "missing required environment variables: NEO4J_URI, NEO4J_USERNAME, NEO4J_PASSWORD",
		},
		{
			name: "unknown backend",
			env:  map[string]string{"JWT_SECRET": "s", "STORE_BACKEND": "mongo"},
			want: "invalid environment variables: STORE_BACKEND",
		},
		{
			name: "bad duration",
			env:  map[string]string{"JWT_SECRET": "s", "STORE_BACKEND": "memory", "SEARCH_CACHE_TTL": "soon"},
			want: "invalid environment variables: SEARCH_CACHE_TTL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.EqualError(t, err, tt.want)
		})
	}
}
