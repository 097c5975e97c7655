package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Store backends
const (
	BackendPostgres = "postgres"
	BackendNeo4j    = "neo4j"
	BackendMemory   = "memory"
)

// Config contains runtime settings for the server
type Config struct {
	LogLevel string
	Host     string // default 0.0.0.0
	Port     string // default PORT env or 8080

	StoreBackend string // postgres, neo4j or memory
	DatabaseURL  string
	Neo4j        struct {
		URI      string
		Username string
		Password string
	}

	JWTSecret string

	// search cache and events are optional
	RedisURL       string
	SearchCacheTTL time.Duration
	AMQP           struct {
		URL      string
		Exchange string
	}

	SheetsCredsPath string

	InvocationRetention time.Duration
	SessionIdleTimeout  time.Duration
	PruneSpec           string
}

// Load populates config from environment variables
func Load() (Config, error) {
	cfg := Config{
		LogLevel:            "info",
		Host:                "0.0.0.0",
		Port:                "8080",
		StoreBackend:        BackendPostgres,
		SearchCacheTTL:      30 * time.Second,
		InvocationRetention: 15 * time.Minute,
		SessionIdleTimeout:  time.Hour,
		PruneSpec:           "@every 5m",
	}
	cfg.AMQP.Exchange = "jobseeker.events"

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if v := os.Getenv("MCP_HOST"); v != "" {
		cfg.Host = v
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}

	if v := os.Getenv("STORE_BACKEND"); v != "" {
		cfg.StoreBackend = strings.ToLower(v)
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.Neo4j.URI = os.Getenv("NEO4J_URI")
	cfg.Neo4j.Username = os.Getenv("NEO4J_USERNAME")
	cfg.Neo4j.Password = os.Getenv("NEO4J_PASSWORD")
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.AMQP.URL = os.Getenv("AMQP_URL")
	cfg.SheetsCredsPath = os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH")

	if v := os.Getenv("AMQP_EXCHANGE"); v != "" {
		cfg.AMQP.Exchange = v
	}

	if v := os.Getenv("INVOCATION_PRUNE_SPEC"); v != "" {
		cfg.PruneSpec = v
	}

	var missingVars, invalid []string

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"SEARCH_CACHE_TTL", &cfg.SearchCacheTTL},
		{"INVOCATION_RETENTION", &cfg.InvocationRetention},
		{"SESSION_IDLE_TIMEOUT", &cfg.SessionIdleTimeout},
	}
	for _, d := range durations {
		v := os.Getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil || parsed < 0 {
			invalid = append(invalid, d.key)
			continue
		}
		*d.dst = parsed
	}

	if cfg.JWTSecret == "" {
		missingVars = append(missingVars, "JWT_SECRET")
	}

	switch cfg.StoreBackend {
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			missingVars = append(missingVars, "DATABASE_URL")
		}
	case BackendNeo4j:
		if cfg.Neo4j.URI == "" {
			missingVars = append(missingVars, "NEO4J_URI")
		}
		if cfg.Neo4j.Username == "" {
			missingVars = append(missingVars, "NEO4J_USERNAME")
		}
		if cfg.Neo4j.Password == "" {
			missingVars = append(missingVars, "NEO4J_PASSWORD")
		}
	case BackendMemory:
	default:
		invalid = append(invalid, "STORE_BACKEND")
	}

	if len(missingVars) > 0 {
		return cfg, fmt.Errorf("missing required environment variables: %s", strings.Join(missingVars, ", "))
	}

	if len(invalid) > 0 {
		return cfg, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
