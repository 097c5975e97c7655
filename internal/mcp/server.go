// Package mcp exposes the tool registry over the MCP streamable HTTP
// transport. Each MCP session gets its own server bound to the caller's
// identity and its own invocation table.
package mcp

import (
	"net/http"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ziljnk/ai-job-seeker/internal/domain"
	"github.com/ziljnk/ai-job-seeker/internal/domain/auth"
	"github.com/ziljnk/ai-job-seeker/internal/toolkit"
	"github.com/ziljnk/ai-job-seeker/pkg/logging"
)

const (
	serverName    = "ai-job-seeker"
	serverVersion = "0.1.0"
)

// Handler serves MCP over streamable HTTP
type Handler struct {
	manager  *toolkit.Manager
	verifier auth.Verifier
	logger   *logging.Logger
	http     http.Handler
}

// NewHandler creates the MCP HTTP handler
func NewHandler(manager *toolkit.Manager, verifier auth.Verifier, logger *logging.Logger) *Handler {
	h := &Handler{
		manager:  manager,
		verifier: verifier,
		logger:   logger,
	}
	h.http = sdkmcp.NewStreamableHTTPHandler(h.newServer, nil)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.http.ServeHTTP(w, r)
}

// newServer is called once per MCP session with the initializing request
func (h *Handler) newServer(r *http.Request) *sdkmcp.Server {
	return h.serverFor(h.identity(r))
}

func (h *Handler) serverFor(identity *domain.Identity) *sdkmcp.Server {
	session := h.manager.Open(identity, toolkit.WithObserver(h.observe))
	logger := h.logger.With("session", session.ID())
	if identity != nil {
		logger = logger.With("user", identity.ID, "role", identity.Role)
	}
	logger.Info("mcp session opened")

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, nil)

	registerTools(server, session, h.manager.Registry(), logger)
	return server
}

// identity resolves the bearer token; a missing or invalid token leaves the
// session anonymous.
func (h *Handler) identity(r *http.Request) *domain.Identity {
	token := auth.BearerToken(r.Header.Get("Authorization"))
	if token == "" || h.verifier == nil {
		return nil
	}

	id, err := h.verifier.Verify(token)
	if err != nil {
		h.logger.Warn("rejected mcp bearer token", "err", err)
		return nil
	}
	return &id
}

func (h *Handler) observe(snap toolkit.Snapshot, payload toolkit.Payload) {
	h.logger.Debug("invocation rendered",
		"invocation", snap.ID,
		"tool", snap.Tool,
		"status", snap.Status,
		"payload", payload.Kind,
	)
}
