package mcp

import (
	"context"
	"errors"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ziljnk/ai-job-seeker/internal/domain"
	"github.com/ziljnk/ai-job-seeker/internal/toolkit"
	"github.com/ziljnk/ai-job-seeker/pkg/logging"
)

const (
	elicitAccept = "accept"

	// a human gets this many tries at a valid form before the invocation is
	// cancelled
	maxFormAttempts = 3
)

// ToolOutput is the structured content of every tool call
type ToolOutput struct {
	InvocationID string          `json:"invocationId"`
	Tool         string          `json:"tool"`
	Status       toolkit.Status  `json:"status"`
	Result       any             `json:"result,omitempty"`
	Error        string          `json:"error,omitempty"`
	Payload      toolkit.Payload `json:"payload"`
}

// registerTools exposes every declaration of the session's registry on server
func registerTools(server *sdkmcp.Server, session *toolkit.Session, registry *toolkit.Registry, logger *logging.Logger) {
	for _, decl := range registry.Declarations() {
		b := &bridge{session: session, decl: decl, logger: logger.With("tool", decl.Name)}
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        decl.Name,
			Description: decl.Description,
			InputSchema: toolkit.InputSchema(decl),
		}, b.call)
	}
}

// bridge runs one tool's invocation protocol for an MCP call
type bridge struct {
	session *toolkit.Session
	decl    *toolkit.Declaration
	logger  *logging.Logger
}

func (b *bridge) call(ctx context.Context, req *sdkmcp.CallToolRequest, args map[string]any) (*sdkmcp.CallToolResult, any, error) {
	b.logger.Debug("request received", "session", b.session.ID())

	inv, err := b.session.Begin(b.decl.Name, args)
	if err != nil {
		return nil, nil, err
	}

	snap, err := inv.Finalize(ctx)
	if err != nil {
		return b.result(snap), b.output(snap), nil
	}

	if b.decl.Kind == toolkit.KindHumanInTheLoop {
		snap = b.elicit(ctx, req, inv)
	}

	b.logger.Debug("request completed", "invocation", snap.ID, "failed", snap.Failed())
	return b.result(snap), b.output(snap), nil
}

// elicit asks the human through the client until the form is submitted,
// declined or the attempts run out.
func (b *bridge) elicit(ctx context.Context, req *sdkmcp.CallToolRequest, inv *toolkit.Invocation) toolkit.Snapshot {
	message := b.decl.Prompt
	if message == "" {
		message = b.decl.Description
	}

	for attempt := 1; attempt <= maxFormAttempts; attempt++ {
		res, err := req.Session.Elicit(ctx, &sdkmcp.ElicitParams{
			Message:         message,
			RequestedSchema: toolkit.FormSchema(b.decl, inv.Snapshot().Args),
		})
		if err != nil {
			b.logger.Warn("elicitation failed", "invocation", inv.Snapshot().ID, "err", err)
			break
		}
		if res.Action != elicitAccept {
			break
		}

		snap, err := inv.Respond(res.Content)
		if err == nil {
			return snap
		}

		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			break
		}
		message = fmt.Sprintf("%s\n\n%s", verr.Message, b.decl.Prompt)
	}

	snap, err := inv.Cancel()
	if err != nil {
		// already complete, e.g. cancelled by Wait elsewhere
		return inv.Snapshot()
	}
	return snap
}

func (b *bridge) output(snap toolkit.Snapshot) ToolOutput {
	return ToolOutput{
		InvocationID: snap.ID,
		Tool:         snap.Tool,
		Status:       snap.Status,
		Result:       snap.Result,
		Error:        snap.Error,
		Payload:      toolkit.Render(b.decl, snap),
	}
}

func (b *bridge) result(snap toolkit.Snapshot) *sdkmcp.CallToolResult {
	text := toolkit.Render(b.decl, snap).Markdown()
	if msg := resultMessage(snap.Result); msg != "" {
		text = msg + "\n\n" + text
	}

	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{
			&sdkmcp.TextContent{Text: text},
		},
		IsError: snap.Failed(),
	}
}

// resultMessage is the summary line a handler put on its result
func resultMessage(result any) string {
	m, ok := result.(map[string]any)
	if !ok {
		return ""
	}
	msg, _ := m["message"].(string)
	return msg
}
