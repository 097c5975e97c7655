// Package toolkit implements the tool registry and the invocation protocol
// shared between an agent and the human it acts for. Every invocation moves
// through inProgress, executing and complete, and each state change is
// rendered to a visual payload for the session's observer.
package toolkit

import (
	"context"

	"github.com/ziljnk/ai-job-seeker/internal/domain"
)

// ParamType is the declared type tag of a tool parameter
type ParamType string

const (
	TypeString         ParamType = "string"
	TypeNumber         ParamType = "number"
	TypeBoolean        ParamType = "boolean"
	TypeObject         ParamType = "object"
	TypeArray          ParamType = "array"
	TypeStringOrNumber ParamType = "string|number"
	// TypeAny accepts any JSON value
	TypeAny ParamType = "any"
)

// Param declares one named tool argument
type Param struct {
	Name        string
	Type        ParamType
	Required    bool
	Description string
}

// Kind tells the protocol whether a handler runs directly or a human has to
// answer first.
type Kind int

const (
	KindDirect Kind = iota
	KindHumanInTheLoop
)

func (k Kind) String() string {
	if k == KindHumanInTheLoop {
		return "humanInTheLoop"
	}
	return "direct"
}

// Handler executes a direct tool with validated arguments
type Handler func(ctx context.Context, args map[string]any) (any, error)

// RenderFunc maps an invocation snapshot to its visual payload
type RenderFunc func(Snapshot) Payload

// Declaration describes a tool to the registry
type Declaration struct {
	Name        string
	Description string
	Params      []Param
	Kind        Kind

	// RequiredRole runs the authorization gate before the handler when set
	RequiredRole domain.Role

	// Handler is required for direct tools and ignored otherwise
	Handler Handler
	Render  RenderFunc

	// SubmitRequired lists form fields a human must fill before submitting
	SubmitRequired []string
	// Prompt is shown to the human above the form
	Prompt string
}

// Param returns the declared parameter called name
func (d *Declaration) Param(name string) (Param, bool) {
	for _, p := range d.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}
