package toolkit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ziljnk/ai-job-seeker/internal/domain"
	"github.com/ziljnk/ai-job-seeker/internal/domain/auth"
)

// Status is the lifecycle state of an invocation
type Status string

const (
	StatusInProgress Status = "inProgress"
	StatusExecuting  Status = "executing"
	StatusComplete   Status = "complete"
)

// inProgress may jump straight to complete when finalizing fails
var transitions = map[Status][]Status{
	StatusInProgress: {StatusExecuting, StatusComplete},
	StatusExecuting:  {StatusComplete},
	StatusComplete:   nil,
}

// CanTransition reports whether s may move to next
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

var (
	// ErrInvalidTransition is returned when an operation does not apply to
	// the invocation's current state
	ErrInvalidTransition = errors.New("invalid invocation state transition")

	// Cancelled is the result of a human-in-the-loop invocation the human
	// dismissed
	Cancelled = map[string]any{"cancelled": true}
)

// Snapshot is a point-in-time copy of an invocation
type Snapshot struct {
	ID     string         `json:"id"`
	Tool   string         `json:"tool"`
	Status Status         `json:"status"`
	Args   map[string]any `json:"args"`
	Result any            `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// Failed reports a complete invocation that produced no result
func (s Snapshot) Failed() bool {
	return s.Status == StatusComplete && s.Error != ""
}

// Invocation is one in-flight call of a tool within a session
type Invocation struct {
	session *Session
	decl    *Declaration

	mu          sync.Mutex
	snap        Snapshot
	done        chan struct{}
	completedAt time.Time
}

// Snapshot returns a copy of the current state
func (inv *Invocation) Snapshot() Snapshot {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.copyLocked()
}

// Declaration returns the invoked tool
func (inv *Invocation) Declaration() *Declaration {
	return inv.decl
}

// Done is closed once the invocation is complete
func (inv *Invocation) Done() <-chan struct{} {
	return inv.done
}

// Stream merges partial arguments while the caller is still producing them.
// Nothing is validated until Finalize.
func (inv *Invocation) Stream(partial map[string]any) error {
	inv.mu.Lock()
	if inv.snap.Status != StatusInProgress {
		status := inv.snap.Status
		inv.mu.Unlock()
		return fmt.Errorf("%w: stream while %s", ErrInvalidTransition, status)
	}
	for k, v := range partial {
		inv.snap.Args[k] = v
	}
	snap := inv.copyLocked()
	inv.mu.Unlock()

	inv.session.dispatch(inv.decl, snap)
	return nil
}

// Finalize closes argument streaming. Arguments are validated and the
// authorization gate runs when the tool requires a role. A direct tool's
// handler then runs to completion; a human-in-the-loop tool stays executing
// until Respond or Cancel.
func (inv *Invocation) Finalize(ctx context.Context) (Snapshot, error) {
	inv.mu.Lock()
	if inv.snap.Status != StatusInProgress {
		status := inv.snap.Status
		inv.mu.Unlock()
		return Snapshot{}, fmt.Errorf("%w: finalize while %s", ErrInvalidTransition, status)
	}
	args := cloneArgs(inv.snap.Args)
	inv.mu.Unlock()

	if err := ValidateArgs(inv.decl.Params, args); err != nil {
		return inv.fail(err), err
	}

	if inv.decl.RequiredRole != "" {
		if err := auth.Authorize(inv.session.identity, inv.decl.RequiredRole); err != nil {
			return inv.fail(err), err
		}
	}

	snap, err := inv.transition(StatusExecuting, func(s *Snapshot) {})
	if err != nil {
		return snap, err
	}

	if inv.decl.Kind == KindHumanInTheLoop {
		return snap, nil
	}

	return inv.execute(ctx, args)
}

func (inv *Invocation) execute(ctx context.Context, args map[string]any) (Snapshot, error) {
	if inv.session.identity != nil && auth.IdentityFrom(ctx) == nil {
		ctx = auth.WithIdentity(ctx, inv.session.identity)
	}

	result, err := inv.decl.Handler(ctx, args)
	if err != nil {
		terr := &domain.ToolExecutionError{Tool: inv.decl.Name, Message: err.Error(), Err: err}
		inv.session.logger.Warn("tool handler failed", "tool", inv.decl.Name, "invocation", inv.snap.ID, "err", err)
		return inv.fail(terr), terr
	}

	return inv.transition(StatusComplete, func(s *Snapshot) {
		s.Result = result
	})
}

// Respond submits the human's answer to a suspended invocation. Missing
// required fields keep the form open and return a ValidationError.
func (inv *Invocation) Respond(values map[string]any) (Snapshot, error) {
	if inv.decl.Kind != KindHumanInTheLoop {
		return Snapshot{}, fmt.Errorf("%w: %s does not wait for a response", ErrInvalidTransition, inv.decl.Name)
	}
	if err := inv.awaiting("respond to"); err != nil {
		return Snapshot{}, err
	}

	submitted := make(map[string]any, len(values))
	for k, v := range values {
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		submitted[k] = v
	}

	for _, name := range inv.decl.SubmitRequired {
		s, _ := submitted[name].(string)
		if strings.TrimSpace(s) == "" {
			return inv.Snapshot(), domain.NewValidationError(name, "'%s' is required and must be a non-empty string.", name)
		}
	}
	if err := ValidateArgs(inv.decl.Params, submitted); err != nil {
		return inv.Snapshot(), err
	}

	return inv.transition(StatusComplete, func(s *Snapshot) {
		s.Args = cloneArgs(submitted)
		s.Result = submitted
	})
}

// Cancel dismisses a suspended invocation. The result is {cancelled: true}
// and no downstream handler runs.
func (inv *Invocation) Cancel() (Snapshot, error) {
	if inv.decl.Kind != KindHumanInTheLoop {
		return Snapshot{}, fmt.Errorf("%w: %s cannot be cancelled", ErrInvalidTransition, inv.decl.Name)
	}
	if err := inv.awaiting("cancel"); err != nil {
		return Snapshot{}, err
	}

	return inv.transition(StatusComplete, func(s *Snapshot) {
		s.Result = cloneArgs(Cancelled)
	})
}

// awaiting fails unless the form has been shown, i.e. the invocation is
// executing
func (inv *Invocation) awaiting(action string) error {
	if status := inv.Snapshot().Status; status != StatusExecuting {
		return fmt.Errorf("%w: cannot %s %s while %s", ErrInvalidTransition, action, inv.decl.Name, status)
	}
	return nil
}

// Wait blocks until the invocation completes. When ctx ends first a pending
// human-in-the-loop invocation is cancelled.
func (inv *Invocation) Wait(ctx context.Context) (Snapshot, error) {
	select {
	case <-inv.done:
		return inv.Snapshot(), nil
	case <-ctx.Done():
	}

	if inv.decl.Kind == KindHumanInTheLoop {
		if snap, err := inv.Cancel(); err == nil {
			return snap, nil
		}
	}

	select {
	case <-inv.done:
		return inv.Snapshot(), nil
	default:
		return inv.Snapshot(), ctx.Err()
	}
}

func (inv *Invocation) fail(err error) Snapshot {
	snap, terr := inv.transition(StatusComplete, func(s *Snapshot) {
		s.Error = err.Error()
	})
	if terr != nil {
		return inv.Snapshot()
	}
	return snap
}

// transition moves to next, applying mutate under the lock, and renders the
// new state once the lock is released.
func (inv *Invocation) transition(next Status, mutate func(*Snapshot)) (Snapshot, error) {
	inv.mu.Lock()
	current := inv.snap.Status
	if !current.CanTransition(next) {
		inv.mu.Unlock()
		return Snapshot{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, next)
	}

	mutate(&inv.snap)
	inv.snap.Status = next
	if next == StatusComplete {
		inv.completedAt = inv.session.clock()
		close(inv.done)
	}
	snap := inv.copyLocked()
	inv.mu.Unlock()

	inv.session.dispatch(inv.decl, snap)
	return snap, nil
}

func (inv *Invocation) completedBefore(t time.Time) bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.snap.Status == StatusComplete && inv.completedAt.Before(t)
}

func (inv *Invocation) copyLocked() Snapshot {
	s := inv.snap
	s.Args = cloneArgs(inv.snap.Args)
	return s
}

func cloneArgs(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
