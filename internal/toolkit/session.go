package toolkit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ziljnk/ai-job-seeker/internal/domain"
	"github.com/ziljnk/ai-job-seeker/pkg/logging"
)

// Observer receives every rendered state change of a session's invocations
type Observer func(Snapshot, Payload)

// SessionOption configures a Session
type SessionOption func(*Session)

// WithObserver sets the render observer
func WithObserver(o Observer) SessionOption {
	return func(s *Session) {
		s.observer = o
	}
}

// WithClock sets the clock used for activity and completion times
func WithClock(clock func() time.Time) SessionOption {
	return func(s *Session) {
		s.clock = clock
	}
}

// withActivity calls fn whenever the session starts an invocation
func withActivity(fn func(*Session)) SessionOption {
	return func(s *Session) {
		s.onActive = fn
	}
}

// Session is one connected caller's view of the registry. It owns the
// invocation table for that caller.
type Session struct {
	id       string
	registry *Registry
	identity *domain.Identity
	observer Observer
	logger   *logging.Logger
	clock    func() time.Time
	onActive func(*Session)

	mu          sync.Mutex
	invocations map[string]*Invocation
	lastActive  time.Time
	closed      bool
}

// NewSession creates a session for identity, which may be nil for an
// anonymous caller.
func (r *Registry) NewSession(identity *domain.Identity, logger *logging.Logger, opts ...SessionOption) *Session {
	s := &Session{
		id:          uuid.NewString(),
		registry:    r,
		identity:    identity,
		logger:      logger,
		clock:       time.Now,
		invocations: make(map[string]*Invocation),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lastActive = s.clock()
	return s
}

// ID identifies the session
func (s *Session) ID() string {
	return s.id
}

// Identity is the caller the session acts for, nil when anonymous
func (s *Session) Identity() *domain.Identity {
	return s.identity
}

// Begin starts an invocation of tool in the inProgress state
func (s *Session) Begin(tool string, args map[string]any) (*Invocation, error) {
	decl, ok := s.registry.Lookup(tool)
	if !ok {
		return nil, fmt.Errorf("tool %q: %w", tool, domain.ErrNotFound)
	}

	inv := &Invocation{
		session: s,
		decl:    decl,
		done:    make(chan struct{}),
		snap: Snapshot{
			ID:     uuid.NewString(),
			Tool:   tool,
			Status: StatusInProgress,
			Args:   cloneArgs(args),
		},
	}

	s.mu.Lock()
	s.invocations[inv.snap.ID] = inv
	s.lastActive = s.clock()
	s.mu.Unlock()

	if s.onActive != nil {
		s.onActive(s)
	}

	s.logger.Debug("invocation started", "session", s.id, "tool", tool, "invocation", inv.snap.ID)
	s.dispatch(decl, inv.Snapshot())

	return inv, nil
}

// Invoke runs Begin and Finalize in one step
func (s *Session) Invoke(ctx context.Context, tool string, args map[string]any) (*Invocation, Snapshot, error) {
	inv, err := s.Begin(tool, args)
	if err != nil {
		return nil, Snapshot{}, err
	}

	snap, err := inv.Finalize(ctx)
	return inv, snap, err
}

// Invocation looks up an invocation by id
func (s *Session) Invocation(id string) (*Invocation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invocations[id]
	return inv, ok
}

// Pending counts invocations that are not complete
func (s *Session) Pending() int {
	s.mu.Lock()
	invs := make([]*Invocation, 0, len(s.invocations))
	for _, inv := range s.invocations {
		invs = append(invs, inv)
	}
	s.mu.Unlock()

	n := 0
	for _, inv := range invs {
		if inv.Snapshot().Status != StatusComplete {
			n++
		}
	}
	return n
}

// Prune drops invocations that completed before cutoff
func (s *Session) Prune(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, inv := range s.invocations {
		if inv.completedBefore(cutoff) {
			delete(s.invocations, id)
			n++
		}
	}
	return n
}

// CancelPending cancels every suspended human-in-the-loop invocation
func (s *Session) CancelPending() {
	s.mu.Lock()
	invs := make([]*Invocation, 0, len(s.invocations))
	for _, inv := range s.invocations {
		invs = append(invs, inv)
	}
	s.mu.Unlock()

	for _, inv := range invs {
		if inv.decl.Kind == KindHumanInTheLoop {
			_, _ = inv.Cancel()
		}
	}
}

func (s *Session) markClosed() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// dispatch renders snap and hands the payload to the observer
func (s *Session) dispatch(decl *Declaration, snap Snapshot) {
	if s.observer == nil {
		return
	}
	s.observer(snap, Render(decl, snap))
}
