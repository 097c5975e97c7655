package toolkit

import (
	"sync"
	"time"

	"github.com/ziljnk/ai-job-seeker/internal/domain"
	"github.com/ziljnk/ai-job-seeker/pkg/logging"
)

// Manager tracks the live sessions of a registry so they can be pruned
type Manager struct {
	registry *Registry
	logger   *logging.Logger
	clock    func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithManagerClock sets the clock shared by the manager and its sessions
func WithManagerClock(clock func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.clock = clock
	}
}

// NewManager creates a Manager for registry
func NewManager(registry *Registry, logger *logging.Logger, opts ...ManagerOption) *Manager {
	m := &Manager{
		registry: registry,
		logger:   logger,
		clock:    time.Now,
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Registry returns the tool registry sessions are created from
func (m *Manager) Registry() *Registry {
	return m.registry
}

// Open creates and tracks a session for identity
func (m *Manager) Open(identity *domain.Identity, opts ...SessionOption) *Session {
	opts = append([]SessionOption{WithClock(m.clock), withActivity(m.track)}, opts...)
	s := m.registry.NewSession(identity, m.logger.Named("session"), opts...)

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()

	var who string
	if identity != nil {
		who = identity.ID
	}
	m.logger.Info("session opened", "session", s.ID(), "identity", who)
	return s
}

// Close cancels the session's pending forms and forgets it
func (m *Manager) Close(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		s.markClosed()
		s.CancelPending()
		m.logger.Info("session closed", "session", id)
	}
}

// track re-adds a session dropped as idle once it becomes active again. A
// closed session stays forgotten.
func (m *Manager) track(s *Session) {
	if s.isClosed() {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.ID()]; !ok {
		m.sessions[s.ID()] = s
		m.logger.Debug("session resumed", "session", s.ID())
	}
}

// Len is the number of tracked sessions
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Prune drops invocations completed longer than retention ago and stops
// tracking sessions idle for longer than idle with nothing pending. A dropped
// session is tracked again on its next invocation. A zero idle keeps every
// session tracked.
func (m *Manager) Prune(retention, idle time.Duration) (invocations, sessions int) {
	now := m.clock()

	m.mu.Lock()
	all := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.mu.Unlock()

	for _, s := range all {
		invocations += s.Prune(now.Add(-retention))

		if idle > 0 && s.Pending() == 0 && s.idleSince().Before(now.Add(-idle)) {
			m.mu.Lock()
			delete(m.sessions, s.ID())
			m.mu.Unlock()
			sessions++
		}
	}

	return invocations, sessions
}
