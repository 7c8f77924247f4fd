package chat

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wolfman30/elitecuts-assistant/internal/dialogue"
	"github.com/wolfman30/elitecuts-assistant/internal/knowledge"
	"github.com/wolfman30/elitecuts-assistant/pkg/logging"
)

// SessionObserver is told when sessions open and close.
type SessionObserver interface {
	SessionOpened()
	SessionClosed(reason string)
}

// Manager owns the live sessions. Sessions share the engine and the
// knowledge holder but nothing mutable.
type Manager struct {
	engine          *dialogue.Engine
	holder          *knowledge.Holder
	confirmer       Confirmer
	observer        SessionObserver
	logger          *logging.Logger
	now             func() time.Time
	idleTTL         time.Duration
	prefetchTimeout time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithIdleTTL sets how long a session may sit unused before Sweep evicts it.
func WithIdleTTL(d time.Duration) ManagerOption {
	return func(m *Manager) { m.idleTTL = d }
}

// WithPrefetchTimeout bounds the shop-data load at session start.
func WithPrefetchTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) { m.prefetchTimeout = d }
}

// WithConfirmer sends confirmations for booked appointments.
func WithConfirmer(c Confirmer) ManagerOption {
	return func(m *Manager) { m.confirmer = c }
}

// WithSessionObserver records session lifecycle events.
func WithSessionObserver(o SessionObserver) ManagerOption {
	return func(m *Manager) { m.observer = o }
}

// WithManagerClock overrides the clock used for timestamps and eviction.
func WithManagerClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a session manager.
func NewManager(engine *dialogue.Engine, holder *knowledge.Holder, logger *logging.Logger, opts ...ManagerOption) *Manager {
	if engine == nil {
		panic("chat: engine required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	m := &Manager{
		engine:          engine,
		holder:          holder,
		logger:          logger,
		now:             time.Now,
		idleTTL:         30 * time.Minute,
		prefetchTimeout: 10 * time.Second,
		sessions:        make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create opens a new session.
func (m *Manager) Create() *Session {
	s := newSession(uuid.NewString(), sessionDeps{
		engine:          m.engine,
		holder:          m.holder,
		confirmer:       m.confirmer,
		logger:          m.logger,
		now:             m.now,
		prefetchTimeout: m.prefetchTimeout,
	})
	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()

	if m.observer != nil {
		m.observer.SessionOpened()
	}
	m.logger.Info("chat session opened", "session_id", s.ID())
	return s
}

// Get returns a live session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Close ends a session and discards its state.
func (m *Manager) Close(id string) error {
	return m.remove(id, "closed")
}

func (m *Manager) remove(id, reason string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.Close()
	if m.observer != nil {
		m.observer.SessionClosed(reason)
	}
	m.logger.Info("chat session closed", "session_id", id, "reason", reason)
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep evicts sessions idle for longer than the idle TTL and returns how
// many it removed.
func (m *Manager) Sweep() int {
	if m.idleTTL <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.idleTTL)
	var idle []string
	m.mu.RLock()
	for id, s := range m.sessions {
		if s.LastActive().Before(cutoff) {
			idle = append(idle, id)
		}
	}
	m.mu.RUnlock()

	removed := 0
	for _, id := range idle {
		if m.remove(id, "idle") == nil {
			removed++
		}
	}
	return removed
}

// Run sweeps idle sessions until ctx is done, then closes every session.
func (m *Manager) Run(ctx context.Context) {
	interval := m.idleTTL / 2
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.Shutdown()
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.logger.Debug("evicted idle chat sessions", "count", n)
			}
		}
	}
}

// Shutdown closes every session.
func (m *Manager) Shutdown() {
	m.mu.RLock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.RUnlock()
	for _, id := range ids {
		_ = m.remove(id, "shutdown")
	}
}
