package cart

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type entry struct {
	session  *Session
	lastUsed time.Time
}

// Manager keeps one Session per browser session id. Dropping a session only
// forgets the in-memory snapshot; the stored cart id survives.
type Manager struct {
	remote Remote
	store  IDStore
	logger logrus.FieldLogger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

func NewManager(remote Remote, store IDStore, logger logrus.FieldLogger) *Manager {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Manager{
		remote:   remote,
		store:    store,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// Get returns the session for id, restoring its cart on first use.
func (m *Manager) Get(ctx context.Context, id string) *Session {
	m.mu.Lock()
	e, ok := m.sessions[id]
	if !ok {
		e = &entry{session: NewSession(id, m.remote, m.store, m.logger)}
		m.sessions[id] = e
	}
	e.lastUsed = m.now()
	m.mu.Unlock()

	e.session.ensureInitialized(ctx)
	return e.session
}

// Forget drops the in-memory session for id.
func (m *Manager) Forget(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops sessions unused for longer than idle. Sessions with a mutation
// in flight are kept. It reports how many were dropped.
func (m *Manager) Sweep(idle time.Duration) int {
	cutoff := m.now().Add(-idle)
	m.mu.Lock()
	defer m.mu.Unlock()
	dropped := 0
	for id, e := range m.sessions {
		if e.lastUsed.After(cutoff) || e.session.Loading() {
			continue
		}
		delete(m.sessions, id)
		dropped++
	}
	return dropped
}

// Run sweeps every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval, idle time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := m.Sweep(idle); n > 0 {
				m.logger.WithField("dropped", n).Debug("cart sessions: swept idle sessions")
			}
		}
	}
}
