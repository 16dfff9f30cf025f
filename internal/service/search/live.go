package search

import (
	"context"
	"sync"
	"time"

	"matcha-storefront/internal/domain"
)

type liveEntry struct {
	debouncer *Debouncer[[]domain.Product]
	lastUsed  time.Time
}

// Live runs quick searches as the shopper types, debounced per session.
type Live struct {
	quick *QuickSearcher
	delay time.Duration
	now   func() time.Time

	mu       sync.Mutex
	sessions map[string]*liveEntry
}

func NewLive(quick *QuickSearcher, delay time.Duration) *Live {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Live{
		quick:    quick,
		delay:    delay,
		now:      time.Now,
		sessions: make(map[string]*liveEntry),
	}
}

// Search returns ErrSuperseded when a newer keystroke from the same session
// replaced this one.
func (l *Live) Search(ctx context.Context, sessionID, query string, limit int) ([]domain.Product, error) {
	d := l.debouncer(sessionID)
	return d.Do(ctx, func(ctx context.Context) ([]domain.Product, error) {
		return l.quick.Search(ctx, query, limit)
	})
}

func (l *Live) debouncer(sessionID string) *Debouncer[[]domain.Product] {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.sessions[sessionID]
	if !ok {
		e = &liveEntry{debouncer: NewDebouncer[[]domain.Product](l.delay)}
		l.sessions[sessionID] = e
	}
	e.lastUsed = l.now()
	return e.debouncer
}

// Sweep forgets sessions that have not searched for longer than idle.
func (l *Live) Sweep(idle time.Duration) int {
	cutoff := l.now().Add(-idle)
	l.mu.Lock()
	defer l.mu.Unlock()
	dropped := 0
	for id, e := range l.sessions {
		if e.lastUsed.Before(cutoff) {
			delete(l.sessions, id)
			dropped++
		}
	}
	return dropped
}
