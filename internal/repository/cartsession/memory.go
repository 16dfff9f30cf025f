package cartsession

import (
	"context"
	"sync"

	"matcha-storefront/internal/domain"
)

// Memory keeps cart ids in process. Restarting the server forgets every cart.
type Memory struct {
	mu    sync.RWMutex
	carts map[string]string
}

func NewMemory() *Memory {
	return &Memory{carts: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, sessionID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.carts[sessionID]
	if !ok {
		return "", domain.ErrNotFound
	}
	return id, nil
}

func (m *Memory) Save(_ context.Context, sessionID, cartID string) error {
	m.mu.Lock()
	m.carts[sessionID] = cartID
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.carts, sessionID)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }
