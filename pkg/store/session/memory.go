package session

import (
	"context"
	"sync"
	"time"

	"github.com/de-tools/license-atlas/pkg/models/domain"
)

type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
}

// NewMemoryStore returns an in-process session store. This is the default
// backend for single-node deployments and tests.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*domain.Session),
	}
}

func (m *MemoryStore) Put(_ context.Context, s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = Clone(s)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, &domain.NotFoundError{Kind: "session", ID: id}
	}
	return Clone(s), nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// PurgeExpired drops sessions whose TTL has passed and returns how many were
// removed. Expiry is still enforced at read time; the purge only bounds
// memory growth.
func (m *MemoryStore) PurgeExpired(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	purged := 0
	for id, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, id)
			purged++
		}
	}
	return purged
}
