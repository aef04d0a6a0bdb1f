package board

import (
	"sync"

	"github.com/teamplane/board-api/internal/repository"
)

// Manager hands out at most one Store per project, matching the single
// logical owner the board model assumes.
type Manager struct {
	repo     repository.BoardRepository
	notifier Notifier

	mu     sync.Mutex
	stores map[string]*Store
}

func NewManager(repo repository.BoardRepository, notifier Notifier) *Manager {
	return &Manager{
		repo:     repo,
		notifier: notifier,
		stores:   make(map[string]*Store),
	}
}

// Store returns the project's store, creating it on first use.
func (m *Manager) Store(projectID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.stores[projectID]; ok {
		return s
	}
	s := NewStore(projectID, m.repo, m.notifier)
	m.stores[projectID] = s
	return s
}

// Release closes and forgets the project's store, discarding any in-flight
// load results.
func (m *Manager) Release(projectID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.stores[projectID]; ok {
		s.Close()
		delete(m.stores, projectID)
	}
}
