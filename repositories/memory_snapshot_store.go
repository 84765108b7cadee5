package repositories

import (
	"sync"
	"wegetchat/domain"
)

// MemorySnapshotStore keeps saved snapshots in memory. Nothing survives the process;
// it backs tests and throwaway local runs.
type MemorySnapshotStore struct {
	mu    sync.Mutex
	saved *domain.Snapshot
	saves int
}

var _ ISnapshotStore = (*MemorySnapshotStore)(nil)

func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{}
}

func (m *MemorySnapshotStore) Load() (*domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil {
		m.saved = domain.NewSnapshot()
		m.saves++
	}
	return m.saved.Clone(), nil
}

func (m *MemorySnapshotStore) Save(s *domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = s.Clone()
	m.saves++
	return nil
}

// Saves reports how many times a snapshot was written.
func (m *MemorySnapshotStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
