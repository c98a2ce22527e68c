package repository

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/pelmanism/internal/entity"
)

// memorySnapshot keeps snapshots in process. Used when no Redis is configured.
type memorySnapshot struct {
	mu        sync.RWMutex
	snapshots map[string]entity.Snapshot
}

func NewMemorySnapshotRepository() SnapshotRepository {
	return &memorySnapshot{
		snapshots: make(map[string]entity.Snapshot),
	}
}

func (that *memorySnapshot) Save(_ context.Context, snapshot *entity.Snapshot) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.snapshots[snapshot.SessionID] = *snapshot

	return nil
}

func (that *memorySnapshot) GetByID(_ context.Context, sessionID string) (*entity.Snapshot, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	snapshot, ok := that.snapshots[sessionID]
	if !ok {
		return &entity.Snapshot{}, ErrSnapshotNotFound
	}

	return &snapshot, nil
}

func (that *memorySnapshot) DeleteByID(_ context.Context, sessionID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.snapshots[sessionID]; !ok {
		return ErrSnapshotNotFound
	}

	delete(that.snapshots, sessionID)

	return nil
}
