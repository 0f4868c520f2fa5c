package storage

import (
	"context"
	"sort"
	"sync"
)

// MemorySnapshotRepo реализует SnapshotRepo в памяти процесса.
// Используется в тестах и как хранилище по умолчанию без персистентности.
type MemorySnapshotRepo struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
}

// NewMemorySnapshotRepo создаёт пустое in-memory хранилище снимков.
func NewMemorySnapshotRepo() *MemorySnapshotRepo {
	return &MemorySnapshotRepo{
		snapshots: make(map[string][]byte),
	}
}

// Save сохраняет копию снимка.
func (r *MemorySnapshotRepo) Save(ctx context.Context, name string, payload []byte) error {
	stored := make([]byte, len(payload))
	copy(stored, payload)

	r.mu.Lock()
	r.snapshots[name] = stored
	r.mu.Unlock()
	return nil
}

// Load возвращает копию снимка.
func (r *MemorySnapshotRepo) Load(ctx context.Context, name string) ([]byte, bool, error) {
	r.mu.RLock()
	payload, ok := r.snapshots[name]
	r.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}

	out := make([]byte, len(payload))
	copy(out, payload)
	return out, true, nil
}

// Delete удаляет снимок.
func (r *MemorySnapshotRepo) Delete(ctx context.Context, name string) error {
	r.mu.Lock()
	delete(r.snapshots, name)
	r.mu.Unlock()
	return nil
}

// List возвращает отсортированные имена снимков.
func (r *MemorySnapshotRepo) List(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	names := make([]string, 0, len(r.snapshots))
	for name := range r.snapshots {
		names = append(names, name)
	}
	r.mu.RUnlock()

	sort.Strings(names)
	return names, nil
}

// Close очищает хранилище.
func (r *MemorySnapshotRepo) Close() error {
	r.mu.Lock()
	r.snapshots = make(map[string][]byte)
	r.mu.Unlock()
	return nil
}
