package repositories

import (
	"context"
	"sync"
)

// memorySnapshotRepository держит снапшот в памяти процесса.
// Используется в тестах и как fallback, когда DATABASE_URL не задан:
// состояние тогда живёт только в рамках сессии, что допустимо —
// персистентность best-effort.
type memorySnapshotRepository struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemorySnapshotRepository() SnapshotRepository {
	return &memorySnapshotRepository{values: make(map[string]string)}
}

func (r *memorySnapshotRepository) Get(_ context.Context, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	value, ok := r.values[key]
	if !ok {
		return "", ErrSnapshotKeyNotFound
	}
	return value, nil
}

func (r *memorySnapshotRepository) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}
