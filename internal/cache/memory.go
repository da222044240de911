package cache

import (
	"context"
	"sync"

	"friend-service/internal/models"
)

// MemoryCache is a process-local ProfileCache.
type MemoryCache struct {
	mu       sync.RWMutex
	profiles map[string]models.Profile
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{profiles: make(map[string]models.Profile)}
}

func (m *MemoryCache) Get(ctx context.Context, ids []string) (map[string]models.Profile, []string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	found := make(map[string]models.Profile, len(ids))
	var missing []string
	for _, id := range ids {
		if p, ok := m.profiles[id]; ok {
			found[id] = p
			continue
		}
		missing = append(missing, id)
	}
	return found, missing, nil
}

func (m *MemoryCache) Set(ctx context.Context, profiles []models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range profiles {
		m.profiles[p.ID] = p
	}
	return nil
}

// Invalidate drops the given ids, or everything when called without ids.
func (m *MemoryCache) Invalidate(ctx context.Context, ids ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(ids) == 0 {
		m.profiles = make(map[string]models.Profile)
		return nil
	}
	for _, id := range ids {
		delete(m.profiles, id)
	}
	return nil
}
