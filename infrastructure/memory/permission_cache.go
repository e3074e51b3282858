// Package memory holds in-process fallbacks used when Redis is disabled.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"gofiber-cms/domain/ports"
)

type permissionEntry struct {
	names    []string
	loadedAt time.Time
}

// PermissionCache เก็บ permission ใน memory ของ process เดียว พร้อม TTL
type PermissionCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]permissionEntry
	ttl     time.Duration
	now     func() time.Time
}

var _ ports.PermissionCachePort = (*PermissionCache)(nil)

func NewPermissionCache(ttl time.Duration) *PermissionCache {
	return &PermissionCache{
		entries: make(map[uuid.UUID]permissionEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *PermissionCache) GetOrLoad(ctx context.Context, userID uuid.UUID, load func() ([]string, error)) ([]string, error) {
	c.mu.RLock()
	entry, ok := c.entries[userID]
	c.mu.RUnlock()
	if ok && (c.ttl <= 0 || c.now().Sub(entry.loadedAt) < c.ttl) {
		return entry.names, nil
	}

	names, err := load()
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}

	c.mu.Lock()
	c.entries[userID] = permissionEntry{names: names, loadedAt: c.now()}
	c.mu.Unlock()
	return names, nil
}

func (c *PermissionCache) Invalidate(ctx context.Context, userIDs ...uuid.UUID) error {
	c.mu.Lock()
	for _, id := range userIDs {
		delete(c.entries, id)
	}
	c.mu.Unlock()
	return nil
}

func (c *PermissionCache) InvalidateAll(ctx context.Context) error {
	c.mu.Lock()
	c.entries = make(map[uuid.UUID]permissionEntry)
	c.mu.Unlock()
	return nil
}
