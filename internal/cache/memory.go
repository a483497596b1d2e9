package cache

import (
	"context"
	"sync"
	"time"

	"github.com/RomanCsn/workshop-DFS/internal/models"
)

type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	maxSize int
	now     func() time.Time
}

type memoryEntry struct {
	session  models.Session
	cachedAt time.Time
}

func NewMemoryCache(ttl time.Duration, maxSize int) *MemoryCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if maxSize <= 0 {
		maxSize = 500
	}
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, tokenHash string) (*models.Session, error) {
	c.mu.RLock()
	entry, ok := c.entries[tokenHash]
	c.mu.RUnlock()

	if !ok {
		return nil, ErrMiss
	}
	if c.now().Sub(entry.cachedAt) > c.ttl {
		c.mu.Lock()
		delete(c.entries, tokenHash)
		c.mu.Unlock()
		return nil, ErrMiss
	}

	s := entry.session
	return &s, nil
}

func (c *MemoryCache) Set(_ context.Context, tokenHash string, session *models.Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[tokenHash]; !exists && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[tokenHash] = memoryEntry{
		session:  *session,
		cachedAt: c.now(),
	}
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, tokenHash string) error {
	c.mu.Lock()
	delete(c.entries, tokenHash)
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// evictOldest must be called with the write lock held.
func (c *MemoryCache) evictOldest() {
	var (
		oldestKey string
		oldestAt  time.Time
	)
	for k, e := range c.entries {
		if oldestKey == "" || e.cachedAt.Before(oldestAt) {
			oldestKey, oldestAt = k, e.cachedAt
		}
	}
	delete(c.entries, oldestKey)
}

var _ SessionCache = (*MemoryCache)(nil)
