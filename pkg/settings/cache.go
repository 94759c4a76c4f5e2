package settings

import (
	"fmt"
	"sync"
	"time"

	"github.com/phk910805/overtime-sub000/internal/utils"
)

// Cache is an explicit TTL cache for monthly settings lookups. The dashboard
// resolves the multiplier for every employee row, so settings are by far the
// hottest read. Invalidate must be called on every settings write.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	clock   utils.Clock
	entries map[string]cacheEntry
}

type cacheEntry struct {
	settings  MonthlySettings
	expiresAt time.Time
}

func NewCache(ttl time.Duration, clock utils.Clock) *Cache {
	return &Cache{
		ttl:     ttl,
		clock:   clock,
		entries: make(map[string]cacheEntry),
	}
}

func (c *Cache) Get(orgId int, month utils.Month) (MonthlySettings, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[cacheKey(orgId, month)]
	if !ok || c.clock.Now().After(entry.expiresAt) {
		return MonthlySettings{}, false
	}
	return entry.settings, true
}

func (c *Cache) Put(orgId int, month utils.Month, s MonthlySettings) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(orgId, month)] = cacheEntry{
		settings:  s,
		expiresAt: c.clock.Now().Add(c.ttl),
	}
}

// Invalidate drops all cached settings for the organization.
func (c *Cache) Invalidate(orgId int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := fmt.Sprintf("%d/", orgId)
	for key := range c.entries {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			delete(c.entries, key)
		}
	}
}

func cacheKey(orgId int, month utils.Month) string {
	return fmt.Sprintf("%d/%s", orgId, month)
}
