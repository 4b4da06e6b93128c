package service

import (
	"sync"
	"time"

	"github.com/alexanderramin/nutrilog/internal/domain"
)

// DefaultCacheTTL bounds how stale a cached template may be.
const DefaultCacheTTL = 300 * time.Second

type cacheEntry struct {
	template    *domain.PromptTemplate
	refreshedAt time.Time
}

// templateCache holds active templates by id. Callers always receive clones.
type templateCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

func newTemplateCache(ttl time.Duration, now func() time.Time) *templateCache {
	return &templateCache{ttl: ttl, now: now, entries: make(map[string]cacheEntry)}
}

func (c *templateCache) get(id string) (*domain.PromptTemplate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok || c.now().Sub(e.refreshedAt) >= c.ttl {
		return nil, false
	}
	return e.template.Clone(), true
}

func (c *templateCache) put(t *domain.PromptTemplate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[t.ID] = cacheEntry{template: t.Clone(), refreshedAt: c.now()}
}

// bumpUsage mirrors a persisted usage increment without refreshing the entry's age.
func (c *templateCache) bumpUsage(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[id]; ok {
		e.template.UsageCount++
	}
}

func (c *templateCache) evict(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}

func (c *templateCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

func (c *templateCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
