package service

import (
	"sync"
	"time"

	"github.com/exlibrismoi/exlibris-server/internal/metadata/nyt"
)

// cachedLists is a small TTL cache keyed by list name. Entries are
// evicted lazily on read.
type cachedLists struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cachedList
}

type cachedList struct {
	list      *nyt.List
	fetchedAt time.Time
}

func newCachedLists(ttl time.Duration) *cachedLists {
	return &cachedLists{
		ttl:     ttl,
		entries: make(map[string]cachedList),
	}
}

func (c *cachedLists) get(name string) *nyt.List {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[name]
	if !ok {
		return nil
	}
	if time.Since(entry.fetchedAt) > c.ttl {
		delete(c.entries, name)
		return nil
	}
	return entry.list
}

func (c *cachedLists) put(name string, list *nyt.List) {
	c.mu.Lock()
	c.entries[name] = cachedList{list: list, fetchedAt: time.Now()}
	c.mu.Unlock()
}
