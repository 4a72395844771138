package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"coursegate/internal/domain/catalog"
	"coursegate/internal/shared/logger"
)

// CatalogCache is the in-process read path for catalog browsing. Entries never
// expire; Populate rebuilds the whole keyspace from the system of record.
type CatalogCache struct {
	store  *gocache.Cache
	source catalog.EntrySource
	logger logger.Interface

	// populateMu serializes rebuilds; readers are never blocked.
	populateMu sync.Mutex
}

func NewCatalogCache(source catalog.EntrySource, logger logger.Interface) *CatalogCache {
	return &CatalogCache{
		store:  gocache.New(gocache.NoExpiration, 0),
		source: source,
		logger: logger,
	}
}

// Get returns the entry for a slug-path key. A miss means the node is not visible.
func (c *CatalogCache) Get(key string) (*catalog.Entry, bool) {
	v, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	entry, ok := v.(*catalog.Entry)
	return entry, ok
}

func (c *CatalogCache) Set(key string, entry *catalog.Entry) {
	c.store.Set(key, entry, gocache.NoExpiration)
}

func (c *CatalogCache) Len() int {
	return c.store.ItemCount()
}

// Populate swaps in a fresh snapshot key by key, then drops keys that no longer exist.
// Concurrent readers see either the old or the new entry for a key.
func (c *CatalogCache) Populate(ctx context.Context) error {
	c.populateMu.Lock()
	defer c.populateMu.Unlock()

	start := time.Now()
	entries, err := c.source.LoadEntries(ctx)
	if err != nil {
		c.logger.Errorw("catalog populate failed", "error", err)
		return fmt.Errorf("failed to load catalog entries: %w", err)
	}

	fresh := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		c.Set(e.Key, e)
		fresh[e.Key] = struct{}{}
	}

	removed := 0
	for key := range c.store.Items() {
		if _, ok := fresh[key]; !ok {
			c.store.Delete(key)
			removed++
		}
	}

	c.logger.Infow("catalog cache populated",
		"entries", len(entries),
		"removed", removed,
		"duration", time.Since(start),
	)
	return nil
}
