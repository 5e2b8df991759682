package service

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/promesto/backend/internal/models"
)

// cachedPage is one materialized list page.
type cachedPage struct {
	places []*models.PlaceWithLikes
	total  int
}

// ListCache is an LRU cache for anonymous public list pages. Pages seen
// by signed-in viewers carry per-viewer like state and are never cached.
// Every place or like mutation purges the whole cache, trading hit rate
// for simple correctness.
type ListCache struct {
	pages *lru.Cache[string, cachedPage]
}

// NewListCache creates a list cache holding up to size pages.
func NewListCache(size int) (*ListCache, error) {
	pages, err := lru.New[string, cachedPage](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create list cache: %w", err)
	}
	return &ListCache{pages: pages}, nil
}

// pageKey builds the cache key for a public list page.
func pageKey(search, sort string, page, pageSize int) string {
	return fmt.Sprintf("public|%s|%s|%d|%d", search, sort, page, pageSize)
}

// Get returns a cached page if present.
func (c *ListCache) Get(search, sort string, page, pageSize int) ([]*models.PlaceWithLikes, int, bool) {
	entry, ok := c.pages.Get(pageKey(search, sort, page, pageSize))
	if !ok {
		return nil, 0, false
	}
	return entry.places, entry.total, true
}

// Put stores a page.
func (c *ListCache) Put(search, sort string, page, pageSize int, places []*models.PlaceWithLikes, total int) {
	c.pages.Add(pageKey(search, sort, page, pageSize), cachedPage{places: places, total: total})
}

// Invalidate drops every cached page. Called after any mutation that can
// change list contents or like counts.
func (c *ListCache) Invalidate() {
	c.pages.Purge()
}
