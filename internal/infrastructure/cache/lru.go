package cache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
)

// ThumbnailCache là fallback cache có giới hạn cho thumbnail payload.
// Chỉ dùng khi secondary store ghi thất bại, evict theo LRU khi đầy.
type ThumbnailCache struct {
	cache *lru.Cache
}

func NewThumbnailCache(maxEntries int) (*ThumbnailCache, error) {
	c, err := lru.New(maxEntries)
	if err != nil {
		return nil, fmt.Errorf("create thumbnail cache: %w", err)
	}
	return &ThumbnailCache{cache: c}, nil
}

func (c *ThumbnailCache) Get(ideaID string) (string, bool) {
	val, ok := c.cache.Get(ideaID)
	if !ok {
		return "", false
	}
	payload, ok := val.(string)
	return payload, ok
}

// Set returns true if an older entry was evicted to make room.
func (c *ThumbnailCache) Set(ideaID, payload string) bool {
	return c.cache.Add(ideaID, payload)
}

func (c *ThumbnailCache) Remove(ideaID string) {
	c.cache.Remove(ideaID)
}

func (c *ThumbnailCache) Len() int {
	return c.cache.Len()
}
