package blogfront

import (
	"context"
	"sync"
	"time"
)

// PostSource is anything that can produce the full normalized post list.
// *Client is the production implementation.
type PostSource interface {
	FetchPosts(ctx context.Context) []Post
}

// PostCache is an in-memory TTL cache over the CMS. Posts are fetched
// fresh once the TTL lapses and the list is replaced wholesale; between
// refreshes it is read-only. A fetch that comes back empty while a
// previous list exists keeps the previous list, so a transient CMS outage
// does not blank the site until the outage actually outlives the content.
type PostCache struct {
	mu      sync.RWMutex
	posts   []Post
	index   *PostIndex
	fetched time.Time
	ttl     time.Duration
	src     PostSource
}

// NewPostCache creates a PostCache backed by src.
func NewPostCache(src PostSource, ttl time.Duration) *PostCache {
	return &PostCache{src: src, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh fetch.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.index = nil
	c.mu.Unlock()
}

// Warm fetches eagerly. Called once at startup so inbound deep links can
// be resolved on the first request instead of falling through to the
// listing while the list is still empty.
func (c *PostCache) Warm(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load(ctx)
}

// load must be called with the write lock held.
func (c *PostCache) load(ctx context.Context) {
	posts := c.src.FetchPosts(ctx)
	if len(posts) == 0 && len(c.posts) > 0 {
		c.fetched = time.Now()
		return
	}
	c.posts = posts
	c.index = NewPostIndex(posts)
	c.fetched = time.Now()
}

// Posts returns the current post list, refreshing it if the TTL lapsed.
// It tries a read lock first; only takes a write lock when a reload is
// needed.
func (c *PostCache) Posts(ctx context.Context) []Post {
	c.mu.RLock()
	if c.valid() {
		posts := c.posts
		c.mu.RUnlock()
		return posts
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid() {
		c.load(ctx)
	}
	return c.posts
}

// Index returns a lookup index over the current post list, refreshing as
// needed.
func (c *PostCache) Index(ctx context.Context) *PostIndex {
	c.mu.RLock()
	if c.valid() && c.index != nil {
		ix := c.index
		c.mu.RUnlock()
		return ix
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid() || c.index == nil {
		c.load(ctx)
	}
	if c.index == nil {
		c.index = NewPostIndex(nil)
	}
	return c.index
}
