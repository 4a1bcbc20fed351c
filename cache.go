package secblog

import (
	"database/sql"
	"sync"
	"time"

	"github.com/vladsec/secblog/views"
)

// ErrNotFound is the distinguishable "no rows" outcome for cached reads.
var ErrNotFound = sql.ErrNoRows

// Cache key names. Post and snippet entries append their slug/page name.
const (
	keyPosts         = "posts"
	keyPostPrefix    = "post:"
	keySnippetPrefix = "snippet:"
)

// QueryCache is an in-memory cache of store reads, keyed by logical
// resource name: the published post list, single posts by slug, and page
// snippets by name. The only mutation discipline is "invalidate keys that
// could be stale, then optionally force a refetch" — two edits racing from
// two sessions resolve last-write-wins at the store.
type QueryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	store   *Store
}

type cacheEntry struct {
	value   any
	fetched time.Time
}

// NewQueryCache creates a QueryCache backed by the given Store.
func NewQueryCache(s *Store, ttl time.Duration) *QueryCache {
	return &QueryCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		store:   s,
	}
}

func (c *QueryCache) get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || time.Since(e.fetched) >= c.ttl {
		return nil, false
	}
	return e.value, true
}

func (c *QueryCache) put(key string, value any) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{value: value, fetched: time.Now()}
	c.mu.Unlock()
}

// Invalidate drops the given keys so the next read triggers a fresh load.
func (c *QueryCache) Invalidate(keys ...string) {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	c.mu.Unlock()
}

// InvalidateAll clears every cached entry.
func (c *QueryCache) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// Posts returns the published post list, loading it on a cache miss.
func (c *QueryCache) Posts() ([]views.Post, error) {
	if v, ok := c.get(keyPosts); ok {
		return v.([]views.Post), nil
	}
	posts, err := c.store.ListPublishedPosts()
	if err != nil {
		return nil, err
	}
	c.put(keyPosts, posts)
	return posts, nil
}

// Post returns a single published post by slug. A missing post returns
// ErrNotFound and is never cached, so a later publish shows up immediately.
func (c *QueryCache) Post(slug string) (views.Post, error) {
	key := keyPostPrefix + slug
	if v, ok := c.get(key); ok {
		return v.(views.Post), nil
	}
	post, err := c.store.GetPublishedPost(slug)
	if err != nil {
		return views.Post{}, err
	}
	c.put(key, post)
	return post, nil
}

// RefreshPost forces an immediate refetch of the post keyed by slug,
// replacing whatever the cache held. Used after a confirmed edit so the
// detail view never serves the pre-edit row.
func (c *QueryCache) RefreshPost(slug string) (views.Post, error) {
	post, err := c.store.GetPublishedPost(slug)
	if err != nil {
		c.Invalidate(keyPostPrefix + slug)
		return views.Post{}, err
	}
	c.put(keyPostPrefix+slug, post)
	return post, nil
}

// Snippet returns the page snippet for page, or fallback when none is
// stored. The resolved content is cached either way.
func (c *QueryCache) Snippet(page, fallback string) (string, error) {
	key := keySnippetPrefix + page
	if v, ok := c.get(key); ok {
		return v.(string), nil
	}
	sn, err := c.store.GetSnippet(page)
	if err == sql.ErrNoRows {
		c.put(key, fallback)
		return fallback, nil
	}
	if err != nil {
		return "", err
	}
	c.put(key, sn.Content)
	return sn.Content, nil
}

// InvalidateSnippet drops the cached snippet for page.
func (c *QueryCache) InvalidateSnippet(page string) {
	c.Invalidate(keySnippetPrefix + page)
}

// InvalidatePost drops the cached entries that could contain the post
// under the given slugs, plus the post list.
func (c *QueryCache) InvalidatePost(slugs ...string) {
	keys := []string{keyPosts}
	for _, s := range slugs {
		keys = append(keys, keyPostPrefix+s)
	}
	c.Invalidate(keys...)
}
