package provider

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/devpulse/devpulse/pkg/model"
)

// DefaultCacheEntries is the default maximum number of (repo, window)
// commit-list entries an in-memory Cache retains before evicting the least
// recently used.
const DefaultCacheEntries = 256

// Cache wraps a Provider with an in-memory LRU keyed by repository id plus
// window, avoiding duplicate upstream calls when multiple reporters (or a
// backfill run) request overlapping windows in the same process. Cache
// satisfies observability.CacheStatsProvider via CacheHits/CacheMisses.
type Cache struct {
	inner Provider

	mu       sync.Mutex
	entries  map[cacheKey]*cacheEntry
	head     *cacheEntry
	tail     *cacheEntry
	maxSize  int
	curSize  int

	hits   atomic.Int64
	misses atomic.Int64
}

type cacheKey struct {
	repoID string
	branch string
	since  int64
	until  int64
}

type cacheEntry struct {
	key     cacheKey
	commits []model.Commit
	prev    *cacheEntry
	next    *cacheEntry
}

// NewCache wraps inner with an LRU cache holding at most maxEntries (repo,
// window) results. maxEntries <= 0 uses DefaultCacheEntries.
func NewCache(inner Provider, maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheEntries
	}

	return &Cache{
		inner:   inner,
		entries: make(map[cacheKey]*cacheEntry),
		maxSize: maxEntries,
	}
}

// CacheHits returns the cumulative number of GetCommits calls served from
// the cache.
func (c *Cache) CacheHits() int64 { return c.hits.Load() }

// CacheMisses returns the cumulative number of GetCommits calls that missed
// the cache and were forwarded to the wrapped provider.
func (c *Cache) CacheMisses() int64 { return c.misses.Load() }

func (c *Cache) key(repoID, branch string, since, until time.Time) cacheKey {
	return cacheKey{repoID: repoID, branch: branch, since: since.Unix(), until: until.Unix()}
}

func (c *Cache) get(key cacheKey) ([]model.Commit, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)

		return nil, false
	}

	c.moveToFront(entry)
	c.hits.Add(1)

	return entry.commits, true
}

func (c *Cache) put(key cacheKey, commits []model.Commit) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[key]; ok {
		existing.commits = commits
		c.moveToFront(existing)

		return
	}

	entry := &cacheEntry{key: key, commits: commits}
	c.entries[key] = entry
	c.pushFront(entry)
	c.curSize++

	if c.curSize > c.maxSize {
		c.evictOldest()
	}
}

func (c *Cache) moveToFront(e *cacheEntry) {
	if c.head == e {
		return
	}

	c.unlink(e)
	c.pushFront(e)
}

func (c *Cache) pushFront(e *cacheEntry) {
	e.prev = nil
	e.next = c.head

	if c.head != nil {
		c.head.prev = e
	}

	c.head = e

	if c.tail == nil {
		c.tail = e
	}
}

func (c *Cache) unlink(e *cacheEntry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}

	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}

	e.prev, e.next = nil, nil
}

func (c *Cache) evictOldest() {
	if c.tail == nil {
		return
	}

	oldest := c.tail
	c.unlink(oldest)
	delete(c.entries, oldest.key)
	c.curSize--
}

// ListRepositories delegates to inner uncached; repository listings are
// cheap and change across the process lifetime more readily than commit
// windows.
func (c *Cache) ListRepositories(ctx context.Context) ([]model.Repository, error) {
	return c.inner.ListRepositories(ctx)
}

// GetCommits serves from cache on a (repoID, branch, since, until) hit;
// otherwise delegates and stores the result.
func (c *Cache) GetCommits(ctx context.Context, repoID string, since, until time.Time, branch string) ([]model.Commit, error) {
	key := c.key(repoID, branch, since, until)

	if commits, ok := c.get(key); ok {
		return commits, nil
	}

	commits, err := c.inner.GetCommits(ctx, repoID, since, until, branch)
	if err != nil {
		return nil, err
	}

	c.put(key, commits)

	return commits, nil
}

func (c *Cache) GetFileContent(ctx context.Context, repoID, path, ref string) (string, bool, error) {
	return c.inner.GetFileContent(ctx, repoID, path, ref)
}

func (c *Cache) GetFileLineCount(ctx context.Context, repoID, path, ref string) (int, error) {
	return c.inner.GetFileLineCount(ctx, repoID, path, ref)
}

func (c *Cache) GetFileHistory(ctx context.Context, repoID, path string, since, until time.Time) ([]model.Commit, error) {
	return c.inner.GetFileHistory(ctx, repoID, path, since, until)
}

// Cleanup releases the wrapped provider's resources.
func (c *Cache) Cleanup() error {
	return c.inner.Cleanup()
}
