package summarizer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/couchcryptid/quake-query-service/internal/domain"
	"github.com/couchcryptid/quake-query-service/internal/observability"
)

// CachedSummarizer wraps a Summarizer with an in-memory LRU cache keyed by a
// digest of the prompt. Identical event lists produce identical prompts, so
// repeated queries within the same window reuse the earlier notes instead of
// paying for another completion.
type CachedSummarizer struct {
	inner   domain.Summarizer
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedSummarizer creates a cache decorator around a summarizer.
func NewCachedSummarizer(inner domain.Summarizer, maxEntries int, metrics *observability.Metrics) *CachedSummarizer {
	return &CachedSummarizer{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedSummarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	key := promptKey(prompt)
	if notes, ok := c.cache.get(key); ok {
		c.metrics.SummaryCache.WithLabelValues("hit").Inc()
		return notes, nil
	}
	c.metrics.SummaryCache.WithLabelValues("miss").Inc()

	notes, err := c.inner.Summarize(ctx, prompt)
	if err != nil {
		return "", err
	}
	// Only cache non-empty notes so a transient empty completion can be retried.
	if notes != "" {
		c.cache.put(key, notes)
	}
	return notes, nil
}

// promptKey hashes the prompt so cache keys stay small regardless of how many
// events the digest contains.
func promptKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}

// lruCache is a simple thread-safe LRU cache for notes strings.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value string
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
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
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
