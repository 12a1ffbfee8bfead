// Package querycache caches read results keyed by endpoint and parameters,
// with tag-based invalidation.
//
// Each cached entry carries a set of tags (e.g. "faculties"). Invalidating
// a tag drops every entry filed under it and notifies the tag's listeners,
// which typically re-read. Concurrent reads of the same key share one
// fetch. A fetch that started before an invalidation of one of its tags
// never populates the cache.
package querycache

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Key identifies one cached read: endpoint plus canonical query string.
type Key string

// NewKey builds a key from an endpoint and its parameters. Parameter order
// does not matter.
func NewKey(endpoint string, params url.Values) Key {
	if len(params) == 0 {
		return Key(endpoint)
	}
	return Key(endpoint + "?" + params.Encode())
}

type entry struct {
	value     any
	tags      []string
	fetchedAt time.Time
}

type listener struct {
	id int
	fn func()
}

// Cache is safe for concurrent use.
type Cache struct {
	mu        sync.Mutex
	entries   map[Key]entry
	byTag     map[string]map[Key]struct{}
	epochs    map[string]uint64
	listeners map[string][]listener
	nextID    int

	group singleflight.Group
	ttl   time.Duration
	now   func() time.Time
	log   *zap.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL expires entries d after they were fetched. Zero keeps entries
// until invalidated.
func WithTTL(d time.Duration) Option {
	return func(c *Cache) { c.ttl = d }
}

// WithNow overrides the clock used for TTL checks.
func WithNow(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Cache) { c.log = l }
}

// New returns an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries:   make(map[Key]entry),
		byTag:     make(map[string]map[Key]struct{}),
		epochs:    make(map[string]uint64),
		listeners: make(map[string][]listener),
		now:       time.Now,
		log:       zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Fetch returns the cached value for key, or calls fn, caches its result
// under tags and returns it. Errors are never cached.
func Fetch[T any](ctx context.Context, c *Cache, key Key, tags []string, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.fresh(e) {
		c.mu.Unlock()
		v, ok := e.value.(T)
		if !ok {
			return zero, fmt.Errorf("querycache: %s holds %T", key, e.value)
		}
		return v, nil
	}
	epochs := c.snapshotEpochsLocked(tags)
	flight := string(key) + "#" + epochString(epochs)
	c.mu.Unlock()

	v, err, shared := c.group.Do(flight, func() (any, error) {
		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		c.store(key, tags, epochs, v)
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	if shared {
		c.log.Debug("shared in-flight read", zap.String("key", string(key)))
	}
	return v.(T), nil
}

func (c *Cache) store(key Key, tags []string, epochs []uint64, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, tag := range tags {
		if c.epochs[tag] != epochs[i] {
			c.log.Debug("dropping read raced by invalidation", zap.String("key", string(key)), zap.String("tag", tag))
			return
		}
	}
	c.entries[key] = entry{value: v, tags: tags, fetchedAt: c.now()}
	for _, tag := range tags {
		keys, ok := c.byTag[tag]
		if !ok {
			keys = make(map[Key]struct{})
			c.byTag[tag] = keys
		}
		keys[key] = struct{}{}
	}
}

func (c *Cache) fresh(e entry) bool {
	return c.ttl <= 0 || c.now().Sub(e.fetchedAt) < c.ttl
}

func (c *Cache) snapshotEpochsLocked(tags []string) []uint64 {
	out := make([]uint64, len(tags))
	for i, tag := range tags {
		out[i] = c.epochs[tag]
	}
	return out
}

func epochString(epochs []uint64) string {
	return fmt.Sprint(epochs)
}

// Invalidate drops every entry filed under any of tags, then calls the
// tags' listeners outside the lock.
func (c *Cache) Invalidate(tags ...string) {
	c.mu.Lock()
	var notify []func()
	dropped := 0
	for _, tag := range tags {
		c.epochs[tag]++
		for key := range c.byTag[tag] {
			if e, ok := c.entries[key]; ok {
				c.unindexLocked(key, e.tags)
				delete(c.entries, key)
				dropped++
			}
		}
		delete(c.byTag, tag)
		for _, l := range c.listeners[tag] {
			notify = append(notify, l.fn)
		}
	}
	c.mu.Unlock()

	c.log.Debug("invalidated", zap.Strings("tags", tags), zap.Int("entries", dropped))
	for _, fn := range notify {
		fn()
	}
}

func (c *Cache) unindexLocked(key Key, tags []string) {
	for _, tag := range tags {
		if keys, ok := c.byTag[tag]; ok {
			delete(keys, key)
			if len(keys) == 0 {
				delete(c.byTag, tag)
			}
		}
	}
}

// Subscribe calls fn after every invalidation of tag. The returned func
// removes the subscription.
func (c *Cache) Subscribe(tag string, fn func()) (unsubscribe func()) {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.listeners[tag] = append(c.listeners[tag], listener{id: id, fn: fn})
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		ls := c.listeners[tag]
		for i, l := range ls {
			if l.id == id {
				c.listeners[tag] = append(ls[:i:i], ls[i+1:]...)
				break
			}
		}
	}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
