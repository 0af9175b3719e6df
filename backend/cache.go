package backend

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eringen/folio/content"
)

// recordCache stores decoded content records keyed by record id.
type recordCache interface {
	get(ctx context.Context, id int64) (content.Record, bool)
	set(ctx context.Context, id int64, rec content.Record)
	invalidate(ctx context.Context, id int64)
	Close() error
}

// CachedContent wraps a ContentStore with a TTL cache for visitor reads.
// Failed reads are never cached, and a successful update invalidates the
// record so the next visitor sees the saved content.
type CachedContent struct {
	inner ContentStore
	cache recordCache
	mu    sync.Mutex // serialises reloads of a missing entry

	genMu sync.Mutex // guards gen and orders set against invalidate
	gen   uint64
}

// NewCachedContent caches records from inner in memory for ttl.
func NewCachedContent(inner ContentStore, ttl time.Duration) *CachedContent {
	return &CachedContent{inner: inner, cache: newMemoryCache(ttl)}
}

// GetContent returns the cached record or loads it from the wrapped store.
func (c *CachedContent) GetContent(ctx context.Context, id int64) (content.Record, error) {
	if rec, ok := c.cache.get(ctx, id); ok {
		return rec, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if rec, ok := c.cache.get(ctx, id); ok {
		return rec, nil
	}

	c.genMu.Lock()
	gen := c.gen
	c.genMu.Unlock()

	rec, err := c.inner.GetContent(ctx, id)
	if err != nil {
		return content.Record{}, err
	}

	// A read that raced with an update may hold the old record; it is
	// returned but not cached.
	c.genMu.Lock()
	if c.gen == gen {
		c.cache.set(ctx, id, rec)
	}
	c.genMu.Unlock()
	return rec.Clone(), nil
}

// UpdateContent writes through to the wrapped store and invalidates the entry.
func (c *CachedContent) UpdateContent(ctx context.Context, id int64, rec content.Record) error {
	if err := c.inner.UpdateContent(ctx, id, rec); err != nil {
		return err
	}
	c.Invalidate(ctx, id)
	return nil
}

// Invalidate drops the cached record with the given id. Reads already in
// flight will not repopulate it.
func (c *CachedContent) Invalidate(ctx context.Context, id int64) {
	c.genMu.Lock()
	defer c.genMu.Unlock()
	c.gen++
	c.cache.invalidate(ctx, id)
}

// Direct returns a ContentStore that reads past the cache but still
// invalidates it on update. The editor uses it so a draft always starts
// from the stored record.
func (c *CachedContent) Direct() ContentStore {
	return directContent{c}
}

// Close releases the cache. The wrapped store stays open; it belongs to the
// backend Client that created it.
func (c *CachedContent) Close() error {
	return c.cache.Close()
}

type directContent struct{ c *CachedContent }

func (d directContent) GetContent(ctx context.Context, id int64) (content.Record, error) {
	return d.c.inner.GetContent(ctx, id)
}

func (d directContent) UpdateContent(ctx context.Context, id int64, rec content.Record) error {
	return d.c.UpdateContent(ctx, id, rec)
}

// memoryCache is an in-process recordCache with a single TTL.
type memoryCache struct {
	mu      sync.RWMutex
	entries map[int64]memoryEntry
	ttl     time.Duration
}

type memoryEntry struct {
	rec     content.Record
	fetched time.Time
}

func newMemoryCache(ttl time.Duration) *memoryCache {
	return &memoryCache{entries: make(map[int64]memoryEntry), ttl: ttl}
}

func (m *memoryCache) get(_ context.Context, id int64) (content.Record, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[id]
	if !ok || time.Since(e.fetched) >= m.ttl {
		return content.Record{}, false
	}
	return e.rec.Clone(), true
}

func (m *memoryCache) set(_ context.Context, id int64, rec content.Record) {
	m.mu.Lock()
	m.entries[id] = memoryEntry{rec: rec.Clone(), fetched: time.Now()}
	m.mu.Unlock()
}

func (m *memoryCache) invalidate(_ context.Context, id int64) {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
}

func (m *memoryCache) Close() error { return nil }

// RedisCacheOptions configures the shared Redis tier of CachedContent.
type RedisCacheOptions struct {
	URL            string        // redis://host:6379/0
	Prefix         string        // key prefix (default "folio:")
	TTL            time.Duration // entry lifetime
	ConnectTimeout time.Duration
}

// NewRedisCachedContent caches records from inner in Redis, so several
// server instances see the same invalidations.
func NewRedisCachedContent(inner ContentStore, opts RedisCacheOptions) (*CachedContent, error) {
	rc, err := newRedisCache(opts)
	if err != nil {
		return nil, err
	}
	return &CachedContent{inner: inner, cache: rc}, nil
}

type redisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func newRedisCache(opts RedisCacheOptions) (*redisCache, error) {
	if opts.URL == "" {
		return nil, errors.New("redis URL is required")
	}
	ro, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, err
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 5 * time.Second
	}
	ro.DialTimeout = opts.ConnectTimeout
	if opts.Prefix == "" {
		opts.Prefix = "folio:"
	}
	client := redis.NewClient(ro)

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &redisCache{client: client, prefix: opts.Prefix, ttl: opts.TTL}, nil
}

func (r *redisCache) key(id int64) string {
	return r.prefix + "content:" + strconv.FormatInt(id, 10)
}

// get treats every Redis failure as a miss; the store stays authoritative.
func (r *redisCache) get(ctx context.Context, id int64) (content.Record, bool) {
	b, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		return content.Record{}, false
	}
	var rec content.Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return content.Record{}, false
	}
	return rec.Normalize(), true
}

func (r *redisCache) set(ctx context.Context, id int64, rec content.Record) {
	b, err := json.Marshal(rec)
	if err != nil {
		return
	}
	_ = r.client.Set(ctx, r.key(id), b, r.ttl).Err()
}

func (r *redisCache) invalidate(ctx context.Context, id int64) {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		slog.Warn("content cache invalidation failed", "id", id, "error", err)
	}
}

func (r *redisCache) Close() error {
	return r.client.Close()
}
