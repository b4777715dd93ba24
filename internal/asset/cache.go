package asset

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/microresearch/svgo/internal/store"
	"github.com/microresearch/svgo/internal/svgdoc"
)

// Catalog reports whether a name may be fetched.
type Catalog interface {
	Has(name string) bool
}

// Store persists fetched sources across sessions. *store.Store implements it.
type Store interface {
	PutAsset(ctx context.Context, name, source string) (bool, error)
	ListAssets(ctx context.Context) ([]store.Asset, error)
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Entries  int   `json:"entries"`
	Hits     int64 `json:"hits"`
	Misses   int64 `json:"misses"`
	Fetches  int64 `json:"fetches"`
	Failures int64 `json:"failures"`
}

// Option configures a Cache.
type Option func(*Cache)

// WithStore mirrors every newly cached source into s and lets Warm preload
// from it. Store errors are logged and never fail a Get.
func WithStore(s Store) Option {
	return func(c *Cache) { c.store = s }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// Cache maps icon names to raw SVG source.
type Cache struct {
	fetcher Fetcher
	known   Catalog
	store   Store
	logger  *slog.Logger

	mu      sync.RWMutex
	entries map[string]string

	group singleflight.Group

	hits     atomic.Int64
	misses   atomic.Int64
	fetches  atomic.Int64
	failures atomic.Int64
}

// New creates an empty cache. known may be nil, in which case every valid
// name is fetchable.
func New(fetcher Fetcher, known Catalog, opts ...Option) *Cache {
	c := &Cache{
		fetcher: fetcher,
		known:   known,
		logger:  slog.Default(),
		entries: make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup returns the cached source for name without fetching.
func (c *Cache) Lookup(name string) (string, bool) {
	c.mu.RLock()
	src, ok := c.entries[name]
	c.mu.RUnlock()
	return src, ok
}

// Get returns the source for name, fetching it on first use. Concurrent
// callers for the same name share one fetch. Cancelling ctx abandons the
// wait but not the fetch; the result still lands in the cache.
func (c *Cache) Get(ctx context.Context, name string) (string, error) {
	if src, ok := c.Lookup(name); ok {
		c.hits.Add(1)
		return src, nil
	}
	if c.known != nil && !c.known.Has(name) {
		return "", &FetchError{Name: name, Err: fmt.Errorf("%w: not in catalog", ErrAssetNotFound)}
	}
	c.misses.Add(1)

	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(name, func() (any, error) {
		return c.fetch(fetchCtx, name)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// fetch runs inside the singleflight group.
func (c *Cache) fetch(ctx context.Context, name string) (string, error) {
	// A flight that finished between Lookup and DoChan already stored it.
	if src, ok := c.Lookup(name); ok {
		return src, nil
	}

	c.fetches.Add(1)
	data, err := c.fetcher.Fetch(ctx, name)
	if err != nil {
		c.failures.Add(1)
		c.logger.Debug("asset fetch failed", "name", name, "error", err)
		return "", err
	}
	if _, err := svgdoc.Parse(data); err != nil {
		c.failures.Add(1)
		c.logger.Debug("asset rejected", "name", name, "error", err)
		return "", &FetchError{Name: name, Err: err}
	}

	src := c.put(name, string(data))
	if c.store != nil {
		if _, err := c.store.PutAsset(ctx, name, src); err != nil {
			c.logger.Warn("asset persist failed", "name", name, "error", err)
		}
	}
	return src, nil
}

// put stores src unless name already has an entry, and returns the entry.
func (c *Cache) put(name, src string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[name]; ok {
		return existing
	}
	c.entries[name] = src
	return src
}

// Warm preloads the cache from the store. Entries whose name is no longer
// in the catalog, whose digest does not match, or that fail to parse are
// skipped. Returns the number of entries loaded.
func (c *Cache) Warm(ctx context.Context) (int, error) {
	if c.store == nil {
		return 0, nil
	}
	assets, err := c.store.ListAssets(ctx)
	if err != nil {
		return 0, fmt.Errorf("warm cache: %w", err)
	}

	loaded := 0
	for _, a := range assets {
		switch {
		case c.known != nil && !c.known.Has(a.Name):
			c.logger.Debug("skipping stored asset", "name", a.Name, "reason", "not in catalog")
			continue
		case !a.Valid():
			c.logger.Warn("skipping stored asset", "name", a.Name, "reason", "digest mismatch")
			continue
		}
		if _, err := svgdoc.ParseString(a.Source); err != nil {
			c.logger.Warn("skipping stored asset", "name", a.Name, "reason", err)
			continue
		}
		c.put(a.Name, a.Source)
		loaded++
	}
	c.logger.Debug("asset cache warmed", "loaded", loaded, "stored", len(assets))
	return loaded, nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Entries:  c.Len(),
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
		Fetches:  c.fetches.Load(),
		Failures: c.failures.Load(),
	}
}
