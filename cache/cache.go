// Package cache is a minimal example of the buffer/cache layer the node
// package treats as an external collaborator: something that hands out
// *page.Page handles keyed by base.PageIndex, latched and evicted
// independently of anything the node core knows about. It exists so the
// rest of this module can be exercised end to end in tests; a real
// deployment's cache almost certainly needs write-back scheduling and
// crash recovery this one does not attempt.
package cache

import (
	"sync"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/sebtreedb/sebtree/base"
	"github.com/sebtreedb/sebtree/page"
	"github.com/sebtreedb/sebtree/pool"
)

// Cache is a page cache with admission and eviction driven by ristretto's
// TinyLFU policy. Every resident page counts one unit of cost, so MaxCost
// is simply the working-set size in pages.
type Cache struct {
	store   Storage
	buffers *pool.Pool
	pages   *ristretto.Cache[base.PageIndex, *page.Page]

	mu       sync.Mutex
	resident map[base.PageIndex]struct{}
}

// Config controls the cache's capacity.
type Config struct {
	// MaxPages bounds the number of resident pages.
	MaxPages int64
	// NumCounters sizes ristretto's admission-frequency sketch; a few
	// times MaxPages is the usual rule of thumb.
	NumCounters int64
}

// DefaultConfig sizes the cache for a few thousand resident pages.
func DefaultConfig() Config {
	return Config{MaxPages: 4096, NumCounters: 40_000}
}

// New builds a Cache over store, evicting released page buffers back into
// a shared pool sized around base.PageSize.
func New(store Storage, cfg Config) (*Cache, error) {
	buffers := pool.New(uint32(base.PageSize), uint32(base.PageSize))

	c := &Cache{store: store, buffers: buffers, resident: make(map[base.PageIndex]struct{})}

	pages, err := ristretto.NewCache(&ristretto.Config[base.PageIndex, *page.Page]{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxPages,
		BufferItems: 64,
		// Cost is counted in pages, so ristretto's per-item bookkeeping
		// overhead must not be added to it.
		IgnoreInternalCost: true,
		OnEvict: func(item *ristretto.Item[*page.Page]) {
			c.evict(item.Value)
		},
	})
	if err != nil {
		return nil, err
	}
	c.pages = pages
	return c, nil
}

func (c *Cache) evict(p *page.Page) {
	if p == nil {
		return
	}
	c.mu.Lock()
	delete(c.resident, p.GetPageIndex())
	c.mu.Unlock()

	_ = c.store.Store(p)
	p.Release(c.buffers)
}

func (c *Cache) track(id base.PageIndex) {
	c.mu.Lock()
	c.resident[id] = struct{}{}
	c.mu.Unlock()
}

// Fetch returns the page for id, loading it from the backing store and
// admitting it into the cache on a miss.
func (c *Cache) Fetch(id base.PageIndex) (*page.Page, error) {
	if p, ok := c.pages.Get(id); ok {
		return p, nil
	}
	p, err := c.store.Load(id, c.buffers)
	if err != nil {
		return nil, err
	}
	c.pages.Set(id, p, 1)
	c.pages.Wait()
	c.track(id)
	return p, nil
}

// Allocate obtains a fresh page from the backing store and admits it into
// the cache, ready for a caller to run beginCreate against.
func (c *Cache) Allocate() (*page.Page, error) {
	p, err := c.store.Allocate(c.buffers)
	if err != nil {
		return nil, err
	}
	c.pages.Set(p.GetPageIndex(), p, 1)
	c.pages.Wait()
	c.track(p.GetPageIndex())
	return p, nil
}

// Flush writes every page currently resident in the cache back to the
// store, without evicting them.
func (c *Cache) Flush() error {
	c.pages.Wait()

	c.mu.Lock()
	ids := make([]base.PageIndex, 0, len(c.resident))
	for id := range c.resident {
		ids = append(ids, id)
	}
	c.mu.Unlock()

	var firstErr error
	for _, id := range ids {
		p, ok := c.pages.Get(id)
		if !ok {
			continue
		}
		if err := c.store.Store(p); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close flushes and releases ristretto's background goroutines.
func (c *Cache) Close() error {
	err := c.Flush()
	c.pages.Close()
	return err
}
