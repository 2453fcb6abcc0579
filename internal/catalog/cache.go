// Package catalog owns the item definitions supplied by the host and the
// fallback used while a definition is still unknown.
package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/osse101/InventoryHUD_Go/internal/domain"
	"github.com/osse101/InventoryHUD_Go/internal/logger"
	"github.com/osse101/InventoryHUD_Go/internal/metrics"
)

// Fetcher asks the host for a single item definition. A nil result means the
// host does not know the item yet.
type Fetcher interface {
	GetItemData(ctx context.Context, name string) (*domain.ItemData, error)
}

// Config tunes the cache
type Config struct {
	MissingCacheSize int
	MissingCacheTTL  time.Duration
	FetchTimeout     time.Duration
	PrefetchLimit    int
}

func (c Config) withDefaults() Config {
	if c.MissingCacheSize <= 0 {
		c.MissingCacheSize = DefaultMissingCacheSize
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = DefaultFetchTimeout
	}
	if c.PrefetchLimit <= 0 {
		c.PrefetchLimit = DefaultPrefetchLimit
	}
	return c
}

// Cache maps item names to definitions. Entries are only ever added; transfer
// code never mutates them.
type Cache struct {
	mu         sync.RWMutex
	items      map[string]domain.ItemData
	inflight   map[string]struct{}
	generation uint64

	// names already warned about
	missing *expirable.LRU[string, struct{}]

	fetcher Fetcher
	cfg     Config

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates an empty cache backed by fetcher.
func New(fetcher Fetcher, cfg Config) *Cache {
	cfg = cfg.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	return &Cache{
		items:    make(map[string]domain.ItemData),
		inflight: make(map[string]struct{}),
		missing:  expirable.NewLRU[string, struct{}](cfg.MissingCacheSize, nil, cfg.MissingCacheTTL),
		fetcher:  fetcher,
		cfg:      cfg,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Get is an exact-name lookup.
func (c *Cache) Get(name string) (domain.ItemData, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, ok := c.items[name]
	return data, ok
}

// Lookup tries the exact name, then its lower-case and upper-case forms.
func (c *Cache) Lookup(name string) (domain.ItemData, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if data, ok := c.items[name]; ok {
		return data, true
	}
	// Casers carry state and are not safe for concurrent use
	if data, ok := c.items[cases.Lower(language.Und).String(name)]; ok {
		return data, true
	}
	if data, ok := c.items[cases.Upper(language.Und).String(name)]; ok {
		return data, true
	}
	return domain.ItemData{}, false
}

// Resolve returns the definition for the item in s. Unknown items get a
// definition synthesized from the slot itself and a background fetch; the
// first miss per name is logged.
func (c *Cache) Resolve(ctx context.Context, s domain.Slot) domain.ItemData {
	if data, ok := c.Lookup(s.Name); ok {
		return data
	}

	metrics.CatalogMisses.Inc()
	if !c.missing.Contains(s.Name) {
		c.missing.Add(s.Name, struct{}{})
		logger.FromContext(ctx).Warn(LogMsgItemDataMissing, "item", s.Name)
	}
	c.Backfill(s.Name)

	return Synthesize(s)
}

// Synthesize builds a minimal definition from the slot's own data.
func Synthesize(s domain.Slot) domain.ItemData {
	count := s.CountValue(1)
	data := domain.ItemData{
		Name:  s.Name,
		Label: s.Name,
		Stack: count > 1,
		Count: count,
	}
	if label, ok := s.Metadata.String(domain.MetaLabel); ok && label != "" {
		data.Label = label
	}
	if stack, ok := s.Metadata.Bool(domain.MetaStack); ok {
		data.Stack = stack
	}
	if desc, ok := s.Metadata.String(domain.MetaDescription); ok {
		data.Description = desc
	}
	if img, ok := s.Metadata.String(domain.MetaImage); ok {
		data.Image = img
	}
	return data
}

// Put adds a definition unless one is already present.
func (c *Cache) Put(data domain.ItemData) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.putLocked(data.Name, data)
}

func (c *Cache) putLocked(name string, data domain.ItemData) bool {
	if name == "" {
		return false
	}
	if _, ok := c.items[name]; ok {
		return false
	}
	c.items[name] = data
	return true
}

// Load installs the catalog sent with the init event, replacing any entry of
// the same name.
func (c *Cache) Load(ctx context.Context, items map[string]domain.ItemData) {
	c.mu.Lock()
	for name, data := range items {
		if data.Name == "" {
			data.Name = name
		}
		c.items[name] = data
	}
	total := len(c.items)
	c.mu.Unlock()

	logger.FromContext(ctx).Info(LogMsgCatalogLoaded, "received", len(items), "total", total)
}

// AddCount adjusts the global count of a known item. Unknown items are logged
// and ignored.
func (c *Cache) AddCount(ctx context.Context, name string, delta int) bool {
	c.mu.Lock()
	data, ok := c.items[name]
	if ok {
		data.Count += delta
		c.items[name] = data
	}
	c.mu.Unlock()

	if !ok {
		logger.FromContext(ctx).Debug(LogMsgItemCountUnknown, "item", name, "delta", delta)
	}
	return ok
}

// Snapshot copies every known definition.
func (c *Cache) Snapshot() map[string]domain.ItemData {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]domain.ItemData, len(c.items))
	for k, v := range c.items {
		out[k] = v
	}
	return out
}

// Len returns the number of known definitions.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// claim marks name as in flight. It refuses names that are already known or
// already being fetched.
func (c *Cache) claim(name string) (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if name == "" {
		return 0, false
	}
	if _, ok := c.items[name]; ok {
		return 0, false
	}
	if _, ok := c.inflight[name]; ok {
		return 0, false
	}
	c.inflight[name] = struct{}{}
	return c.generation, true
}

func (c *Cache) release(name string) {
	c.mu.Lock()
	delete(c.inflight, name)
	c.mu.Unlock()
}

// fetch asks the host for name and stores a usable answer. Answers that
// arrive after a Reset are dropped.
func (c *Cache) fetch(ctx context.Context, name string, gen uint64) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.FetchTimeout)
	defer cancel()

	data, err := c.fetcher.GetItemData(ctx, name)
	if err != nil {
		return err
	}
	if data == nil || data.Name == "" {
		return nil
	}

	c.mu.Lock()
	if gen == c.generation {
		c.putLocked(name, *data)
	}
	c.mu.Unlock()

	logger.FromContext(ctx).Debug(LogMsgItemFetched, "item", name)
	return nil
}

// Backfill fetches name in the background unless it is known or in flight.
func (c *Cache) Backfill(name string) {
	gen, ok := c.claim(name)
	if !ok {
		return
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer c.release(name)
		if err := c.fetch(c.ctx, name, gen); err != nil {
			logger.FromContext(c.ctx).Warn(LogMsgItemFetchFailed, "item", name, "error", err)
		}
	}()
}

// Prefetch fetches every unknown name in parallel and waits for them. The
// first failure cancels the remaining fetches and is returned.
func (c *Cache) Prefetch(ctx context.Context, names []string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.PrefetchLimit)

	started := 0
	for _, name := range names {
		gen, ok := c.claim(name)
		if !ok {
			continue
		}
		started++
		g.Go(func() error {
			defer c.release(name)
			return c.fetch(gctx, name, gen)
		})
	}

	err := g.Wait()
	logger.FromContext(ctx).Debug(LogMsgPrefetchCompleted, "requested", len(names), "fetched", started)
	return err
}

// Wait blocks until background fetches have finished.
func (c *Cache) Wait() {
	c.wg.Wait()
}

// Reset forgets every definition and every warned-about name. Fetches still
// in flight finish but their answers are discarded.
func (c *Cache) Reset(ctx context.Context) {
	c.mu.Lock()
	c.items = make(map[string]domain.ItemData)
	c.generation++
	c.mu.Unlock()
	c.missing.Purge()

	logger.FromContext(ctx).Debug(LogMsgCatalogReset)
}

// Close cancels background fetches and waits for them to return.
func (c *Cache) Close() {
	c.cancel()
	c.wg.Wait()
}
