package query

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

const defaultMaxEntries = 2048

type fetchFunc func(context.Context) (any, error)

// entry is one cached query. All fields are guarded by Cache.mu.
type entry struct {
	key  Key
	hash string
	opts Options

	value       any
	hasValue    bool
	err         error
	settled     bool
	invalidated bool
	updatedAt   time.Time
	lastUsed    time.Time

	fetching bool
	started  uint64 // sequence of the newest attempt
	issued   uint64 // sequence of the result currently stored
	dropped  bool

	fetcher   fetchFunc
	listeners map[uint64]func()
}

// Cache is a process-wide store of query results keyed by Key. It guarantees
// at most one in-flight fetch per key and serves fresh results without
// refetching. The zero value is not usable; call NewCache.
type Cache struct {
	mu         sync.Mutex
	entries    *lru.Cache[string, *entry]
	pinned     map[string]*entry // observed entries pushed out of the LRU
	flights    singleflight.Group
	seq        uint64
	listenerID uint64

	maxEntries int
	now        func() time.Time
	logger     *log.Logger
}

// CacheOption customizes a Cache.
type CacheOption func(*Cache)

// WithMaxEntries bounds the number of unobserved entries kept.
func WithMaxEntries(n int) CacheOption {
	return func(c *Cache) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// WithClock replaces time.Now for staleness and retention checks.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger routes cache logging to logger.
func WithLogger(logger *log.Logger) CacheOption {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCache builds an empty cache.
func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{
		pinned:     make(map[string]*entry),
		maxEntries: defaultMaxEntries,
		now:        time.Now,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	// maxEntries is always positive, which is the only failure condition.
	c.entries, _ = lru.NewWithEvict[string, *entry](c.maxEntries, c.onEvict)
	return c
}

// Fetch returns the cached value for key when it is fresh, and otherwise runs
// fn. Concurrent calls for the same key share one execution of fn, including
// its retries. fn runs on a context detached from ctx so that a caller giving
// up does not abort the shared request; the caller still stops waiting when
// ctx is done. When a newer write lands while the call is in flight, the
// caller gets the stored value rather than its own superseded result.
func Fetch[T any](ctx context.Context, c *Cache, key Key, opts Options, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	c.mu.Lock()
	e := c.ensure(key, opts)
	e.fetcher = erase(fn)
	e.lastUsed = c.now()
	if c.fresh(e) {
		v := e.value
		c.mu.Unlock()
		c.logger.Debug("cache hit", "key", e.hash)
		return cast[T](e.hash, v)
	}
	c.mu.Unlock()
	c.logger.Debug("cache miss", "key", e.hash)

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-c.start(ctx, e):
		if res.Shared {
			c.logger.Debug("shared in-flight fetch", "key", e.hash)
		}
		if res.Err != nil {
			return zero, res.Err
		}
		v := res.Val
		c.mu.Lock()
		if c.fresh(e) {
			v = e.value
		}
		c.mu.Unlock()
		return cast[T](e.hash, v)
	}
}

// Get returns the cached value for key if present and fresh.
func Get[T any](c *Cache, key Key) (T, bool) {
	var zero T
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.lookup(key.String())
	if !ok || !c.fresh(e) {
		return zero, false
	}
	v, ok := e.value.(T)
	if !ok {
		return zero, false
	}
	e.lastUsed = c.now()
	return v, true
}

// Set stores value under key as a new successful result. Any fetch for key
// that was issued before Set is dropped when it completes.
func (c *Cache) Set(key Key, opts Options, value any) {
	c.mu.Lock()
	e := c.ensure(key, opts)
	c.seq++
	e.issued = c.seq
	e.value = value
	e.hasValue = true
	e.err = nil
	e.settled = true
	e.invalidated = false
	e.updatedAt = c.now()
	e.lastUsed = e.updatedAt
	c.mu.Unlock()
	c.notify(e)
}

// Invalidate marks every entry whose key starts with prefix as stale and
// refetches the ones that are being observed. It returns the number of
// entries marked.
func (c *Cache) Invalidate(prefix Key) int {
	c.mu.Lock()
	var refetch []*entry
	n := 0
	for _, e := range c.all() {
		if !e.key.HasPrefix(prefix) {
			continue
		}
		e.invalidated = true
		n++
		if len(e.listeners) > 0 && e.fetcher != nil {
			refetch = append(refetch, e)
		}
	}
	c.mu.Unlock()

	for _, e := range refetch {
		c.force(context.Background(), e)
	}
	return n
}

// Remove drops the entry for key. Observed entries are reset and refetched
// instead of being dropped.
func (c *Cache) Remove(key Key) {
	h := key.String()
	c.mu.Lock()
	e, ok := c.peek(h)
	if !ok {
		c.mu.Unlock()
		return
	}
	refetch := c.drop(e)
	c.mu.Unlock()
	c.after(refetch)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	var refetch []*entry
	for _, e := range c.all() {
		refetch = append(refetch, c.drop(e)...)
	}
	c.mu.Unlock()
	c.after(refetch)
}

// Focus refetches observed stale entries whose options enable
// RefetchOnFocus. It returns the number of fetches started.
func (c *Cache) Focus() int {
	c.mu.Lock()
	var due []*entry
	for _, e := range c.all() {
		if e.opts.RefetchOnFocus && len(e.listeners) > 0 && e.fetcher != nil && !c.fresh(e) {
			due = append(due, e)
		}
	}
	c.mu.Unlock()

	for _, e := range due {
		c.start(context.Background(), e)
	}
	return len(due)
}

// Sweep evicts entries that have had no observers and no fetch for at least
// their IdleRetention. It returns the number evicted.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	n := 0
	for _, e := range c.all() {
		if len(e.listeners) > 0 || e.fetching {
			continue
		}
		if now.Sub(e.lastUsed) < e.opts.IdleRetention {
			continue
		}
		c.evict(e)
		n++
	}
	return n
}

// Len returns the number of entries held.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len() + len(c.pinned)
}

// ensure returns the entry for key, creating it if needed. opts replace the
// entry's previous options. Callers hold c.mu.
func (c *Cache) ensure(key Key, opts Options) *entry {
	h := key.String()
	e, ok := c.lookup(h)
	if !ok {
		e = &entry{
			key:       key,
			hash:      h,
			lastUsed:  c.now(),
			listeners: make(map[uint64]func()),
		}
		c.entries.Add(h, e)
	}
	e.opts = opts.withDefaults()
	return e
}

// lookup finds an entry and marks it recently used. Callers hold c.mu.
func (c *Cache) lookup(h string) (*entry, bool) {
	if e, ok := c.entries.Get(h); ok {
		return e, true
	}
	if e, ok := c.pinned[h]; ok {
		delete(c.pinned, h)
		c.entries.Add(h, e)
		return e, true
	}
	return nil, false
}

func (c *Cache) peek(h string) (*entry, bool) {
	if e, ok := c.entries.Peek(h); ok {
		return e, true
	}
	e, ok := c.pinned[h]
	return e, ok
}

func (c *Cache) all() []*entry {
	out := c.entries.Values()
	for _, e := range c.pinned {
		out = append(out, e)
	}
	return out
}

// onEvict runs synchronously inside LRU calls, which always happen with c.mu
// held.
func (c *Cache) onEvict(h string, e *entry) {
	if e.dropped {
		return
	}
	if len(e.listeners) > 0 || e.fetching {
		c.pinned[h] = e
		return
	}
	e.dropped = true
	c.logger.Debug("cache evict", "key", h, "reason", "capacity")
}

func (c *Cache) evict(e *entry) {
	e.dropped = true
	c.entries.Remove(e.hash)
	delete(c.pinned, e.hash)
	c.flights.Forget(e.hash)
	c.logger.Debug("cache evict", "key", e.hash, "reason", "idle")
}

// drop removes e, or resets it in place when observed. It returns the
// entries that need a refetch. Callers hold c.mu.
func (c *Cache) drop(e *entry) []*entry {
	c.flights.Forget(e.hash)
	if len(e.listeners) == 0 {
		e.dropped = true
		c.entries.Remove(e.hash)
		delete(c.pinned, e.hash)
		return nil
	}
	c.seq++
	e.issued = c.seq
	e.value = nil
	e.hasValue = false
	e.err = nil
	e.settled = false
	e.invalidated = false
	e.updatedAt = time.Time{}
	if e.fetcher == nil {
		return nil
	}
	return []*entry{e}
}

func (c *Cache) after(refetch []*entry) {
	for _, e := range refetch {
		c.notify(e)
		c.start(context.Background(), e)
	}
}

func (c *Cache) fresh(e *entry) bool {
	return e.hasValue && e.err == nil && !e.invalidated && c.now().Sub(e.updatedAt) < e.opts.StaleTime
}

// start joins or begins the single flight for e.
func (c *Cache) start(ctx context.Context, e *entry) <-chan singleflight.Result {
	detached := context.WithoutCancel(ctx)
	return c.flights.DoChan(e.hash, func() (any, error) {
		return c.run(detached, e)
	})
}

// force begins a new flight for e even if one is outstanding. The older
// flight's result loses to this one.
func (c *Cache) force(ctx context.Context, e *entry) {
	c.flights.Forget(e.hash)
	c.start(ctx, e)
}

func (c *Cache) run(ctx context.Context, e *entry) (any, error) {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	e.started = seq
	e.fetching = true
	fn, opts := e.fetcher, e.opts
	c.mu.Unlock()
	c.notify(e)

	value, err := c.attempt(ctx, e.hash, fn, opts)

	c.mu.Lock()
	if e.started == seq {
		e.fetching = false
	}
	applied := seq >= e.issued && !e.dropped
	if applied {
		e.issued = seq
		e.settled = true
		if err == nil {
			e.value = value
			e.hasValue = true
			e.err = nil
			e.invalidated = false
			e.updatedAt = c.now()
		} else {
			e.err = err
		}
	}
	e.lastUsed = c.now()
	c.mu.Unlock()

	if !applied {
		c.logger.Debug("discarding superseded result", "key", e.hash)
	}
	c.notify(e)
	return value, err
}

func (c *Cache) attempt(ctx context.Context, h string, fn fetchFunc, opts Options) (any, error) {
	if fn == nil {
		return nil, fmt.Errorf("query %s: no fetch function", h)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = opts.RetryDelay
	b.MaxInterval = opts.RetryMaxDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()

	var (
		value    any
		failures int
	)
	op := func() error {
		v, err := fn(ctx)
		if err == nil {
			value = v
			return nil
		}
		if !opts.Retry(failures, err) {
			return backoff.Permanent(err)
		}
		failures++
		return err
	}
	notify := func(err error, wait time.Duration) {
		c.logger.Warn("retrying query", "key", h, "failures", failures, "wait", wait, "err", err)
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify); err != nil {
		return nil, err
	}
	return value, nil
}

func (c *Cache) notify(e *entry) {
	c.mu.Lock()
	fns := make([]func(), 0, len(e.listeners))
	for _, fn := range e.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func erase[T any](fn func(context.Context) (T, error)) fetchFunc {
	if fn == nil {
		return nil
	}
	return func(ctx context.Context) (any, error) {
		return fn(ctx)
	}
}

func cast[T any](h string, v any) (T, error) {
	t, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("query %s: cached value has type %T", h, v)
	}
	return t, nil
}
