package query

import (
	"context"
	"sync"
	"time"
)

// State is the observable shape of one query.
type State[T any] struct {
	Data       T
	HasData    bool
	IsLoading  bool // no data yet and a result is still expected
	IsFetching bool // any fetch outstanding, including background refetches
	Err        error
	UpdatedAt  time.Time
}

// Observer keeps a query alive in the cache and reports its changes.
// Observed entries are never evicted.
type Observer[T any] struct {
	cache *Cache
	entry *entry
	id    uint64
	ctx   context.Context

	mu       sync.Mutex // serializes callbacks with Close
	closed   bool
	onChange func()
}

// Observe subscribes to key and fetches it in the background when the
// cached value is missing or stale. onChange is called from the fetching
// goroutine whenever the entry changes; it must not block and must not call
// Close.
func Observe[T any](ctx context.Context, c *Cache, key Key, opts Options, fn func(context.Context) (T, error), onChange func()) *Observer[T] {
	o := &Observer[T]{
		cache:    c,
		ctx:      context.WithoutCancel(ctx),
		onChange: onChange,
	}

	c.mu.Lock()
	e := c.ensure(key, opts)
	e.fetcher = erase(fn)
	e.lastUsed = c.now()
	c.listenerID++
	o.id = c.listenerID
	o.entry = e
	e.listeners[o.id] = o.changed
	stale := !c.fresh(e)
	c.mu.Unlock()

	if stale {
		c.start(o.ctx, e)
	}
	return o
}

// State returns a snapshot of the observed entry.
func (o *Observer[T]) State() State[T] {
	c := o.cache
	c.mu.Lock()
	defer c.mu.Unlock()

	e := o.entry
	s := State[T]{
		IsFetching: e.fetching,
		Err:        e.err,
		UpdatedAt:  e.updatedAt,
	}
	if e.hasValue {
		if v, ok := e.value.(T); ok {
			s.Data = v
			s.HasData = true
		}
	}
	s.IsLoading = !s.HasData && (e.fetching || !e.settled)
	return s
}

// Refetch starts a new fetch regardless of freshness.
func (o *Observer[T]) Refetch() {
	if o.isClosed() {
		return
	}
	o.cache.force(o.ctx, o.entry)
}

// Close unsubscribes. No callback fires after Close returns; a fetch still in
// flight completes into the cache but is not reported.
func (o *Observer[T]) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	o.mu.Unlock()

	c := o.cache
	c.mu.Lock()
	delete(o.entry.listeners, o.id)
	o.entry.lastUsed = c.now()
	c.mu.Unlock()
}

func (o *Observer[T]) changed() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed || o.onChange == nil {
		return
	}
	o.onChange()
}

func (o *Observer[T]) isClosed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.closed
}
