package browse

import (
	"context"
	"slices"
	"sync"

	"github.com/five82/pokedex/internal/pokeapi"
	"github.com/five82/pokedex/internal/query"
)

// FeedResult is the observable state of a Feed.
type FeedResult struct {
	Items              []pokeapi.ListRef
	Pages              int
	TotalCount         int
	IsLoading          bool // first page outstanding
	IsFetchingNextPage bool // a later page outstanding
	HasNextPage        bool
	Err                *pokeapi.ErrorInfo
}

// Feed accumulates successive pages into one ordered sequence.
type Feed struct {
	catalog  *Catalog
	ctx      context.Context
	limit    int
	onChange func()

	mu       sync.Mutex
	pages    []*pokeapi.CollectionPage // replaced, never mutated
	fetching bool
	done     chan struct{}
	err      error
	closed   bool
}

// Feed returns an accumulating view with page size limit. Pages already
// accumulated for the same limit are restored from the cache while fresh.
// Nothing is fetched until LoadMore.
func (c *Catalog) Feed(ctx context.Context, limit int, onChange func()) *Feed {
	if limit < 1 {
		limit = pokeapi.DefaultLimit
	}
	f := &Feed{catalog: c, ctx: ctx, limit: limit, onChange: onChange}
	if pages, ok := query.Get[[]*pokeapi.CollectionPage](c.cache, InfiniteKey(limit)); ok {
		f.pages = pages
	}
	return f
}

// LoadMore fetches the next page. It reports false without fetching when no
// next page exists or a fetch is already outstanding.
func (f *Feed) LoadMore() bool {
	f.mu.Lock()
	if f.closed || f.fetching || !f.hasNext() {
		f.mu.Unlock()
		return false
	}
	offset := len(f.pages) * f.limit
	f.fetching = true
	f.done = make(chan struct{})
	done := f.done
	f.mu.Unlock()

	go f.fetch(offset, done)
	f.notify()
	return true
}

// Wait blocks until the outstanding fetch, if any, finishes.
func (f *Feed) Wait(ctx context.Context) error {
	f.mu.Lock()
	done := f.done
	f.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Result returns the current state.
func (f *Feed) Result() FeedResult {
	f.mu.Lock()
	defer f.mu.Unlock()

	res := FeedResult{
		Pages:              len(f.pages),
		IsLoading:          f.fetching && len(f.pages) == 0,
		IsFetchingNextPage: f.fetching && len(f.pages) > 0,
		HasNextPage:        f.hasNext(),
		Err:                pokeapi.Info(f.err),
	}
	n := 0
	for _, p := range f.pages {
		n += len(p.Items)
	}
	res.Items = make([]pokeapi.ListRef, 0, n)
	for _, p := range f.pages {
		res.Items = append(res.Items, p.Items...)
	}
	if len(f.pages) > 0 {
		res.TotalCount = f.pages[len(f.pages)-1].Count
	}
	return res
}

// Close discards any outstanding result and stops notifications.
func (f *Feed) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

func (f *Feed) fetch(offset int, done chan struct{}) {
	page, err := f.catalog.ListPage(f.ctx, offset, f.limit)

	f.mu.Lock()
	f.fetching = false
	f.done = nil
	defer close(done)
	if f.closed {
		f.mu.Unlock()
		return
	}
	if err != nil {
		f.err = err
		f.catalog.logger.Warn("load more failed", "offset", offset, "err", err)
	} else {
		f.err = nil
		f.pages = append(slices.Clip(f.pages), page)
		f.catalog.cache.Set(InfiniteKey(f.limit), ListOptions, f.pages)
	}
	f.mu.Unlock()
	f.notify()
}

// hasNext compares the items fetched so far with the latest reported count.
// Before the first page it is true. Callers hold f.mu.
func (f *Feed) hasNext() bool {
	if len(f.pages) == 0 {
		return true
	}
	last := f.pages[len(f.pages)-1]
	if len(last.Items) == 0 {
		return false
	}
	total := 0
	for _, p := range f.pages {
		total += len(p.Items)
	}
	return total < last.Count
}

func (f *Feed) notify() {
	if f.onChange != nil {
		f.onChange()
	}
}
