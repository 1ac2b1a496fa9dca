package browse

import (
	"context"
	"sync"

	"github.com/five82/pokedex/internal/pokeapi"
	"github.com/five82/pokedex/internal/query"
)

// PageResult is the observable state of a Pager.
type PageResult struct {
	Items           []pokeapi.ListRef
	CurrentPage     int
	TotalPages      int
	TotalCount      int
	Limit           int
	IsLoading       bool
	Err             *pokeapi.ErrorInfo
	HasNextPage     bool
	HasPreviousPage bool
}

// Offset returns the collection offset of the current page.
func (r PageResult) Offset() int { return (r.CurrentPage - 1) * r.Limit }

// Pager is a page-indexed view over the collection. Pages are 1-indexed.
type Pager struct {
	catalog  *Catalog
	ctx      context.Context
	limit    int
	onChange func()

	mu     sync.Mutex
	page   int
	count  int
	known  bool
	obs    *query.Observer[*pokeapi.CollectionPage]
	closed bool
}

// Pager starts a pager on page 1. onChange fires whenever the current
// page's state changes; it must not block.
func (c *Catalog) Pager(ctx context.Context, limit int, onChange func()) *Pager {
	if limit < 1 {
		limit = pokeapi.DefaultLimit
	}
	p := &Pager{
		catalog:  c,
		ctx:      ctx,
		limit:    limit,
		onChange: onChange,
		page:     1,
	}
	p.mu.Lock()
	p.obs = p.observe(1)
	p.mu.Unlock()
	return p
}

// GoToPage switches to page n. It reports false and changes nothing when n
// is outside [1, TotalPages].
func (p *Pager) GoToPage(n int) bool {
	p.mu.Lock()
	p.refreshCount()
	if p.closed || n < 1 || n > p.totalPages() {
		p.mu.Unlock()
		return false
	}
	if n == p.page {
		p.mu.Unlock()
		return true
	}
	old := p.obs
	p.page = n
	p.obs = p.observe(n)
	p.mu.Unlock()

	// old's callbacks take p.mu, so it is closed after unlocking.
	old.Close()
	p.notify()
	return true
}

// NextPage advances one page unless on the last page.
func (p *Pager) NextPage() bool {
	return p.GoToPage(p.current() + 1)
}

// PreviousPage goes back one page unless on the first page.
func (p *Pager) PreviousPage() bool {
	return p.GoToPage(p.current() - 1)
}

// Retry refetches the current page.
func (p *Pager) Retry() {
	p.mu.Lock()
	obs := p.obs
	closed := p.closed
	p.mu.Unlock()
	if !closed {
		obs.Refetch()
	}
}

// Result returns the current state.
func (p *Pager) Result() PageResult {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.obs.State()
	if s.HasData {
		p.count, p.known = s.Data.Count, true
	}
	total := p.totalPages()
	res := PageResult{
		CurrentPage:     p.page,
		TotalPages:      total,
		TotalCount:      p.count,
		Limit:           p.limit,
		IsLoading:       s.IsLoading,
		Err:             pokeapi.Info(s.Err),
		HasNextPage:     p.page < total,
		HasPreviousPage: total > 0 && p.page > 1,
	}
	if s.HasData {
		res.Items = s.Data.Items
	}
	return res
}

// Close releases the current page's observer.
func (p *Pager) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	obs := p.obs
	p.mu.Unlock()
	obs.Close()
}

// observe subscribes to page n. Callers hold p.mu.
func (p *Pager) observe(n int) *query.Observer[*pokeapi.CollectionPage] {
	offset := (n - 1) * p.limit
	return query.Observe(p.ctx, p.catalog.cache, ListKey(offset, p.limit), ListOptions,
		p.catalog.listFetcher(offset, p.limit), func() { p.pageChanged(n) })
}

func (p *Pager) pageChanged(n int) {
	p.mu.Lock()
	current := !p.closed && n == p.page
	if current {
		p.refreshCount()
	}
	p.mu.Unlock()
	if current {
		p.notify()
	}
}

// refreshCount records the latest reported count. The last known count is
// kept while another page loads. Callers hold p.mu.
func (p *Pager) refreshCount() {
	if s := p.obs.State(); s.HasData {
		p.count, p.known = s.Data.Count, true
	}
}

func (p *Pager) totalPages() int {
	if !p.known || p.count <= 0 {
		return 0
	}
	return (p.count + p.limit - 1) / p.limit
}

func (p *Pager) current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

func (p *Pager) notify() {
	if p.onChange != nil {
		p.onChange()
	}
}
