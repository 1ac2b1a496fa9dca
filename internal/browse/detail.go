package browse

import (
	"context"
	"sync"

	"github.com/five82/pokedex/internal/pokeapi"
	"github.com/five82/pokedex/internal/query"
)

// DetailResult is the observable state of one detail lookup.
type DetailResult struct {
	Summary   *pokeapi.Summary
	IsLoading bool
	Err       *pokeapi.ErrorInfo
}

// DetailQuery resolves one record on demand. Each rendered card owns one and
// closes it when the card goes away.
type DetailQuery struct {
	key string
	obs *query.Observer[*pokeapi.Pokemon] // nil when the key is empty

	mu      sync.Mutex
	record  *pokeapi.Pokemon
	summary *pokeapi.Summary
}

// Card starts a lookup for a list entry, keyed by its numeric id when the
// reference carries one and by name otherwise.
func (c *Catalog) Card(ctx context.Context, ref pokeapi.ListRef, onChange func()) *DetailQuery {
	return c.Lookup(ctx, cardKey(ref), onChange)
}

// Lookup starts a lookup for a name or numeric id. An empty key never
// fetches and reports a validation error.
func (c *Catalog) Lookup(ctx context.Context, key string, onChange func()) *DetailQuery {
	q := &DetailQuery{key: pokeapi.NormalizeKey(key)}
	if q.key == "" {
		return q
	}
	q.obs = query.Observe(ctx, c.cache, DetailKey(q.key), c.detailOpts, c.detailFetcher(q.key), onChange)
	return q
}

// Key returns the normalized lookup key.
func (q *DetailQuery) Key() string { return q.key }

// Result returns the current state. The summary is recomputed only when the
// underlying record changes.
func (q *DetailQuery) Result() DetailResult {
	if q.obs == nil {
		return DetailResult{Err: pokeapi.Info(errMissingKey)}
	}
	s := q.obs.State()
	res := DetailResult{IsLoading: s.IsLoading, Err: pokeapi.Info(s.Err)}
	if !s.HasData {
		return res
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if s.Data != q.record {
		summary := pokeapi.ToSummary(s.Data)
		q.record, q.summary = s.Data, &summary
	}
	res.Summary = q.summary
	return res
}

// Retry refetches the record.
func (q *DetailQuery) Retry() {
	if q.obs != nil {
		q.obs.Refetch()
	}
}

// Close stops reporting changes.
func (q *DetailQuery) Close() {
	if q.obs != nil {
		q.obs.Close()
	}
}
