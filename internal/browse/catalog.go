package browse

import (
	"context"
	"io"
	"strconv"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/five82/pokedex/internal/pokeapi"
	"github.com/five82/pokedex/internal/query"
)

const resolveConcurrency = 8

// Catalog routes every collection read through a shared cache.
type Catalog struct {
	cache  *query.Cache
	api    pokeapi.Fetcher
	logger *log.Logger

	detailOpts query.Options
}

// NewCatalog returns a Catalog reading from api through cache.
func NewCatalog(cache *query.Cache, api pokeapi.Fetcher, logger *log.Logger) *Catalog {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Catalog{cache: cache, api: api, logger: logger, detailOpts: DetailOptions}
}

// Cache returns the underlying cache.
func (c *Catalog) Cache() *query.Cache { return c.cache }

// ListPage returns one window of the collection.
func (c *Catalog) ListPage(ctx context.Context, offset, limit int) (*pokeapi.CollectionPage, error) {
	return query.Fetch(ctx, c.cache, ListKey(offset, limit), ListOptions, c.listFetcher(offset, limit))
}

// Detail returns the record for a name or numeric id.
func (c *Catalog) Detail(ctx context.Context, key string) (*pokeapi.Pokemon, error) {
	normalized := pokeapi.NormalizeKey(key)
	if normalized == "" {
		return nil, errMissingKey
	}
	return query.Fetch(ctx, c.cache, DetailKey(normalized), c.detailOpts, c.detailFetcher(normalized))
}

// Summary returns the display projection of the record for key.
func (c *Catalog) Summary(ctx context.Context, key string) (*pokeapi.Summary, error) {
	p, err := c.Detail(ctx, key)
	if err != nil {
		return nil, err
	}
	s := pokeapi.ToSummary(p)
	return &s, nil
}

// Many is the combined result of ResolveMany.
type Many struct {
	// Summaries is index-aligned with the requested keys; failed keys are nil.
	Summaries []*pokeapi.Summary
	// Err is the first failure in key order.
	Err *pokeapi.ErrorInfo
}

// ResolveMany fetches several detail summaries concurrently. One failing key
// does not stop the others.
func (c *Catalog) ResolveMany(ctx context.Context, keys []string) Many {
	out := Many{Summaries: make([]*pokeapi.Summary, len(keys))}
	errs := make([]error, len(keys))

	var g errgroup.Group
	g.SetLimit(resolveConcurrency)
	for i, key := range keys {
		g.Go(func() error {
			out.Summaries[i], errs[i] = c.Summary(ctx, key)
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			out.Err = pokeapi.Info(err)
			break
		}
	}
	return out
}

// Search looks a name up and returns nil on any failure.
func (c *Catalog) Search(ctx context.Context, name string) *pokeapi.Summary {
	s, err := c.Summary(ctx, name)
	if err != nil {
		c.logger.Debug("search failed", "name", name, "err", err)
		return nil
	}
	return s
}

func (c *Catalog) listFetcher(offset, limit int) func(context.Context) (*pokeapi.CollectionPage, error) {
	return func(ctx context.Context) (*pokeapi.CollectionPage, error) {
		return c.api.ListPage(ctx, offset, limit)
	}
}

func (c *Catalog) detailFetcher(key string) func(context.Context) (*pokeapi.Pokemon, error) {
	return func(ctx context.Context) (*pokeapi.Pokemon, error) {
		p, err := c.api.GetDetail(ctx, key)
		if err != nil {
			return nil, err
		}
		c.alias(key, p)
		return p, nil
	}
}

// alias stores p under its other lookup key so that name and id lookups
// share one fetch.
func (c *Catalog) alias(fetchedBy string, p *pokeapi.Pokemon) {
	if p == nil {
		return
	}
	other := strconv.Itoa(p.ID)
	if other == fetchedBy {
		other = pokeapi.NormalizeKey(p.Name)
	}
	if other == "" || other == "0" || other == fetchedBy {
		return
	}
	c.cache.Set(DetailKey(other), c.detailOpts, p)
}

var errMissingKey = &pokeapi.ValidationError{Field: "key", Reason: "pokemon name or id is required"}
