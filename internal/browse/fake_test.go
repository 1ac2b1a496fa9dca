package browse

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/five82/pokedex/internal/pokeapi"
	"github.com/five82/pokedex/internal/query"
)

// fakeAPI serves a synthetic collection of count entries named mon-1..mon-N.
type fakeAPI struct {
	count       int
	gate        chan struct{} // when set, list calls block until it is closed
	listCalls   atomic.Int32
	detailCalls atomic.Int32
	listErr     error
	detailErr   error // when set, every detail call fails with it
}

func (f *fakeAPI) ListPage(ctx context.Context, offset, limit int) (*pokeapi.CollectionPage, error) {
	f.listCalls.Add(1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	page := &pokeapi.CollectionPage{Count: f.count, Offset: offset, Limit: limit, Items: []pokeapi.ListRef{}}
	for i := offset; i < offset+limit && i < f.count; i++ {
		page.Items = append(page.Items, pokeapi.ListRef{
			Name: fmt.Sprintf("mon-%d", i+1),
			URL:  fmt.Sprintf("https://pokeapi.co/api/v2/pokemon/%d/", i+1),
		})
	}
	return page, nil
}

func (f *fakeAPI) GetDetail(_ context.Context, key string) (*pokeapi.Pokemon, error) {
	f.detailCalls.Add(1)
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	id, err := strconv.Atoi(key)
	if err != nil {
		if _, scanErr := fmt.Sscanf(key, "mon-%d", &id); scanErr != nil {
			return nil, &pokeapi.HTTPError{Status: 404, URL: key}
		}
	}
	if id < 1 || id > f.count {
		return nil, &pokeapi.HTTPError{Status: 404, URL: key}
	}
	return &pokeapi.Pokemon{
		ID:    id,
		Name:  fmt.Sprintf("mon-%d", id),
		Types: []pokeapi.TypeSlot{{Slot: 1, Type: pokeapi.NamedResource{Name: "normal"}}},
	}, nil
}

func newTestCatalog(api *fakeAPI) *Catalog {
	return NewCatalog(query.NewCache(), api, nil)
}
