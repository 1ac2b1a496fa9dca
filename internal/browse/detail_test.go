package browse

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/pokedex/internal/pokeapi"
)

func mustID(t *testing.T, url string) int {
	t.Helper()
	id, ok := pokeapi.ExtractID(url)
	require.True(t, ok, "no id in %q", url)
	return id
}

func waitDetail(t *testing.T, q *DetailQuery) DetailResult {
	t.Helper()
	var res DetailResult
	require.Eventually(t, func() bool {
		res = q.Result()
		return !res.IsLoading
	}, 2*time.Second, time.Millisecond)
	return res
}

func TestDetail_MissingEntryIsNotRetried(t *testing.T) {
	api := &fakeAPI{count: 10}
	catalog := newTestCatalog(api)

	q := catalog.Lookup(context.Background(), "missing-entry", nil)
	defer q.Close()
	res := waitDetail(t, q)

	require.NotNil(t, res.Err)
	assert.Equal(t, http.StatusNotFound, res.Err.StatusCode)
	assert.True(t, res.Err.NotFound())
	assert.Nil(t, res.Summary)
	assert.Equal(t, int32(1), api.detailCalls.Load())
}

func TestDetail_RetryPolicy(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCalls int32
	}{
		{"server error retried twice", &pokeapi.HTTPError{Status: http.StatusInternalServerError, URL: "7"}, 3},
		{"transport error retried twice", &pokeapi.TransportError{Err: errors.New("connection reset")}, 3},
		{"validation error not retried", &pokeapi.ValidationError{Field: "name", Reason: "bad"}, 1},
		{"not found not retried", &pokeapi.HTTPError{Status: http.StatusNotFound, URL: "7"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{count: 10, detailErr: tt.err}
			catalog := newTestCatalog(api)
			catalog.detailOpts.RetryDelay = time.Millisecond
			catalog.detailOpts.RetryMaxDelay = 2 * time.Millisecond

			_, err := catalog.Detail(context.Background(), "7")
			require.Error(t, err)
			assert.Equal(t, tt.wantCalls, api.detailCalls.Load())
		})
	}
}

func TestDetail_CardUsesIDFromReference(t *testing.T) {
	api := &fakeAPI{count: 30}
	catalog := newTestCatalog(api)

	q := catalog.Card(context.Background(), pokeapi.ListRef{
		Name: "mon-25",
		URL:  "https://pokeapi.co/api/v2/pokemon/25/",
	}, nil)
	defer q.Close()
	assert.Equal(t, "25", q.Key())

	res := waitDetail(t, q)
	require.NotNil(t, res.Summary)
	assert.Equal(t, 25, res.Summary.ID)
	assert.Equal(t, "mon-25", res.Summary.Name)
	assert.Same(t, res.Summary, q.Result().Summary, "summary is memoized per record")
}

func TestDetail_CardFallsBackToName(t *testing.T) {
	api := &fakeAPI{count: 30}
	q := newTestCatalog(api).Card(context.Background(), pokeapi.ListRef{Name: "Mon-3", URL: "not-a-url"}, nil)
	defer q.Close()
	assert.Equal(t, "mon-3", q.Key())
	res := waitDetail(t, q)
	require.NotNil(t, res.Summary)
	assert.Equal(t, 3, res.Summary.ID)
}

func TestDetail_EmptyKeyIsDisabled(t *testing.T) {
	api := &fakeAPI{count: 30}
	q := newTestCatalog(api).Lookup(context.Background(), "  ", nil)
	defer q.Close()

	res := q.Result()
	assert.False(t, res.IsLoading)
	require.NotNil(t, res.Err)
	assert.Contains(t, res.Err.Message, "pokemon name or id is required")
	assert.Equal(t, int32(0), api.detailCalls.Load())
}

func TestDetail_CardsShareCachedDetail(t *testing.T) {
	api := &fakeAPI{count: 30}
	catalog := newTestCatalog(api)
	ref := pokeapi.ListRef{Name: "mon-7", URL: "https://pokeapi.co/api/v2/pokemon/7/"}

	a := catalog.Card(context.Background(), ref, nil)
	b := catalog.Card(context.Background(), ref, nil)
	waitDetail(t, a)
	waitDetail(t, b)
	a.Close()
	b.Close()

	c := catalog.Card(context.Background(), ref, nil)
	defer c.Close()
	res := c.Result()
	require.NotNil(t, res.Summary, "remount is served from cache")
	assert.Equal(t, int32(1), api.detailCalls.Load())
}

func TestCatalog_NameAndIDShareOneFetch(t *testing.T) {
	api := &fakeAPI{count: 30}
	catalog := newTestCatalog(api)

	byName, err := catalog.Detail(context.Background(), " MON-12 ")
	require.NoError(t, err)
	byID, err := catalog.Detail(context.Background(), "12")
	require.NoError(t, err)
	assert.Same(t, byName, byID)
	assert.Equal(t, int32(1), api.detailCalls.Load())
}

func TestCatalog_ListPageScenario(t *testing.T) {
	api := &fakeAPI{count: 1302}
	catalog := newTestCatalog(api)

	page, err := catalog.ListPage(context.Background(), 0, 20)
	require.NoError(t, err)
	assert.Equal(t, 1302, page.Count)
	assert.Len(t, page.Items, 20)

	s, err := catalog.Summary(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, 1, s.ID)
	assert.Equal(t, mustID(t, page.Items[0].URL), s.ID)
}

func TestCatalog_ResolveMany(t *testing.T) {
	api := &fakeAPI{count: 10}
	catalog := newTestCatalog(api)

	many := catalog.ResolveMany(context.Background(), []string{"3", "missing", "1", "nope"})
	require.Len(t, many.Summaries, 4)
	assert.Equal(t, 3, many.Summaries[0].ID)
	assert.Nil(t, many.Summaries[1])
	assert.Equal(t, 1, many.Summaries[2].ID)
	require.NotNil(t, many.Err)
	assert.Equal(t, http.StatusNotFound, many.Err.StatusCode)

	ok := catalog.ResolveMany(context.Background(), []string{"1", "2"})
	assert.Nil(t, ok.Err)
}

func TestCatalog_Search(t *testing.T) {
	api := &fakeAPI{count: 10}
	catalog := newTestCatalog(api)

	s := catalog.Search(context.Background(), "  MON-4 ")
	require.NotNil(t, s)
	assert.Equal(t, 4, s.ID)
	assert.Nil(t, catalog.Search(context.Background(), "missingno"))
	assert.Nil(t, catalog.Search(context.Background(), ""))
}
